package order

import "time"

// HistoryEntry records one applied status. The first entry of every order is
// Pending with the customer as actor.
type HistoryEntry struct {
	status    Status
	changedAt time.Time
	actor     string
}

func NewHistoryEntry(status Status, changedAt time.Time, actor string) HistoryEntry {
	return HistoryEntry{status: status, changedAt: changedAt.UTC(), actor: actor}
}

func (h HistoryEntry) Status() Status {
	return h.status
}

func (h HistoryEntry) ChangedAt() time.Time {
	return h.changedAt
}

func (h HistoryEntry) Actor() string {
	return h.actor
}
