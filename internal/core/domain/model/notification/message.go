// Package notification holds the transport-neutral message handed to a messenger.
package notification

// Action is a button offered with a message. Data is opaque to the transport
// and comes back verbatim when the recipient presses the button.
type Action struct {
	Label string
	Data  string
}

// Message is the text and optional actions for one recipient.
type Message struct {
	Text    string
	Actions []Action
}

// HasActions reports whether the message carries buttons.
func (m Message) HasActions() bool {
	return len(m.Actions) > 0
}
