// Package order provides the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: aggregate root holding the immutable line snapshot and mutable status
//   - Status: the preparation lifecycle with its legal successor graph
//   - Details, Line, Number: value objects fixed at submission
//   - StatusEvent: the committed change handed to notification dispatch
//
// Key business rules:
//   - Orders start in Pending and follow Pending -> Confirmed -> Preparing -> Ready -> Completed
//   - Cancelled is reachable from every non-terminal status
//   - Completed and Cancelled accept no further transitions
//   - Repeating the current status is a no-op, never an error
//   - Totals are integer minor units computed once at creation
package order
