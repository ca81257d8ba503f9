// Package services provides domain services that operate across aggregates
// without belonging to any of them.
//
// The package includes:
//   - LineResolver: prices cart lines into immutable order line snapshots
//   - MessageComposer: renders staff and customer chat messages
//   - EncodeStatusCallback / DecodeStatusCallback: versioned staff button payloads
//
// Services are stateless and never perform I/O; callers load catalog items and
// deliver messages through ports.
package services
