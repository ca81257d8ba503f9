package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/pkg/errs"
)

const (
	// CallbackVersion is the only payload version this build writes and reads.
	// Version 1 buttons carried no expected status and are rejected.
	CallbackVersion = 2

	// MaxCallbackDataLength is the chat transport's limit for button data, in bytes.
	MaxCallbackDataLength = 64

	callbackActionSetStatus = "s"
)

// ErrCallbackTooLong is returned when an encoded payload would exceed MaxCallbackDataLength.
var ErrCallbackTooLong = errors.New("callback data exceeds transport limit")

// callbackPayload is the wire form of a staff button. Keys are single letters
// and statuses are numeric because the whole payload must fit in
// MaxCallbackDataLength bytes.
type callbackPayload struct {
	Version int          `json:"v"`
	Action  string       `json:"a"`
	OrderID string       `json:"o"`
	From    order.Status `json:"f"`
	Target  order.Status `json:"t"`
}

// StatusCallback is a decoded "move order from status to status" button press.
// From is the status the order had when the button was rendered.
type StatusCallback struct {
	OrderID kernel.UUID
	From    order.Status
	Target  order.Status
}

// EncodeStatusCallback renders the button data for moving orderID from from to target.
func EncodeStatusCallback(orderID kernel.UUID, from, target order.Status) (string, error) {
	if err := errors.Join(orderID.Validate(), from.Validate(), target.Validate()); err != nil {
		return "", err
	}

	data, err := json.Marshal(callbackPayload{
		Version: CallbackVersion,
		Action:  callbackActionSetStatus,
		OrderID: orderID.Compact(),
		From:    from,
		Target:  target,
	})
	if err != nil {
		return "", err
	}
	if len(data) > MaxCallbackDataLength {
		return "", fmt.Errorf("%w: %d bytes", ErrCallbackTooLong, len(data))
	}
	return string(data), nil
}

// DecodeStatusCallback parses button data once at the transport boundary.
// Unknown versions and actions are rejected rather than guessed at.
func DecodeStatusCallback(data string) (StatusCallback, error) {
	var header struct {
		Version int `json:"v"`
	}
	if err := json.Unmarshal([]byte(data), &header); err != nil {
		return StatusCallback{}, errs.NewValueIsInvalidErrorWithCause("callback", err)
	}
	if header.Version != CallbackVersion {
		return StatusCallback{}, errs.NewVersionIsInvalidErrorWithCause("callback",
			fmt.Errorf("unsupported version %d", header.Version))
	}

	var p callbackPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return StatusCallback{}, errs.NewValueIsInvalidErrorWithCause("callback", err)
	}
	if p.Action != callbackActionSetStatus {
		return StatusCallback{}, errs.NewValueIsInvalidErrorWithCause("callback",
			fmt.Errorf("unknown action %q", p.Action))
	}

	id, err := kernel.UUIDFromCompact(p.OrderID)
	if err != nil {
		return StatusCallback{}, errs.NewValueIsInvalidErrorWithCause("callback", err)
	}
	if err = errors.Join(p.From.Validate(), p.Target.Validate()); err != nil {
		return StatusCallback{}, err
	}

	return StatusCallback{OrderID: id, From: p.From, Target: p.Target}, nil
}
