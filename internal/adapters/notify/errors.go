package notify

import "errors"

var (
	// ErrNoRecipient indicates a message with an empty recipient address.
	ErrNoRecipient = errors.New("no recipient address")

	// ErrDeliveryFailed indicates the SMTP relay rejected or dropped the
	// message.
	ErrDeliveryFailed = errors.New("delivery failed")
)
