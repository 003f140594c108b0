package record

import "errors"

var (
	// ErrRemoteUnavailable covers transport and decoding failures of the remote tier.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrNotFound means the id is absent from the consulted tier.
	ErrNotFound = errors.New("record not found")
	// ErrSourcesExhausted means remote and the local fallback both failed a read.
	ErrSourcesExhausted = errors.New("sources exhausted")
	// ErrInvalidState flags a state that should be unreachable.
	ErrInvalidState = errors.New("invalid state")
	// ErrEmptyRecord is returned by Validate when base or display name is missing.
	ErrEmptyRecord = errors.New("record is empty")
	// ErrInvalidPrice is returned when a price is not a decimal number.
	ErrInvalidPrice = errors.New("invalid price")
)
