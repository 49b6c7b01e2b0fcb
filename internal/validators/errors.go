package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle     = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title is too long")
	ErrNotesTooLong   = errors.New("notes are too long")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyPaidFor   = errors.New("paidFor entries cannot be empty")
	ErrTooManyPaidFor = errors.New("too many paidFor entries")
)
