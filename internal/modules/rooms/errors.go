package rooms

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not_found")
	ErrNameTaken         = errors.New("room name already in use")
	ErrInvalidTransition = errors.New("invalid room status transition")
)
