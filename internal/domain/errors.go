package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrDuplicateOperation = errors.New("duplicate operation")
	ErrCapacity           = errors.New("generation service over capacity")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrNoImageInResponse  = errors.New("generation response contained no image")
	ErrPostProcess        = errors.New("post-processing failed")
)
