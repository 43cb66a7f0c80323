package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Contact book errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrContactNotFound = fmt.Errorf("contact not found")
	ErrStorage         = fmt.Errorf("storage failure")

	// Input errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownFormat   = fmt.Errorf("unknown format")
)
