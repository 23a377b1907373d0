package symmetric

import "errors"

// Sentinel errors forming the taxonomy of spec.md §7. Wrap with fmt.Errorf
// and %w so callers can still errors.Is against these.
var (
	ErrInvalidArgument = errors.New("symmetric: invalid argument")
	ErrInvalidData     = errors.New("symmetric: invalid data")
	ErrInputTooShort   = errors.New("symmetric: input shorter than one block")
	ErrUseAfterClose   = errors.New("symmetric: context used after disposal")
	ErrIO              = errors.New("symmetric: io error")
	ErrNotInitialized  = errors.New("symmetric: cipher not initialized")
)
