package vlist

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by every configuration error New returns.
var ErrConfig = errors.New("vlist: invalid configuration")

var (
	ErrNoIdentity    = fmt.Errorf("%w: viewport needs a stable id", ErrConfig)
	ErrNoRenderer    = fmt.Errorf("%w: render callback required outside declarative mode", ErrConfig)
	ErrDynamicMode   = fmt.Errorf("%w: dynamic sizing only works in cache and declarative mode", ErrConfig)
	ErrInvalidOption = fmt.Errorf("%w: invalid option", ErrConfig)
)

// ErrWrongMode is returned by operations that do not apply to the list's
// mode.
var ErrWrongMode = errors.New("vlist: operation not supported in this mode")
