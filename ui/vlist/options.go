package vlist

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miosa/osa-vlist/ui/lifecycle"
	"github.com/miosa/osa-vlist/ui/scroll"
)

// Axis is the scroll axis.
type Axis int

const (
	AxisY Axis = iota
	AxisX
)

func (a Axis) String() string {
	switch a {
	case AxisY:
		return "y"
	case AxisX:
		return "x"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis parses "x" or "y".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "":
		return AxisY, nil
	case "x":
		return AxisX, nil
	}
	return AxisY, fmt.Errorf("%w: unknown axis %q", ErrInvalidOption, s)
}

// EventOptions are handed to the viewport's scroll subscription.
type EventOptions struct {
	Capture bool
	Passive bool
}

// Defaults.
const (
	DefaultPerformanceAlertLimit = 16 * time.Millisecond
	DefaultEndTimeout            = scroll.DefaultEndTimeout
	DefaultLazyDelay             = lifecycle.DefaultLazyDelay
)

// Options configure a List.
type Options struct {
	Axis    Axis
	Mode    lifecycle.Mode
	Reverse bool
	// Dynamic sizes every item individually. Cache and declarative modes only.
	Dynamic bool
	// ExtraChunk is how many items beyond the visible edge are rendered in
	// the direction of travel.
	ExtraChunk int
	// Length is the initial collection length outside declarative mode.
	Length int

	// Lazy enables placeholder rendering when the scroll delta magnitude
	// exceeds it. Zero disables.
	Lazy      int
	LazyDelay time.Duration

	Debug                 bool
	PerformanceAlertLimit time.Duration
	EndTimeout            time.Duration
	EventOptions          EventOptions

	// StartIndex, or else StartPosition, is scrolled to after the first
	// population when positive.
	StartIndex    int
	StartPosition int

	// Logger defaults to logger.L.
	Logger *slog.Logger
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Axis:                  AxisY,
		Mode:                  lifecycle.Recreate,
		LazyDelay:             DefaultLazyDelay,
		PerformanceAlertLimit: DefaultPerformanceAlertLimit,
		EndTimeout:            DefaultEndTimeout,
		EventOptions:          EventOptions{Capture: true},
		StartIndex:            -1,
		StartPosition:         -1,
	}
}

func (o Options) withDefaults() Options {
	if o.LazyDelay <= 0 {
		o.LazyDelay = DefaultLazyDelay
	}
	if o.PerformanceAlertLimit <= 0 {
		o.PerformanceAlertLimit = DefaultPerformanceAlertLimit
	}
	if o.EndTimeout <= 0 {
		o.EndTimeout = DefaultEndTimeout
	}
	return o
}

// Validate reports configuration errors that do not depend on the viewport.
func (o Options) Validate() error {
	switch {
	case o.Axis != AxisX && o.Axis != AxisY:
		return fmt.Errorf("%w: axis %s", ErrInvalidOption, o.Axis)
	case !o.Mode.Valid():
		return fmt.Errorf("%w: mode %s", ErrInvalidOption, o.Mode)
	case o.Dynamic && !o.Mode.Persists():
		return fmt.Errorf("%w: mode %s", ErrDynamicMode, o.Mode)
	case o.ExtraChunk < 0:
		return fmt.Errorf("%w: extra chunk %d", ErrInvalidOption, o.ExtraChunk)
	case o.Length < 0:
		return fmt.Errorf("%w: length %d", ErrInvalidOption, o.Length)
	case o.Lazy < 0:
		return fmt.Errorf("%w: lazy %d", ErrInvalidOption, o.Lazy)
	}
	return nil
}
