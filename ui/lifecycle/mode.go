// Package lifecycle owns item handles once they leave the host renderer:
// which handles are cached per index, which sit in the reuse pool, and which
// are given back to the host.
//
// Four policies are supported:
//
//   - Recreate: handles scrolled out are released; revisits render again.
//   - Cache: handles scrolled out stay cached by index until a flush.
//   - Recycle: handles scrolled out go to a pool and are reused for new indices.
//   - Declarative: the host supplies every handle up front; all are cached.
package lifecycle

import (
	"fmt"
	"strings"
)

// Mode selects the handle lifecycle policy.
type Mode int

const (
	Recreate Mode = iota
	Cache
	Recycle
	Declarative
)

func (m Mode) String() string {
	switch m {
	case Recreate:
		return "recreate"
	case Cache:
		return "cache"
	case Recycle:
		return "recycle"
	case Declarative:
		return "declarative"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Persists reports whether handles survive scroll-out keyed by index.
func (m Mode) Persists() bool {
	return m == Cache || m == Declarative
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= Recreate && m <= Declarative
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recreate", "":
		return Recreate, nil
	case "cache":
		return Cache, nil
	case "recycle":
		return Recycle, nil
	case "declarative":
		return Declarative, nil
	}
	return Recreate, fmt.Errorf("unknown mode %q", s)
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
