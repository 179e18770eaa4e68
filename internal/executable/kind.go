package executable

import (
	"fmt"
	"strings"
)

// Kind tags which of the two executables a value refers to. Every
// kind-specific behavior switches on it explicitly.
type Kind int

const (
	Transform Kind = iota + 1
	Spectrum
)

// Kinds lists every executable kind in pipeline order.
var Kinds = []Kind{Transform, Spectrum}

func (k Kind) String() string {
	switch k {
	case Transform:
		return "transform"
	case Spectrum:
		return "spectrum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the configuration spelling of a Kind.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "transform", "fft":
		return Transform, nil
	case "spectrum", "plk":
		return Spectrum, nil
	}
	return 0, fmt.Errorf("unknown executable kind %q", raw)
}
