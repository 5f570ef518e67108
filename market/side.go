package market

import "strings"

// Side is the direction of a position.
type Side int

const (
	Flat Side = iota
	Long
	Short
)

func (s Side) String() string {
	switch s {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// Opposite returns Short for Long and Long for Short. Flat stays Flat.
func (s Side) Opposite() Side {
	switch s {
	case Long:
		return Short
	case Short:
		return Long
	default:
		return Flat
	}
}

// ParseSide accepts LONG, SHORT and FLAT in any case. Anything else is Flat.
func ParseSide(s string) Side {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG":
		return Long
	case "SHORT":
		return Short
	default:
		return Flat
	}
}
