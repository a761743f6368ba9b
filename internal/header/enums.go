package header

import (
	"fmt"
	"strings"
)

// LogoColor selects one of the two logo assets.
type LogoColor int

const (
	LogoDark LogoColor = iota
	LogoBright
)

func (c LogoColor) String() string {
	if c == LogoBright {
		return "bright"
	}
	return "dark"
}

func ParseLogoColor(s string) (LogoColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dark":
		return LogoDark, nil
	case "bright":
		return LogoBright, nil
	}
	return LogoDark, fmt.Errorf("unknown logo color %q", s)
}

// Position is the header position mode. It only affects the HD tier max width.
type Position int

const (
	PositionDefault Position = iota
	// PositionUpon lays the header over the page content at full width.
	PositionUpon
)

func (p Position) String() string {
	if p == PositionUpon {
		return "upon"
	}
	return "default"
}

func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return PositionDefault, nil
	case "upon":
		return PositionUpon, nil
	}
	return PositionDefault, fmt.Errorf("unknown header position %q", s)
}

type Breakpoint int

const (
	Mobile Breakpoint = iota
	Tablet
	Desktop
	HD
)

// Breakpoints lists the tiers from narrowest to widest.
var Breakpoints = []Breakpoint{Mobile, Tablet, Desktop, HD}

func (b Breakpoint) String() string {
	switch b {
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	case HD:
		return "hd"
	default:
		return "mobile"
	}
}

// MediaQuery returns the CSS media condition covering exactly this tier.
func (b Breakpoint) MediaQuery() string {
	switch b {
	case Tablet:
		return "(min-width: 768px) and (max-width: 1023px)"
	case Desktop:
		return "(min-width: 1024px) and (max-width: 1439px)"
	case HD:
		return "(min-width: 1440px)"
	default:
		return "(max-width: 767px)"
	}
}
