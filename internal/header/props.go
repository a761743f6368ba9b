package header

import "errors"

// DefaultFontColor is used by the channel bar when no font color is configured.
const DefaultFontColor = "#262626"

var ErrSignOutRequired = errors.New("header: sign-out action is required")

// Props is the configuration a page hands to the header on every render.
// Authenticated and SignOutAction are required.
type Props struct {
	BgColor       string
	CategoryID    string
	FontColor     string
	LogoColor     LogoColor
	PathName      string
	Authenticated bool
	IsIndex       bool
	Position      Position
	// SignOutAction is the URL the sign-out form posts to.
	SignOutAction string
}

func (p *Props) Defaults() {
	if p.FontColor == "" {
		p.FontColor = DefaultFontColor
	}
}

func (p *Props) Validate() error {
	if p.SignOutAction == "" {
		return ErrSignOutRequired
	}
	return nil
}

// New applies defaults and fails fast on a missing required input.
func New(p Props) (Props, error) {
	p.Defaults()
	if err := p.Validate(); err != nil {
		return Props{}, err
	}
	return p, nil
}
