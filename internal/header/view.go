package header

import "html/template"

const (
	SignInHref    = "/signin"
	BookmarksHref = "/bookmarks"
	SearchHref    = "/search"

	// ActionPath receives the header's toggle forms.
	ActionPath = "/header/action"
)

// View is everything the header templates need for one render.
type View struct {
	BgColor    string
	Height     int
	StyleSheet template.CSS
	Logo       Logo
	ActionPath string
	// ReturnTo is where action forms redirect after updating state.
	ReturnTo string

	Icons Icons
	Panel Panel

	// Channels and Categories are nil on the index page.
	Channels   *ChannelBar
	Categories *CategoryBar
}

// Icons is the authentication-dependent action cluster.
type Icons struct {
	Authenticated bool
	SignOutAction string
	SignInHref    string
	BookmarksHref string
	SearchHref    string
}

// Panel is the slide-down panel shown on mobile after the hamburger is clicked.
type Panel struct {
	Open          bool
	IsIndex       bool
	CategoryID    string
	Channels      []Link
	Categories    []Link
	Authenticated bool
	SignOutAction string
	SignInHref    string
}

type ChannelBar struct {
	FontColor      string
	Links          []Link
	CategoriesOpen bool
	Position       Position
}

type CategoryBar struct {
	Open    bool
	BgColor string
	Links   []Link
}

// Build composes the header for props in state s.
func Build(p Props, s State, nav Nav) View {
	v := View{
		BgColor:    p.BgColor,
		Height:     LayoutFor(Mobile, p.IsIndex, p.Position).Height,
		StyleSheet: StyleSheet(p.IsIndex, p.Position),
		Logo:       SelectLogo(p.LogoColor),
		ActionPath: ActionPath,
		ReturnTo:   p.PathName,
		Icons: Icons{
			Authenticated: p.Authenticated,
			SignOutAction: p.SignOutAction,
			SignInHref:    SignInHref,
			BookmarksHref: BookmarksHref,
			SearchHref:    SearchHref,
		},
		Panel: Panel{
			Open:          s.MobilePanelOpen,
			IsIndex:       p.IsIndex,
			CategoryID:    p.CategoryID,
			Channels:      nav.ChannelLinks(p.PathName),
			Categories:    nav.CategoryLinks(p.CategoryID),
			Authenticated: p.Authenticated,
			SignOutAction: p.SignOutAction,
			SignInHref:    SignInHref,
		},
	}
	if v.ReturnTo == "" {
		v.ReturnTo = "/"
	}
	if p.IsIndex {
		return v
	}
	v.Channels = &ChannelBar{
		FontColor:      p.FontColor,
		Links:          nav.ChannelLinks(p.PathName),
		CategoriesOpen: s.CategoriesOpen,
		Position:       p.Position,
	}
	v.Categories = &CategoryBar{
		Open:    s.CategoriesOpen,
		BgColor: p.BgColor,
		Links:   nav.CategoryLinks(p.CategoryID),
	}
	return v
}
