package header

import "fmt"

// State is the header UI state owned by one visitor. The zero value is the
// initial state: both the categories menu and the mobile panel closed.
type State struct {
	CategoriesOpen  bool `json:"categories_open"`
	MobilePanelOpen bool `json:"mobile_panel_open"`
}

type Action int

const (
	ToggleCategories Action = iota + 1
	OpenCategories
	CloseCategories
	ToggleMobilePanel
)

var actionNames = map[Action]string{
	ToggleCategories:  "categories.toggle",
	OpenCategories:    "categories.open",
	CloseCategories:   "categories.close",
	ToggleMobilePanel: "mobile.toggle",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a form value such as "categories.toggle" to its Action.
func ParseAction(s string) (Action, error) {
	for a, n := range actionNames {
		if n == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown header action %q", s)
}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	switch a {
	case ToggleCategories:
		s.CategoriesOpen = !s.CategoriesOpen
	case OpenCategories:
		s.CategoriesOpen = true
	case CloseCategories:
		s.CategoriesOpen = false
	case ToggleMobilePanel:
		s.MobilePanelOpen = !s.MobilePanelOpen
	}
	return s
}

// Sync applies the navigation rule when next replaces prev: an open
// categories menu closes once the path changes. Only the immediately
// preceding props are compared. The mobile panel is left as is.
func Sync(prev, next Props, s State) State {
	if s.CategoriesOpen && prev.PathName != next.PathName {
		s.CategoriesOpen = false
	}
	return s
}
