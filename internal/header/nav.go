package header

import "strings"

// Channel is an entry of the channel bar, e.g. "Topics" at /topics.
type Channel struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

type Category struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Path is the category page URL.
func (c Category) Path() string { return "/categories/" + c.ID }

// Nav is the catalog the navigation bars and the mobile panel are built from.
type Nav struct {
	Channels   []Channel
	Categories []Category
}

type Link struct {
	Label  string
	Href   string
	Active bool
}

// ChannelLinks marks the channel whose path prefixes pathName as active.
func (n Nav) ChannelLinks(pathName string) []Link {
	links := make([]Link, 0, len(n.Channels))
	for _, c := range n.Channels {
		links = append(links, Link{
			Label:  c.Label,
			Href:   c.Path,
			Active: c.Path != "/" && (pathName == c.Path || strings.HasPrefix(pathName, c.Path+"/")),
		})
	}
	return links
}

func (n Nav) CategoryLinks(categoryID string) []Link {
	links := make([]Link, 0, len(n.Categories))
	for _, c := range n.Categories {
		links = append(links, Link{
			Label:  c.Label,
			Href:   c.Path(),
			Active: categoryID != "" && c.ID == categoryID,
		})
	}
	return links
}

// Category looks up a category by id.
func (n Nav) Category(id string) (Category, bool) {
	for _, c := range n.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
