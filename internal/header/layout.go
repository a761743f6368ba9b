package header

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

// Pixel values of the top row.
const (
	HeaderHeight      = 109
	HeaderHeightIndex = 62

	TabletMaxWidth  = 768
	DesktopMaxWidth = 1024
	HDMaxWidth      = 1440
)

var topRowPadding = map[Breakpoint][4]int{
	Mobile:  {34, 10, 35, 24},
	Tablet:  {34, 20, 35, 35},
	Desktop: {34, 58, 35, 70},
	HD:      {34, 58, 35, 70},
}

var topRowPaddingIndex = map[Breakpoint][4]int{
	Mobile:  {18, 16, 18, 16},
	Tablet:  {18, 34, 18, 34},
	Desktop: {18, 47, 18, 47},
	HD:      {18, 47, 18, 47},
}

// Layout holds the top-row parameters for one breakpoint tier.
// An empty MaxWidth means no max-width rule applies.
type Layout struct {
	Height   int
	Padding  [4]int
	MaxWidth string
}

// PaddingCSS renders Padding as a CSS shorthand, top right bottom left.
func (l Layout) PaddingCSS() string {
	parts := make([]string, len(l.Padding))
	for i, v := range l.Padding {
		parts[i] = strconv.Itoa(v) + "px"
	}
	return strings.Join(parts, " ")
}

func LayoutFor(bp Breakpoint, isIndex bool, pos Position) Layout {
	l := Layout{Height: HeaderHeight}
	paddings := topRowPadding
	if isIndex {
		l.Height = HeaderHeightIndex
		paddings = topRowPaddingIndex
	}
	l.Padding = paddings[bp]

	switch bp {
	case Tablet:
		l.MaxWidth = px(TabletMaxWidth)
	case Desktop:
		if isIndex {
			l.MaxWidth = px(DesktopMaxWidth)
		} else {
			l.MaxWidth = px(HDMaxWidth)
		}
	case HD:
		if pos == PositionUpon {
			l.MaxWidth = "100%"
		} else {
			l.MaxWidth = px(HDMaxWidth)
		}
	}
	return l
}

// StyleSheet renders the top-row rules of every tier as media blocks.
func StyleSheet(isIndex bool, pos Position) template.CSS {
	var b strings.Builder
	for _, bp := range Breakpoints {
		l := LayoutFor(bp, isIndex, pos)
		fmt.Fprintf(&b, "@media %s {\n  .masthead-top-row-content {\n", bp.MediaQuery())
		fmt.Fprintf(&b, "    padding: %s;\n", l.PaddingCSS())
		if l.MaxWidth != "" {
			fmt.Fprintf(&b, "    max-width: %s;\n", l.MaxWidth)
		}
		b.WriteString("  }\n}\n")
	}
	return template.CSS(b.String())
}

func px(n int) string { return strconv.Itoa(n) + "px" }
