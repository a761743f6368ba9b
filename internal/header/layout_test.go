package header_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"masthead/internal/header"
)

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		bp      header.Breakpoint
		isIndex bool
		pos     header.Position
		want    header.Layout
	}{
		{header.Mobile, false, header.PositionDefault, lay(109, [4]int{34, 10, 35, 24}, "")},
		{header.Tablet, false, header.PositionDefault, lay(109, [4]int{34, 20, 35, 35}, "768px")},
		{header.Desktop, false, header.PositionDefault, lay(109, [4]int{34, 58, 35, 70}, "1440px")},
		{header.HD, false, header.PositionDefault, lay(109, [4]int{34, 58, 35, 70}, "1440px")},
		{header.HD, false, header.PositionUpon, lay(109, [4]int{34, 58, 35, 70}, "100%")},
		{header.Mobile, true, header.PositionDefault, lay(62, [4]int{18, 16, 18, 16}, "")},
		{header.Tablet, true, header.PositionUpon, lay(62, [4]int{18, 34, 18, 34}, "768px")},
		{header.Desktop, true, header.PositionDefault, lay(62, [4]int{18, 47, 18, 47}, "1024px")},
		{header.Desktop, true, header.PositionUpon, lay(62, [4]int{18, 47, 18, 47}, "1024px")},
		{header.HD, true, header.PositionUpon, lay(62, [4]int{18, 47, 18, 47}, "100%")},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/index=%v/%s", tt.bp, tt.isIndex, tt.pos), func(t *testing.T) {
			assert.Equal(t, tt.want, header.LayoutFor(tt.bp, tt.isIndex, tt.pos))
		})
	}
}

func lay(h int, pad [4]int, maxWidth string) header.Layout {
	return header.Layout{Height: h, Padding: pad, MaxWidth: maxWidth}
}

func TestLayout_PaddingCSS(t *testing.T) {
	l := header.LayoutFor(header.Mobile, false, header.PositionDefault)
	assert.Equal(t, "34px 10px 35px 24px", l.PaddingCSS())
}

func TestStyleSheet(t *testing.T) {
	css := string(header.StyleSheet(false, header.PositionUpon))
	assert.Equal(t, 4, strings.Count(css, "@media"))
	assert.Contains(t, css, "@media (max-width: 767px)")
	assert.Contains(t, css, "max-width: 100%;")
	// the mobile tier has no max-width declaration, only its media query mentions one
	mobile := css[:strings.Index(css, "@media (min-width: 768px)")]
	assert.NotContains(t, mobile, "    max-width:")
	assert.Contains(t, mobile, "    padding: 34px 10px 35px 24px;")
	assert.Empty(t, header.LayoutFor(header.Mobile, false, header.PositionUpon).MaxWidth)
}
