package viewer

import (
	"github.com/five82/trawl/internal/record"
	"github.com/five82/trawl/internal/window"
)

// viewport is the scrollable body of the table, in lines.
type viewport struct {
	top     float64
	client  float64
	content func() float64
}

func (v *viewport) ScrollTop() float64    { return v.top }
func (v *viewport) ClientHeight() float64 { return v.client }
func (v *viewport) ScrollHeight() float64 { return v.content() }

func (v *viewport) SetScrollTop(top float64) {
	v.top = v.clamp(top)
}

func (v *viewport) maxTop() float64 {
	return max(v.content()-v.client, 0)
}

func (v *viewport) clamp(top float64) float64 {
	return min(max(top, 0), v.maxTop())
}

// wrapHeights measures rows in wrap mode: the title spreads over as many
// lines as it needs, up to maxWrapLines.
func wrapHeights(records func() []record.Record, titleWidth func() int, measure func(string) int) *window.Layout {
	return window.NewLayout(func(i int) float64 {
		recs := records()
		if i < 0 || i >= len(recs) || recs[i].IsSeparator() {
			return 1
		}
		w := titleWidth()
		if w <= 0 {
			return 1
		}
		n := (measure(recs[i].Title) + w - 1) / w
		return float64(min(max(n, 1), maxWrapLines))
	})
}
