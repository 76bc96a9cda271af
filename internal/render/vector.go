package render

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/railmap/railmap/internal/style"
)

// svgUnit is the number of SVG user units per typographic point. SVG text
// positions are integral, so drawing at a finer grid keeps label placement
// below visible rounding.
const svgUnit = 4

// Vector draws into an SVG document sized to the tile canvas.
type Vector struct {
	buf  bytes.Buffer
	svg  *svg.SVG
	path strings.Builder
	done bool
}

// NewVector returns an empty SVG canvas.
func NewVector() *Vector {
	v := &Vector{}
	v.svg = svg.New(&v.buf)
	side := int(style.CanvasBp)
	v.svg.Startview(side, side, 0, 0, side*svgUnit, side*svgUnit)
	return v
}

func (v *Vector) MoveTo(x, y float64) {
	fmt.Fprintf(&v.path, "M%.1f %.1f", x*svgUnit, y*svgUnit)
}

func (v *Vector) LineTo(x, y float64) {
	fmt.Fprintf(&v.path, "L%.1f %.1f", x*svgUnit, y*svgUnit)
}

func (v *Vector) ClosePath() {
	v.path.WriteString("Z")
}

func (v *Vector) Stroke(p Paint) {
	d := v.take()
	if d == "" {
		return
	}
	sty := fmt.Sprintf(
		"fill:none;stroke:%s;stroke-opacity:%.3g;stroke-width:%.2f;stroke-linecap:round;stroke-linejoin:round",
		p.Color.Hex(), p.Color.A, p.Width*svgUnit)
	if len(p.Dash) > 0 {
		parts := make([]string, len(p.Dash))
		for i, seg := range p.Dash {
			parts[i] = fmt.Sprintf("%.2f", seg*svgUnit)
		}
		sty += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	v.svg.Path(d, "style=\""+sty+"\"")
}

func (v *Vector) Fill(c style.Color) {
	d := v.take()
	if d == "" {
		return
	}
	sty := fmt.Sprintf("fill:%s;fill-opacity:%.3g;stroke:none", c.Hex(), c.A)
	v.svg.Path(d, "style=\""+sty+"\"")
}

func (v *Vector) Text(x, y float64, s string, size float64, anchor Anchor, c style.Color) {
	align := "start"
	switch anchor {
	case AnchorMiddle:
		align = "middle"
	case AnchorEnd:
		align = "end"
	}
	sty := fmt.Sprintf(
		"font-family:sans-serif;font-size:%.1fpx;fill:%s;fill-opacity:%.3g;text-anchor:%s",
		size*svgUnit, c.Hex(), c.A, align)
	// The position is the vertical center; shift down to the baseline.
	baseline := y + 0.35*size
	v.svg.Text(round(x*svgUnit), round(baseline*svgUnit), s, "style=\""+sty+"\"")
}

func (v *Vector) take() string {
	d := v.path.String()
	v.path.Reset()
	return d
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func (v *Vector) Encode() ([]byte, error) {
	if !v.done {
		v.svg.End()
		v.done = true
	}
	return v.buf.Bytes(), nil
}
