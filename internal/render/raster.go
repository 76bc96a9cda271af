package render

import (
	"bytes"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/railmap/railmap/internal/style"
)

// tilePixelRatio is the oversampling factor of raster tiles. Clients
// declare the same ratio and display the 512 pixel image in a 256 pixel
// tile slot.
const tilePixelRatio = 2

// rasterSize is the pixel side length of an encoded raster tile.
const rasterSize = tilePixelRatio * 256

var labelFont = func() *opentype.Font {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic("render: parsing embedded label font: " + err.Error())
	}
	return f
}()

// Raster draws into an RGBA image and encodes it as PNG.
type Raster struct {
	ctx   *gg.Context
	px    float64
	faces map[float64]font.Face
	err   error
}

// NewRaster returns an empty, fully transparent raster canvas.
func NewRaster() *Raster {
	return &Raster{
		ctx:   gg.NewContext(rasterSize, rasterSize),
		px:    rasterSize / style.CanvasBp,
		faces: make(map[float64]font.Face),
	}
}

func (r *Raster) MoveTo(x, y float64) {
	r.ctx.MoveTo(x*r.px, y*r.px)
}

func (r *Raster) LineTo(x, y float64) {
	r.ctx.LineTo(x*r.px, y*r.px)
}

func (r *Raster) ClosePath() {
	r.ctx.ClosePath()
}

func (r *Raster) Stroke(p Paint) {
	r.ctx.SetRGBA(p.Color.R, p.Color.G, p.Color.B, p.Color.A)
	r.ctx.SetLineWidth(p.Width * r.px)
	r.ctx.SetLineCapRound()
	r.ctx.SetLineJoinRound()
	if len(p.Dash) > 0 {
		dash := make([]float64, len(p.Dash))
		for i, d := range p.Dash {
			dash[i] = d * r.px
		}
		r.ctx.SetDash(dash...)
	} else {
		r.ctx.SetDash()
	}
	r.ctx.Stroke()
}

func (r *Raster) Fill(c style.Color) {
	r.ctx.SetRGBA(c.R, c.G, c.B, c.A)
	r.ctx.Fill()
}

func (r *Raster) Text(x, y float64, s string, size float64, anchor Anchor, c style.Color) {
	face, err := r.face(size)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.ctx.SetFontFace(face)
	r.ctx.SetRGBA(c.R, c.G, c.B, c.A)
	var ax float64
	switch anchor {
	case AnchorMiddle:
		ax = 0.5
	case AnchorEnd:
		ax = 1
	}
	r.ctx.DrawStringAnchored(s, x*r.px, y*r.px, ax, 0.35)
}

func (r *Raster) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    size * r.px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

func (r *Raster) Encode() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.ctx.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
