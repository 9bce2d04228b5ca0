package raster

import (
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// faceFont exposes an x/image font.Face as a tinyfont.Fonter so labels can
// be drawn with tinyfont.WriteLine onto any drivers.Displayer.
//
// Concurrent access is not safe due to internal glyph reuse.
type faceFont struct {
	face    font.Face
	g       faceGlyph
	ascent  int
	descent int
	height  uint8
}

func newFaceFont(face font.Face) *faceFont {
	m := face.Metrics()
	return &faceFont{
		face:    face,
		g:       faceGlyph{face: face},
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
		height:  uint8(m.Height.Ceil()),
	}
}

// defaultFont is the 7x13 fixed face, the closest match to a small
// terminal font.
func defaultFont() *faceFont { return newFaceFont(basicfont.Face7x13) }

func (f *faceFont) GetYAdvance() uint8 { return f.height }

func (f *faceFont) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}

type faceGlyph struct {
	face font.Face
	r    rune
}

// Draw renders the glyph with its baseline origin at (x, y).
func (g *faceGlyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	dr, mask, mp, _, ok := g.face.Glyph(fixed.Point26_6{}, g.r)
	if !ok || mask == nil {
		return
	}
	for py := dr.Min.Y; py < dr.Max.Y; py++ {
		for px := dr.Min.X; px < dr.Max.X; px++ {
			_, _, _, a := mask.At(mp.X+px-dr.Min.X, mp.Y+py-dr.Min.Y).RGBA()
			if a < 0x8000 {
				continue
			}
			display.SetPixel(x+int16(px), y+int16(py), c)
		}
	}
}

func (g *faceGlyph) Info() tinyfont.GlyphInfo {
	dr, _, _, adv, ok := g.face.Glyph(fixed.Point26_6{}, g.r)
	if !ok {
		adv, _ = g.face.GlyphAdvance(g.r)
		return tinyfont.GlyphInfo{Rune: g.r, XAdvance: uint8(adv.Round())}
	}
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    uint8(dr.Dx()),
		Height:   uint8(dr.Dy()),
		XAdvance: uint8(adv.Round()),
		XOffset:  int8(dr.Min.X),
		YOffset:  int8(dr.Min.Y),
	}
}
