//go:build !tinygo && cgo

package hal

import (
	"errors"
	"math"

	"grafcalc/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a resizable desktop window that displays the
// framebuffer and forwards keyboard and pointer input. It blocks until the
// window closes or the app step returns ErrStop.
func RunWindow(newApp func(HAL) func() error, cfg HostConfig) error {
	h := newHost(cfg)
	step := newApp(h)

	g := &hostGame{h: h, step: step, cursor: CursorDefault}
	ebiten.SetWindowTitle(h.cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h      *hostHAL
	fbImg  *ebiten.Image
	pix    []byte
	gen    uint64
	cursor Cursor
	step   func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	w, h := g.h.display.LogicalSize()
	g.h.ptr.poll(g.h.display.DeviceScaleFactor(), w, h)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	g.applyCursor()
	return nil
}

func (g *hostGame) applyCursor() {
	c := g.h.display.currentCursor()
	if c == g.cursor {
		return
	}
	g.cursor = c
	switch c {
	case CursorGrab:
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	case CursorGrabbing:
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
	case CursorCrosshair:
		ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	pix, gen, w, h := g.h.display.fb.snapshotRGBA(g.pix, g.gen)
	if w == 0 || h == 0 {
		return
	}
	if gen != g.gen {
		if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
			if g.fbImg != nil {
				g.fbImg.Deallocate()
			}
			g.fbImg = ebiten.NewImage(w, h)
		}
		g.fbImg.WritePixels(pix)
		g.pix, g.gen = pix, gen
	}
	if g.fbImg != nil {
		screen.DrawImage(g.fbImg, nil)
	}
}

// Layout reports the window's logical size to the display and renders at
// physical resolution.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	dsf := g.h.cfg.DeviceScaleFactor
	if dsf <= 0 {
		dsf = ebiten.Monitor().DeviceScaleFactor()
	}
	g.h.display.setLayout(outsideWidth, outsideHeight, dsf)
	return int(math.Ceil(float64(outsideWidth) * dsf)), int(math.Ceil(float64(outsideHeight) * dsf))
}
