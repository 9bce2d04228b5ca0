//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch     chan PointerEvent
	x, y   float64
	inside bool
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 256)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

var pointerButtons = [...]struct {
	eb  ebiten.MouseButton
	btn PointerButton
}{
	{ebiten.MouseButtonLeft, PointerPrimary},
	{ebiten.MouseButtonRight, PointerSecondary},
	{ebiten.MouseButtonMiddle, PointerMiddle},
}

// poll converts ebiten's polled mouse state into events. Cursor positions
// are reported in layout (physical) pixels and divided by dsf.
func (p *hostPointer) poll(dsf float64, width, height int) {
	if dsf <= 0 {
		dsf = 1
	}
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/dsf, float64(cy)/dsf
	inside := x >= 0 && y >= 0 && x < float64(width) && y < float64(height)
	mod := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	switch {
	case inside && (!p.inside || x != p.x || y != p.y):
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y, Modifier: mod})
	case !inside && p.inside:
		p.emit(PointerEvent{Kind: PointerLeave, X: x, Y: y})
	}
	p.x, p.y, p.inside = x, y, inside

	for _, b := range pointerButtons {
		if inside && inpututil.IsMouseButtonJustPressed(b.eb) {
			p.emit(PointerEvent{Kind: PointerDown, X: x, Y: y, Button: b.btn, Modifier: mod})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			p.emit(PointerEvent{Kind: PointerUp, X: x, Y: y, Button: b.btn, Modifier: mod})
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 && inside {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, WheelY: -wy, Modifier: mod})
	}
}
