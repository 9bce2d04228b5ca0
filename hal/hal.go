package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrStop is returned by an app step to end the host loop cleanly.
var ErrStop = errors.New("stop")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb, little endian.
	PixelFormatRGB565 PixelFormat = iota + 1
	// PixelFormatRGBA8888 is 32bpp: r, g, b, a bytes, straight alpha.
	PixelFormatRGBA8888
)

// BytesPerPixel returns the pixel size of f, or 0 for an unknown format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGB565:
		return 2
	case PixelFormatRGBA8888:
		return 4
	default:
		return 0
	}
}

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	// Resize reallocates the buffer. Contents are discarded.
	Resize(width, height int) error
	Present() error
}

// Cursor is the pointer shape requested by the app.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorCrosshair
)

// Display provides access to the framebuffer and the surface layout.
type Display interface {
	Framebuffer() Framebuffer
	// LogicalSize is the surface size in device-independent pixels. It is
	// zero until the host has laid out its window.
	LogicalSize() (width, height int)
	DeviceScaleFactor() float64
	SetCursor(c Cursor)
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerButton identifies a pointer button.
type PointerButton uint8

const (
	PointerPrimary PointerButton = iota
	PointerSecondary
	PointerMiddle
)

// PointerKind is the type of a pointer event.
type PointerKind uint8

const (
	PointerMove PointerKind = iota + 1
	PointerDown
	PointerUp
	PointerLeave
	PointerWheel
)

// PointerEvent is a pointer event. X and Y are device-independent pixels
// from the top-left corner of the surface. WheelY follows the DOM deltaY
// sign: negative scrolls up. Modifier reports the zoom modifier (Ctrl or
// Cmd) at the time of the event.
type PointerEvent struct {
	Kind     PointerKind
	X, Y     float64
	Button   PointerButton
	WheelY   float64
	Modifier bool
}

// Pointer provides mouse or touch events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
