//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig configures the desktop and headless HALs.
type HostConfig struct {
	// Width and Height are the initial logical surface size.
	Width  int
	Height int
	// DeviceScaleFactor overrides the monitor's scale factor when > 0.
	DeviceScaleFactor float64
	// Format is the framebuffer pixel format. Zero means RGBA8888.
	Format PixelFormat
	Title  string
	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer
}

func (c *HostConfig) setDefaults() {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Format == 0 {
		c.Format = PixelFormatRGBA8888
	}
	if c.Title == "" {
		c.Title = "grafcalc"
	}
	if c.LogOutput == nil {
		c.LogOutput = os.Stderr
	}
}

type hostHAL struct {
	cfg     HostConfig
	logger  *hostLogger
	display *hostDisplay
	kbd     *hostKeyboard
	ptr     *hostPointer
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	cfg.setDefaults()
	return &hostHAL{
		cfg:    cfg,
		logger: &hostLogger{w: cfg.LogOutput},
		display: &hostDisplay{
			fb:  newHostFramebuffer(0, 0, cfg.Format),
			dsf: 1,
		},
		kbd: newHostKeyboard(),
		ptr: newHostPointer(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return h.display }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }

type hostDisplay struct {
	mu     sync.Mutex
	fb     *hostFramebuffer
	width  int
	height int
	dsf    float64
	cursor Cursor
}

func (d *hostDisplay) Framebuffer() Framebuffer { return d.fb }

func (d *hostDisplay) LogicalSize() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *hostDisplay) DeviceScaleFactor() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dsf
}

func (d *hostDisplay) SetCursor(c Cursor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = c
}

func (d *hostDisplay) currentCursor() Cursor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func (d *hostDisplay) setLayout(width, height int, dsf float64) {
	if dsf <= 0 {
		dsf = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height, d.dsf = width, height, dsf
}

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
