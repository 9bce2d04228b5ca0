//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	format PixelFormat
	width  int
	height int
	stride int
	buf    []byte
	// front is the last presented frame; the window reads it while the app
	// draws the next one into buf.
	front []byte
	gen   uint64
}

// NewFramebuffer returns an in-memory framebuffer. Present snapshots the
// buffer so a reader never observes a half-drawn frame.
func NewFramebuffer(width, height int, format PixelFormat) (Framebuffer, error) {
	fb := &hostFramebuffer{format: format}
	if format.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("framebuffer: unknown pixel format %d", format)
	}
	if err := fb.Resize(width, height); err != nil {
		return nil, err
	}
	return fb, nil
}

func newHostFramebuffer(width, height int, format PixelFormat) *hostFramebuffer {
	fb := &hostFramebuffer{format: format}
	_ = fb.Resize(width, height)
	return fb
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return f.format }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("framebuffer: invalid size %dx%d", width, height)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if width == f.width && height == f.height && f.buf != nil {
		return nil
	}
	f.width = width
	f.height = height
	f.stride = width * f.format.BytesPerPixel()
	f.buf = make([]byte, f.stride*height)
	f.front = make([]byte, len(f.buf))
	return nil
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, f.buf)
	f.gen++
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.format {
	case PixelFormatRGB565:
		pixel := RGB565(r, g, b)
		lo := byte(pixel)
		hi := byte(pixel >> 8)
		for i := 0; i+1 < len(f.buf); i += 2 {
			f.buf[i] = lo
			f.buf[i+1] = hi
		}
	case PixelFormatRGBA8888:
		for i := 0; i+3 < len(f.buf); i += 4 {
			f.buf[i] = r
			f.buf[i+1] = g
			f.buf[i+2] = b
			f.buf[i+3] = 0xFF
		}
	}
}

// snapshotRGBA copies the presented frame into dst as opaque RGBA and
// returns its generation and size. dst is reused when large enough.
func (f *hostFramebuffer) snapshotRGBA(dst []byte, since uint64) (out []byte, gen uint64, w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen == since {
		return dst, f.gen, f.width, f.height
	}
	n := f.width * f.height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	switch f.format {
	case PixelFormatRGBA8888:
		copy(dst, f.front)
		for i := 3; i < n; i += 4 {
			dst[i] = 0xFF
		}
	case PixelFormatRGB565:
		for i, j := 0, 0; i+1 < len(f.front); i, j = i+2, j+4 {
			r, g, b := rgb888From565(uint16(f.front[i]) | uint16(f.front[i+1])<<8)
			dst[j+0] = r
			dst[j+1] = g
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
	}
	return dst, f.gen, f.width, f.height
}
