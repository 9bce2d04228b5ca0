// Command plotpng renders equations to a PNG file without opening a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"grafcalc/internal/config"
	"grafcalc/internal/logutil"
	"grafcalc/plotter"
	"grafcalc/plotter/canvas"
	"grafcalc/plotter/canvas/ggcanvas"
	"grafcalc/plotter/canvas/raster"

	"github.com/gogpu/gg"
)

type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ", ") }
func (l *stringList) Set(s string) error { *l = append(*l, s); return nil }

type surface interface {
	canvas.Canvas
	EncodePNG(w io.Writer) error
}

type host struct {
	c    surface
	w, h float64
	dpr  float64
}

func (h *host) Canvas() (canvas.Canvas, error)  { return h.c, nil }
func (h *host) LogicalSize() (float64, float64) { return h.w, h.h }
func (h *host) DevicePixelRatio() float64       { return h.dpr }

func main() {
	var eqs stringList
	var (
		outPath    = flag.String("out", "plot.png", "Output PNG file.")
		configPath = flag.String("config", "", "Load equations and settings from a .yaml, .yml or .toml file.")
		renderer   = flag.String("renderer", config.RendererRaster, "raster|gg.")
		width      = flag.Int("width", 800, "Width in logical pixels.")
		height     = flag.Int("height", 600, "Height in logical pixels.")
		dpr        = flag.Float64("dpr", 1, "Device pixel ratio.")
		scale      = flag.Float64("scale", 0, "Pixels per unit (0 = default).")
		verbose    = flag.Bool("v", false, "Log to stderr.")
	)
	flag.Var(&eqs, "eq", "Equation in x (repeatable).")
	flag.Parse()

	flags := config.File{Renderer: *renderer, Width: *width, Height: *height, Scale: *scale}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	file := &config.File{}
	if *configPath != "" {
		var err error
		if file, err = config.Load(*configPath); err != nil {
			fatalf("%v", err)
		}
	}
	applyFlags(file, flags, set)
	for _, e := range eqs {
		file.Equations = append(file.Equations, config.Equation{Expression: e})
	}
	if len(file.Equations) == 0 {
		fatalf("usage: plotpng -eq 'sin(x)' [-eq ...] [-config plot.yaml] [-out plot.png] [-renderer raster|gg]")
	}
	if err := file.Validate(); err != nil {
		fatalf("%v", err)
	}

	log := logutil.Discard
	if *verbose {
		log = logutil.New(os.Stderr, slog.LevelDebug, logutil.IsTerminal(os.Stderr))
	}

	if err := render(file, *dpr, *outPath, log); err != nil {
		fatalf("plotpng: %v", err)
	}
}

// applyFlags overrides file with the flags named in set. Flags left at their
// defaults only fill fields the file does not set.
func applyFlags(file *config.File, flags config.File, set map[string]bool) {
	if set["renderer"] || file.Renderer == "" {
		file.Renderer = flags.Renderer
	}
	if set["width"] || file.Width == 0 {
		file.Width = flags.Width
	}
	if set["height"] || file.Height == 0 {
		file.Height = flags.Height
	}
	if set["scale"] || file.Scale == 0 {
		file.Scale = flags.Scale
	}
}

func render(file *config.File, dpr float64, outPath string, log *slog.Logger) error {
	var c surface
	switch file.Renderer {
	case config.RendererGG:
		gg.SetLogger(log)
		var opts []ggcanvas.Option
		if file.Background != "" {
			col, _ := config.ParseColor(file.Background)
			opts = append(opts, ggcanvas.WithBackground(col))
		}
		gc, err := ggcanvas.New(nil, opts...)
		if err != nil {
			return err
		}
		defer gc.Close()
		c = gc
	default:
		var opts []raster.Option
		if file.Background != "" {
			col, _ := config.ParseColor(file.Background)
			opts = append(opts, raster.WithBackground(col))
		}
		c = raster.New(nil, opts...)
	}

	list := plotter.NewEquationList(nil, nil)
	pOpts := []plotter.Option{plotter.WithLogger(log)}
	if file.Scale > 0 {
		pOpts = append(pOpts, plotter.WithInitialScale(file.Scale))
	}
	p := plotter.New(list, pOpts...)
	list.SetHooks(p.ValidateEquation, nil)
	for _, e := range file.Equations {
		i := list.Add()
		if e.Color != "" {
			col, _ := config.ParseColor(e.Color)
			_ = list.SetColor(i, col)
		}
		if err := list.Update(i, e.Expression); err != nil {
			fmt.Fprintf(os.Stderr, "plotpng: %q: %s\n", e.Expression, list.Equations()[i].Error.Message())
		}
		if !e.IsVisible() {
			_ = list.ToggleVisible(i)
		}
	}

	h := &host{c: c, w: float64(file.Width), h: float64(file.Height), dpr: dpr}
	if err := p.Initialize(h); err != nil {
		return err
	}
	defer p.Teardown()
	if p.State().Frames == 0 {
		return errors.New("nothing was drawn")
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := c.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
