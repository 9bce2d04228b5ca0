//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"grafcalc/app"
	"grafcalc/hal"
	"grafcalc/internal/buildinfo"
	"grafcalc/internal/config"
	"grafcalc/internal/logutil"
)

type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ", ") }
func (l *stringList) Set(s string) error { *l = append(*l, s); return nil }

func main() {
	var (
		cfg        hal.HeadlessConfig
		configPath string
		eqs        stringList
		renderer   string
		scale      float64
		bg         string
		pngPath    string
		logLevel   string
		version    bool
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&configPath, "config", "", "Load settings from a .yaml, .yml or .toml file.")
	flag.Var(&eqs, "eq", "Plot an equation in x (repeatable).")
	flag.StringVar(&renderer, "renderer", config.RendererRaster, "Drawing backend: raster or gg.")
	flag.IntVar(&cfg.Host.Width, "width", 800, "Surface width in logical pixels.")
	flag.IntVar(&cfg.Host.Height, "height", 600, "Surface height in logical pixels.")
	flag.Float64Var(&scale, "scale", 0, "Initial scale in pixels per unit (0 = default).")
	flag.Float64Var(&cfg.Host.DeviceScaleFactor, "dpr", 0, "Override the device pixel ratio (0 = monitor).")
	flag.StringVar(&bg, "bg", "", "Background color as #rrggbb.")
	flag.StringVar(&pngPath, "png", "", "Write the first frame to this PNG file and exit.")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error.")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Short())
		return
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	file := &config.File{}
	if configPath != "" {
		var err error
		if file, err = config.Load(configPath); err != nil {
			fatal(err)
		}
	}
	if !set["renderer"] && file.Renderer != "" {
		renderer = file.Renderer
	}
	if !set["width"] && file.Width > 0 {
		cfg.Host.Width = file.Width
	}
	if !set["height"] && file.Height > 0 {
		cfg.Host.Height = file.Height
	}
	if !set["scale"] && file.Scale > 0 {
		scale = file.Scale
	}
	if !set["bg"] {
		bg = file.Background
	}
	if !set["log-level"] {
		logLevel = file.LogLevel
	}

	appCfg := app.Config{Renderer: renderer, Scale: scale, PNGPath: pngPath}
	if err := (&config.File{Renderer: renderer}).Validate(); err != nil {
		fatal(err)
	}
	if bg != "" {
		c, err := config.ParseColor(bg)
		if err != nil {
			fatal(err)
		}
		appCfg.Background = c
	}
	level, err := logutil.ParseLevel(logLevel)
	if err != nil {
		fatal(err)
	}
	for _, eq := range file.Equations {
		ec := app.EquationConfig{Expression: eq.Expression, Visible: eq.IsVisible()}
		if eq.Color != "" {
			ec.Color, _ = config.ParseColor(eq.Color)
		}
		appCfg.Equations = append(appCfg.Equations, ec)
	}
	for _, eq := range eqs {
		appCfg.Equations = append(appCfg.Equations, app.EquationConfig{Expression: eq, Visible: true})
	}

	var finish func() error
	newApp := func(h hal.HAL) func() error {
		c := appCfg
		c.Logger = logutil.ForSink(h.Logger(), level)
		c.Logger.Debug("starting", "version", buildinfo.Short(), "renderer", c.Renderer)
		var step func() error
		step, finish = app.NewRun(h, c)
		return step
	}

	if cfg.Enabled || pngPath != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, newApp, cfg)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err == nil && finish != nil {
			err = finish()
		}
		if err != nil {
			fatal(err)
		}
		return
	}

	err = hal.RunWindow(newApp, cfg.Host)
	if err == nil && finish != nil {
		err = finish()
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
