package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gl-blur/blur"
	"gl-blur/config"
	"gl-blur/effects"
	"gl-blur/libgl"
	"gl-blur/libutil"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/go-gl/glfw/v3.3/glfw"
)

//go:embed assets/shaders/imgui.vert
var Res_ImguiVshSrc string

//go:embed assets/shaders/imgui.frag
var Res_ImguiFshSrc string

var Arguments struct {
	Config      string
	PrintConfig bool
	Width       int
	Height      int
	VSync       bool
	Debug       bool
	Apply       bool
	Reduction   int
	BlurCount   int
	SampleStep  int
	CaptureDir  string
}

func main() {
	defaults := config.Default()
	flag.StringVar(&Arguments.Config, "config", "", "toml file with the startup settings")
	flag.BoolVar(&Arguments.PrintConfig, "print-config", false, "print the effective settings as toml and exit")
	flag.IntVar(&Arguments.Width, "width", defaults.Window.Width, "initial window width")
	flag.IntVar(&Arguments.Height, "height", defaults.Window.Height, "initial window height")
	flag.BoolVar(&Arguments.VSync, "vsync", defaults.Window.VSync, "wait for vertical sync")
	flag.BoolVar(&Arguments.Debug, "debug", defaults.Window.Debug, "create a debug context and log gl messages")
	flag.BoolVar(&Arguments.Apply, "apply", defaults.Blur.Apply, "apply the blur")
	flag.IntVar(&Arguments.Reduction, "reduction", defaults.Blur.ReductionRate, "reduction rate, 1-16")
	flag.IntVar(&Arguments.BlurCount, "blur", defaults.Blur.BlurCount, "number of blur rounds, 1-16")
	flag.IntVar(&Arguments.SampleStep, "step", defaults.Blur.SampleStep, "blur sample step, 1-4")
	flag.StringVar(&Arguments.CaptureDir, "capture-dir", defaults.CaptureDir, "directory for F12 captures")
	flag.Parse()

	cfg := loadConfig()
	if Arguments.PrintConfig {
		data, err := cfg.Encode()
		check(err)
		fmt.Print(string(data))
		return
	}

	win, err := libutil.CreateContext(libutil.ContextOptions{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     "Blur",
		Visible:   true,
		Resizable: true,
		VSync:     cfg.Window.VSync,
		Debug:     cfg.Window.Debug,
	})
	check(err)
	defer libutil.DestroyContext(win)
	log.Printf("GL: %v\n", libgl.GlEnv)

	effect, err := effects.NewBlurEffect(effects.BlurOptions{})
	check(err)
	scheduler := blur.NewFrameScheduler()
	controller, err := blur.NewController(effect, scheduler, cfg.Blur)
	check(err)
	defer controller.Release()

	imguiShader, err := libgl.NewPipelineFromSource(Res_ImguiVshSrc, Res_ImguiFshSrc)
	check(err)
	gui := NewImGui(win, imguiShader)
	defer gui.Release()
	panel := NewControlPanel(cfg.Blur)
	keys := NewKeyWatcher(glfw.KeyEscape, glfw.KeySpace, glfw.KeyF12)

	check(controller.Resize(win.GetFramebufferSize()))
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		check(controller.Resize(width, height))
	})

	for !win.ShouldClose() {
		glfw.PollEvents()
		keys.Update(win)

		captureRequested := false
		if !gui.WantsKeyboard() {
			if keys.Tapped(glfw.KeyEscape) {
				win.SetShouldClose(true)
			}
			if keys.Tapped(glfw.KeySpace) {
				controller.SetApply(!controller.Params().Apply)
			}
			captureRequested = keys.Tapped(glfw.KeyF12)
		}

		if scheduler.Tick() == 0 {
			// minimized, nothing to draw into
			glfw.WaitEventsTimeout(0.1)
			continue
		}

		if captureRequested {
			path, err := capture(effect, cfg.CaptureDir)
			if err != nil {
				log.Printf("Capture failed: %v\n", err)
				panel.SetStatus("capture failed")
			} else {
				log.Printf("Captured %v\n", path)
				panel.SetStatus("saved %v", filepath.Base(path))
			}
		}

		gui.NewFrame()
		// the panel clamps its values, an error here means the targets could not be reallocated
		check(panel.Draw(controller))
		gui.Draw()

		win.SwapBuffers()
	}
}

// loadConfig merges the defaults, the config file and explicitly set flags, in that order
func loadConfig() *config.Config {
	cfg := config.Default()
	if Arguments.Config != "" {
		var err error
		cfg, err = config.Load(Arguments.Config)
		check(err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = Arguments.Width
		case "height":
			cfg.Window.Height = Arguments.Height
		case "vsync":
			cfg.Window.VSync = Arguments.VSync
		case "debug":
			cfg.Window.Debug = Arguments.Debug
		case "apply":
			cfg.Blur.Apply = Arguments.Apply
		case "reduction":
			cfg.Blur.ReductionRate = Arguments.Reduction
		case "blur":
			cfg.Blur.BlurCount = Arguments.BlurCount
		case "step":
			cfg.Blur.SampleStep = Arguments.SampleStep
		case "capture-dir":
			cfg.CaptureDir = Arguments.CaptureDir
		}
	})
	check(cfg.Validate())
	return cfg
}

// capture must run after the frame was rendered and before the gui is drawn over it
func capture(snapshotter blur.Snapshotter, dir string) (string, error) {
	img, err := snapshotter.Snapshot()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("capture_%s.png", time.Now().Format("20060102_150405.000")))
	if err := imgio.Save(path, img.ToRGBA(), imgio.PNGEncoder()); err != nil {
		return "", err
	}
	return path, nil
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
