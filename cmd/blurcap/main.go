package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gl-blur/blur"
	"gl-blur/compute"
	"gl-blur/config"
	"gl-blur/effects"
	"gl-blur/libio"
	"gl-blur/libutil"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/exp/slices"
)

type impl string

const (
	implSw impl = "software"
	implGl impl = "opengl"
	implCl impl = "opencl"
)

var impls = []impl{implSw, implGl, implCl}

func (i *impl) String() string {
	return string(*i)
}

func (i *impl) Set(s string) error {
	if !slices.Contains(impls, impl(s)) {
		return fmt.Errorf("%s is not a valid implementation, use one of %v", s, impls)
	}
	*i = impl(s)
	return nil
}

var args = struct {
	impl        impl
	config      string
	width       int
	height      int
	apply       bool
	reduction   int
	blur        int
	step        int
	frames      int
	compression int
}{
	impl:        implSw,
	width:       640,
	height:      480,
	apply:       true,
	reduction:   1,
	blur:        1,
	step:        1,
	frames:      1,
	compression: 1,
}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [arguments] <out.png|out.f32>\n\n", exe)
	fmt.Fprintf(os.Stderr, "Renders the blurred scene once and saves the result.\n\n")
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	flag.CommandLine.SetOutput(os.Stderr)
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Var(&args.impl, "impl", fmt.Sprintf("implementation, one of %v", impls))
	flag.StringVar(&args.config, "config", args.config, "toml file, its [blur] and [window] sections are used")
	flag.IntVar(&args.width, "width", args.width, "canvas width")
	flag.IntVar(&args.height, "height", args.height, "canvas height")
	flag.BoolVar(&args.apply, "apply", args.apply, "apply the blur")
	flag.IntVar(&args.reduction, "reduction", args.reduction, "reduction rate, 1-16")
	flag.IntVar(&args.blur, "blur", args.blur, "number of blur rounds, 1-16")
	flag.IntVar(&args.step, "step", args.step, "blur sample step, 1-4")
	flag.IntVar(&args.frames, "frames", args.frames, "frames to render before saving, reports the average frame time")
	flag.IntVar(&args.compression, "compression", args.compression, "f32 output: 0=none, 1=fixed-point + lz4")
	flag.Usage = printGeneralUsage
	flag.Parse()

	if flag.NArg() != 1 || args.frames < 1 {
		printGeneralUsage()
	}
	out := flag.Arg(0)
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".png" && ext != ".f32" {
		harderr(fmt.Errorf("unsupported output format %q", ext))
	}

	width, height, params := settings()

	img, err := render(args.impl, width, height, params)
	harderr(err)

	harderr(save(img, out, ext))
}

// settings merges the config file with the flags that were set explicitly
func settings() (width, height int, params blur.Params) {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = args.width, args.height
	if args.config != "" {
		var err error
		cfg, err = config.Load(args.config)
		harderr(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = args.width
		case "height":
			cfg.Window.Height = args.height
		case "apply":
			cfg.Blur.Apply = args.apply
		case "reduction":
			cfg.Blur.ReductionRate = args.reduction
		case "blur":
			cfg.Blur.BlurCount = args.blur
		case "step":
			cfg.Blur.SampleStep = args.step
		}
	})
	harderr(cfg.Validate())
	return cfg.Window.Width, cfg.Window.Height, cfg.Blur
}

func render(i impl, width, height int, params blur.Params) (*libio.FloatImage, error) {
	switch i {
	case implSw:
		return renderWith(blur.NewSwStages(), width, height, params)
	case implCl:
		stages, err := compute.NewClStages(compute.DeviceTypeGPU)
		if err != nil {
			return nil, err
		}
		return renderWith(stages, width, height, params)
	case implGl:
		win, err := libutil.CreateContext(libutil.ContextOptions{Width: 16, Height: 16, Title: "blurcap"})
		if err != nil {
			return nil, err
		}
		defer libutil.DestroyContext(win)
		effect, err := effects.NewBlurEffect(effects.BlurOptions{Offscreen: true})
		if err != nil {
			return nil, err
		}
		return renderWith(effect, width, height, params)
	}
	return nil, fmt.Errorf("unknown implementation %v", i)
}

type snapshotStages interface {
	blur.Stages
	blur.Snapshotter
}

func renderWith(stages snapshotStages, width, height int, params blur.Params) (*libio.FloatImage, error) {
	scheduler := blur.NewFrameScheduler()
	controller, err := blur.NewController(stages, scheduler, params)
	if err != nil {
		stages.Release()
		return nil, err
	}
	defer controller.Release()

	if err := controller.Resize(width, height); err != nil {
		return nil, err
	}

	start := time.Now()
	for controller.Frames() < uint64(args.frames) {
		scheduler.Tick()
	}
	img, err := stages.Snapshot()
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	log.Printf("%v: %d frame(s) at %dx%d, %v per frame\n", args.impl, args.frames, width, height, elapsed/time.Duration(args.frames))
	return img, nil
}

func save(img *libio.FloatImage, out, ext string) error {
	if ext == ".png" {
		return imgio.Save(out, img.ToRGBA(), imgio.PNGEncoder())
	}

	file, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer file.Close()
	return libio.EncodeFloatImage(file, img, libio.FloatImageCompression(args.compression))
}

func harderr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
