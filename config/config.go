package config

import (
	"bytes"
	"fmt"
	"os"

	"gl-blur/blur"

	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Width  int  `toml:"width"`
	Height int  `toml:"height"`
	VSync  bool `toml:"vsync"`
	Debug  bool `toml:"debug"`
}

// Config holds the startup settings, every field is optional in the file
type Config struct {
	Window Window      `toml:"window"`
	Blur   blur.Params `toml:"blur"`
	// Directory that captures are written to
	CaptureDir string `toml:"capture_dir"`
}

func Default() *Config {
	return &Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Blur:       blur.DefaultParams(),
		CaptureDir: ".",
	}
}

// Load reads a toml file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	return cfg.Blur.Validate()
}

// Encode writes the config as toml
func (cfg *Config) Encode() ([]byte, error) {
	return toml.Marshal(cfg)
}
