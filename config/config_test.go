package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"gl-blur/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartial(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[blur]
reduction_rate = 4
sample_step = 2
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Blur.ReductionRate)
	assert.Equal(t, 2, cfg.Blur.SampleStep)
	// untouched values keep their defaults
	assert.True(t, cfg.Blur.Apply)
	assert.Equal(t, 1, cfg.Blur.BlurCount)
	assert.Equal(t, config.Default().Window, cfg.Window)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"range":   "[blur]\nblur_count = 17\n",
		"window":  "[window]\nwidth = 0\n",
		"unknown": "[blur]\nradius = 3\n",
		"syntax":  "[blur\n",
	}
	for name, src := range cases {
		_, err := config.Parse([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestEncodeParse(t *testing.T) {
	cfg := config.Default()
	cfg.Blur.Apply = false
	cfg.Blur.BlurCount = 9
	cfg.Window.Width = 300

	data, err := cfg.Encode()
	require.NoError(t, err)
	parsed, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blur.toml")
	require.NoError(t, os.WriteFile(path, []byte("capture_dir = \"shots\"\n[window]\nvsync = false\n"), 0666))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shots", cfg.CaptureDir)
	assert.False(t, cfg.Window.VSync)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
