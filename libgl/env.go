package libgl

import (
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

const (
	VendorIntel   = "intel"
	VendorNvidia  = "nvidia"
	VendorAmd     = "amd"
	VendorUnknown = "unknown"
)

// matched against the lower case GL_VENDOR string, first match wins
var vendorKeywords = [][2]string{
	{"intel", VendorIntel},
	{"nvidia", VendorNvidia},
	{"amd", VendorAmd},
	{"ati ", VendorAmd},
}

type Env struct {
	Vendor   string
	Renderer string
	Version  string
	// Bind textures through the active texture unit instead of glBindTextureUnit
	UseIntelTextureBindingFix bool
}

var GlEnv *Env

// QueryEnv reads the driver strings of the current context
func QueryEnv() *Env {
	env := &Env{
		Vendor:   VendorUnknown,
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	vendor := strings.ToLower(gl.GoStr(gl.GetString(gl.VENDOR)))
	for _, kw := range vendorKeywords {
		if strings.Contains(vendor, kw[0]) {
			env.Vendor = kw[1]
			break
		}
	}
	env.UseIntelTextureBindingFix = env.Vendor == VendorIntel
	return env
}

func (env *Env) String() string {
	return env.Vendor + ", " + env.Renderer + ", " + env.Version
}
