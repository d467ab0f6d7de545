package libutil

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"unsafe"

	"gl-blur/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type ContextOptions struct {
	Width, Height int
	Title         string
	Visible       bool
	Resizable     bool
	VSync         bool
	Debug         bool
}

// CreateContext opens a window with a 4.5 core context and makes it current.
// It locks the calling goroutine to its thread, all gl calls must be made from it.
// The global libgl state is (re-)initialized for the new context.
func CreateContext(opts ContextOptions) (*glfw.Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfwBool(opts.Debug))
	glfw.WindowHint(glfw.Visible, glfwBool(opts.Visible))
	glfw.WindowHint(glfw.Resizable, glfwBool(opts.Resizable))

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			if !isExtensionProc(name) {
				log.Printf("Proc missing: %v\n", name)
			}
			return unsafe.Pointer(InvalidAddress)
		}
		return addr
	})
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	libgl.GlState = libgl.NewState()
	libgl.GlEnv = libgl.QueryEnv()
	if opts.Debug {
		libgl.EnableDebugOutput()
	}

	return win, nil
}

// DestroyContext releases shared objects and terminates glfw
func DestroyContext(win *glfw.Window) {
	ReleaseQuad()
	win.Destroy()
	glfw.Terminate()
}

func isExtensionProc(name string) bool {
	for _, suffix := range []string{"NV", "ARB", "EXT", "AMD", "MESA", "KHR", "INTEL"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
