package effects_test

import (
	"log"
	"os"
	"runtime"
	"testing"

	"gl-blur/libutil"
)

var onMain chan func()
var onMainDone chan struct{}

var glAvailable bool

func TestMain(m *testing.M) {
	runtime.LockOSThread()

	win, err := libutil.CreateContext(libutil.ContextOptions{
		Width:  64,
		Height: 64,
		Title:  "Testing Window",
		Debug:  true,
	})
	if err != nil {
		log.Printf("no gl context, skipping gl tests: %v\n", err)
		os.Exit(m.Run())
	}
	glAvailable = true

	onMain = make(chan func())
	onMainDone = make(chan struct{})

	go func() {
		code := m.Run()
		onMain <- func() {
			libutil.DestroyContext(win)
		}
		<-onMainDone
		os.Exit(code)
	}()

	for fn := range onMain {
		fn()
		onMainDone <- struct{}{}
	}
}

// runOnMain executes fn on the thread owning the context
func runOnMain(t *testing.T, fn func()) {
	t.Helper()
	if !glAvailable {
		t.Skip("no gl context")
	}
	onMain <- fn
	<-onMainDone
}
