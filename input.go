package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeyWatcher polls a fixed set of keys once per frame and reports presses
type KeyWatcher struct {
	keys []glfw.Key
	down map[glfw.Key]bool
	tap  map[glfw.Key]bool
}

func NewKeyWatcher(keys ...glfw.Key) *KeyWatcher {
	return &KeyWatcher{
		keys: keys,
		down: map[glfw.Key]bool{},
		tap:  map[glfw.Key]bool{},
	}
}

func (kw *KeyWatcher) Update(win *glfw.Window) {
	for _, key := range kw.keys {
		pressed := win.GetKey(key) != glfw.Release
		kw.tap[key] = pressed && !kw.down[key]
		kw.down[key] = pressed
	}
}

// Tapped reports whether key went down since the previous Update
func (kw *KeyWatcher) Tapped(key glfw.Key) bool {
	return kw.tap[key]
}
