package main

import (
	"unsafe"

	"gl-blur/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
)

var imguiKeys = map[int]glfw.Key{
	imgui.KeyTab:        glfw.KeyTab,
	imgui.KeyLeftArrow:  glfw.KeyLeft,
	imgui.KeyRightArrow: glfw.KeyRight,
	imgui.KeyUpArrow:    glfw.KeyUp,
	imgui.KeyDownArrow:  glfw.KeyDown,
	imgui.KeyHome:       glfw.KeyHome,
	imgui.KeyEnd:        glfw.KeyEnd,
	imgui.KeyDelete:     glfw.KeyDelete,
	imgui.KeyBackspace:  glfw.KeyBackspace,
	imgui.KeySpace:      glfw.KeySpace,
	imgui.KeyEnter:      glfw.KeyEnter,
	imgui.KeyEscape:     glfw.KeyEscape,
}

var imguiIndexTypes = map[int]uint32{
	1: gl.UNSIGNED_BYTE,
	2: gl.UNSIGNED_SHORT,
	4: gl.UNSIGNED_INT,
}

// ImGui renders the dear imgui draw lists with the blur demo's gl wrappers
type ImGui struct {
	io       imgui.IO
	context  *imgui.Context
	win      *glfw.Window
	lastTime float64
	vao      libgl.UnboundVertexArray
	vbo      libgl.UnboundBuffer
	ebo      libgl.UnboundBuffer
	atlas    libgl.UnboundTexture
	shader   libgl.UnboundShaderPipeline
}

func NewImGui(win *glfw.Window, shader libgl.UnboundShaderPipeline) *ImGui {
	gui := &ImGui{
		context:  imgui.CreateContext(nil),
		io:       imgui.CurrentIO(),
		win:      win,
		lastTime: glfw.GetTime(),
		shader:   shader,
	}
	imgui.StyleColorsDark()
	for imguiKey, key := range imguiKeys {
		gui.io.KeyMap(imguiKey, int(key))
	}

	_, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	gui.vao = libgl.NewVertexArray()
	gui.vao.Attribute(0, 0, 2, gl.FLOAT, false, posOffset)
	gui.vao.Attribute(1, 0, 2, gl.FLOAT, false, uvOffset)
	gui.vao.Attribute(2, 0, 4, gl.UNSIGNED_BYTE, true, colOffset)

	font := gui.io.Fonts().TextureDataRGBA32()
	gui.atlas = libgl.NewTexture2D(gl.RGBA8, font.Width, font.Height)
	gui.atlas.Upload(gl.RGBA, unsafe.Slice((*uint8)(font.Pixels), font.Width*font.Height*4))
	gui.atlas.SetFilter(gl.LINEAR, gl.LINEAR)
	gui.atlas.SetDebugLabel("imgui font atlas")
	gui.io.Fonts().SetTextureID(imgui.TextureID(gui.atlas.Id()))

	gui.installCallbacks()
	return gui
}

func (gui *ImGui) installCallbacks() {
	io := gui.io
	gui.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	})
	gui.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		io.SetMouseButtonDown(int(button), action == glfw.Press)
	})
	gui.win.SetScrollCallback(func(_ *glfw.Window, x, y float64) {
		io.AddMouseWheelDelta(float32(x), float32(y))
	})
	gui.win.SetCharCallback(func(_ *glfw.Window, char rune) {
		io.AddInputCharacters(string(char))
	})
	gui.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch {
		case key == glfw.KeyUnknown:
			return
		case action == glfw.Press:
			io.KeyPress(int(key))
		case action == glfw.Release:
			io.KeyRelease(int(key))
		}
		io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})
}

// WantsKeyboard reports whether a widget has keyboard focus
func (gui *ImGui) WantsKeyboard() bool {
	return gui.io.WantCaptureKeyboard()
}

func (gui *ImGui) NewFrame() {
	w, h := gui.win.GetSize()
	gui.io.SetDisplaySize(imgui.Vec2{X: float32(w), Y: float32(h)})

	now := glfw.GetTime()
	gui.io.SetDeltaTime(float32(max(now-gui.lastTime, 1e-4)))
	gui.lastTime = now

	imgui.NewFrame()
}

// reserve replaces buf with a larger one when it can not hold size bytes
func reserve(buf libgl.UnboundBuffer, size int) libgl.UnboundBuffer {
	if buf != nil {
		if buf.Size() >= size {
			return buf
		}
		buf.Delete()
	}
	return libgl.NewDynamicBuffer(size)
}

func (gui *ImGui) Draw() {
	libgl.PushDebugGroup("Draw ImGui")
	defer libgl.PopDebugGroup()

	imgui.Render()

	winW, winH := gui.win.GetSize()
	fbW, fbH := gui.win.GetFramebufferSize()
	if fbW <= 0 || fbH <= 0 {
		return
	}

	libgl.GlState.BindDrawFramebuffer(libgl.DefaultFramebuffer)
	libgl.GlState.Viewport(0, 0, fbW, fbH)
	libgl.GlState.SetEnabled(libgl.Blend, libgl.ScissorTest)
	libgl.GlState.SetBlendEquation(libgl.BlendFuncAdd)
	libgl.GlState.SetBlendFunc(libgl.BlendSrcAlpha, libgl.BlendOneMinusSrcAlpha)
	libgl.GlState.BindSampler(0, 0)
	defer libgl.GlState.SetEnabled()

	gui.shader.Bind()
	gui.shader.VertexStage().SetUniform("u_proj_mat", mgl32.Ortho2D(0, float32(winW), float32(winH), 0))
	gui.vao.Bind()

	drawData := imgui.RenderedDrawData()
	drawData.ScaleClipRects(imgui.Vec2{X: float32(fbW) / float32(winW), Y: float32(fbH) / float32(winH)})

	vertexSize, _, _, _ := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()
	indexType := imguiIndexTypes[indexSize]

	for _, list := range drawData.CommandLists() {
		vertices, verticesSize := list.VertexBuffer()
		indices, indicesSize := list.IndexBuffer()
		if verticesSize == 0 || indicesSize == 0 {
			continue
		}

		gui.vbo = reserve(gui.vbo, verticesSize)
		gui.ebo = reserve(gui.ebo, indicesSize)
		gl.NamedBufferSubData(gui.vbo.Id(), 0, verticesSize, vertices)
		gl.NamedBufferSubData(gui.ebo.Id(), 0, indicesSize, indices)
		gui.vao.SetVertexBuffer(0, gui.vbo, vertexSize)
		gui.vao.SetElementBuffer(gui.ebo)

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			clip := cmd.ClipRect()
			libgl.GlState.BindTextureUnit(0, uint32(cmd.TextureID()))
			libgl.GlState.Scissor(int(clip.X), max(fbH-int(clip.W), 0), int(clip.Z-clip.X), int(clip.W-clip.Y))
			gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(cmd.ElementCount()), indexType,
				uintptr(cmd.IndexOffset()*indexSize), int32(cmd.VertexOffset()))
		}
	}
}

func (gui *ImGui) Release() {
	for _, buf := range []libgl.UnboundBuffer{gui.vbo, gui.ebo} {
		if buf != nil {
			buf.Delete()
		}
	}
	gui.vao.Delete()
	gui.atlas.Delete()
	gui.shader.Delete()
	gui.context.Destroy()
}
