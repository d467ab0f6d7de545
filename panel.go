package main

import (
	"fmt"

	"gl-blur/blur"

	"github.com/inkyblackness/imgui-go/v4"
)

// ControlPanel mirrors the blur parameters into the widgets, the sliders need int32 storage
type ControlPanel struct {
	apply     bool
	reduction int32
	count     int32
	step      int32
	status    string
}

func NewControlPanel(p blur.Params) *ControlPanel {
	panel := &ControlPanel{}
	panel.sync(p)
	return panel
}

func (panel *ControlPanel) sync(p blur.Params) {
	panel.apply = p.Apply
	panel.reduction = int32(p.ReductionRate)
	panel.count = int32(p.BlurCount)
	panel.step = int32(p.SampleStep)
}

// SetStatus shows a line below the statistics until replaced
func (panel *ControlPanel) SetStatus(format string, args ...any) {
	panel.status = fmt.Sprintf(format, args...)
}

// Draw shows the panel and applies any changes to the controller
func (panel *ControlPanel) Draw(controller *blur.Controller) error {
	panel.sync(controller.Params())

	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.BeginV("Blur", nil, imgui.WindowFlagsAlwaysAutoResize)
	defer imgui.End()

	changed := imgui.Checkbox("apply", &panel.apply)
	changed = imgui.SliderInt("reduction rate", &panel.reduction, blur.MinReductionRate, blur.MaxReductionRate) || changed
	changed = imgui.SliderInt("blur num", &panel.count, blur.MinBlurCount, blur.MaxBlurCount) || changed
	changed = imgui.SliderInt("sample step", &panel.step, blur.MinSampleStep, blur.MaxSampleStep) || changed

	imgui.Separator()
	imgui.Text(fmt.Sprintf("%.1f fps (%.2f ms)", imgui.CurrentIO().Framerate(), 1000/imgui.CurrentIO().Framerate()))
	w, h := controller.Size()
	bw, bh := controller.BlurSize()
	imgui.Text(fmt.Sprintf("canvas %dx%d, blur buffer %dx%d", w, h, bw, bh))
	imgui.Text(fmt.Sprintf("state: %v", controller.State()))
	if panel.status != "" {
		imgui.Text(panel.status)
	}

	if !changed {
		return nil
	}
	p := blur.Params{
		Apply:         panel.apply,
		ReductionRate: int(panel.reduction),
		BlurCount:     int(panel.count),
		SampleStep:    int(panel.step),
	}
	// ctrl+click lets imgui sliders accept typed values outside the range
	return controller.SetParams(p.Clamp())
}
