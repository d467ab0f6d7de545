package compute

import (
	_ "embed"
	"fmt"
	"log"
	"unsafe"

	"gl-blur/blur"
	"gl-blur/libio"

	"github.com/Qendolin/go-opencl/cl"
	"golang.org/x/exp/slices"
)

//go:embed blur.cl
var openclBlurSrc string

type DeviceType = cl.DeviceType

const (
	DeviceTypeCPU         = DeviceType(cl.DeviceTypeCPU)
	DeviceTypeGPU         = DeviceType(cl.DeviceTypeGPU)
	DeviceTypeAccelerator = DeviceType(cl.DeviceTypeAccelerator)
)

var localWorkSize = []int{8, 8}

// clCore owns the context, queue and compiled program of a single device
type clCore struct {
	device  *cl.Device
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
}

func allDevices() []*cl.Device {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil
	}
	var devices []*cl.Device
	for _, p := range platforms {
		if devs, err := p.GetDevices(cl.DeviceTypeAll); err == nil {
			devices = append(devices, devs...)
		}
	}
	return devices
}

// pickDevice prefers the given type, ties go to the device with more compute units times clock
func pickDevice(preferred DeviceType) (*cl.Device, error) {
	devices := allDevices()
	if len(devices) == 0 {
		return nil, fmt.Errorf("no opencl devices found")
	}
	rank := func(d *cl.Device) (bool, int) {
		return d.Type() == preferred, d.MaxComputeUnits() * d.MaxClockFrequency()
	}
	slices.SortFunc(devices, func(a, b *cl.Device) int {
		aPreferred, aPower := rank(a)
		bPreferred, bPower := rank(b)
		if aPreferred != bPreferred {
			if aPreferred {
				return -1
			}
			return 1
		}
		return bPower - aPower
	})
	return devices[0], nil
}

func newClCore(preferred DeviceType, sources ...string) (*clCore, error) {
	device, err := pickDevice(preferred)
	if err != nil {
		return nil, err
	}
	log.Printf("OpenCL device: %v (%v)\n", device.Name(), device.Type())

	core := &clCore{device: device}
	if core.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	if core.queue, err = core.context.CreateCommandQueue(device, 0); err != nil {
		core.release()
		return nil, fmt.Errorf("create queue: %w", err)
	}
	if core.program, err = core.context.CreateProgramWithSource(sources); err != nil {
		core.release()
		return nil, fmt.Errorf("create program: %w", err)
	}
	if err = core.program.BuildProgram(nil, ""); err != nil {
		core.release()
		return nil, fmt.Errorf("build program: %w", err)
	}
	return core, nil
}

// release tolerates a partially initialized core
func (core *clCore) release() {
	if core.program != nil {
		core.program.Release()
	}
	if core.queue != nil {
		core.queue.Release()
	}
	if core.context != nil {
		core.context.Release()
	}
}

// ClStages implements the blur stages as OpenCL kernels on float images.
// Errors raised while rendering are kept and reported by Err and Snapshot.
type ClStages struct {
	clCore
	sceneKernel   *cl.Kernel
	copyKernel    *cl.Kernel
	blurKernel    *cl.Kernel
	width, height int
	scene         *cl.MemObject
	blur          *blur.PingPong[*cl.MemObject]
	blurW, blurH  int
	output        *cl.MemObject
	err           error
}

var _ blur.Stages = (*ClStages)(nil)

func NewClStages(preferredDevice DeviceType) (*ClStages, error) {
	core, err := newClCore(preferredDevice, openclBlurSrc)
	if err != nil {
		return nil, err
	}

	stages := &ClStages{clCore: *core}
	kernels := []struct {
		name   string
		kernel **cl.Kernel
	}{
		{"render_scene", &stages.sceneKernel},
		{"copy_linear", &stages.copyKernel},
		{"blur_pass", &stages.blurKernel},
	}
	for _, k := range kernels {
		*k.kernel, err = core.program.CreateKernel(k.name)
		if err != nil {
			stages.Release()
			return nil, fmt.Errorf("create kernel %v: %w", k.name, err)
		}
	}
	return stages, nil
}

func (stages *ClStages) createImage(width, height int) (*cl.MemObject, error) {
	return stages.context.CreateImage(cl.MemReadWrite, cl.ImageFormat{
		ChannelOrder:    cl.ChannelOrderRGBA,
		ChannelDataType: cl.ChannelDataTypeFloat,
	}, cl.ImageDescription{
		Type:   cl.MemObjectTypeImage2D,
		Width:  width,
		Height: height,
	}, width*height*4*4, nil)
}

func (stages *ClStages) Resize(width, height, reductionRate int) (err error) {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if reductionRate < blur.MinReductionRate || reductionRate > blur.MaxReductionRate {
		return fmt.Errorf("invalid reduction rate %d", reductionRate)
	}
	stages.releaseImages()
	stages.err = nil

	images := make([]*cl.MemObject, 0, 4)
	defer func() {
		if err != nil {
			for _, img := range images {
				img.Release()
			}
		}
	}()

	bw, bh := blur.TargetSize(width, height, reductionRate)
	sizes := [][2]int{{width, height}, {bw, bh}, {bw, bh}, {width, height}}
	for _, size := range sizes {
		img, err := stages.createImage(size[0], size[1])
		if err != nil {
			return fmt.Errorf("create %dx%d image: %w", size[0], size[1], err)
		}
		images = append(images, img)
	}

	stages.width, stages.height = width, height
	stages.blurW, stages.blurH = bw, bh
	stages.scene = images[0]
	stages.blur = blur.NewPingPong(images[1], images[2])
	stages.output = images[3]
	return nil
}

func (stages *ClStages) run(kernel *cl.Kernel, width, height int, args ...any) {
	if stages.err != nil {
		return
	}
	for i, arg := range args {
		var err error
		switch v := arg.(type) {
		case *cl.MemObject:
			err = kernel.SetArgBuffer(i, v)
		case int32:
			err = kernel.SetArgInt32(i, v)
		case int:
			err = kernel.SetArgInt32(i, int32(v))
		default:
			err = fmt.Errorf("unsupported argument type %T", arg)
		}
		if err != nil {
			stages.err = fmt.Errorf("set argument %d: %w", i, err)
			return
		}
	}

	globalWorkSize := []int{roundUpKernelSize(localWorkSize[0], width), roundUpKernelSize(localWorkSize[1], height)}
	_, err := stages.queue.EnqueueNDRangeKernel(kernel, []int{0, 0}, globalWorkSize, localWorkSize, nil)
	if err != nil {
		stages.err = fmt.Errorf("enqueue kernel: %w", err)
	}
}

func (stages *ClStages) RenderDirect() {
	stages.run(stages.sceneKernel, stages.width, stages.height, stages.output, stages.width, stages.height)
}

func (stages *ClStages) RenderScene() {
	stages.run(stages.sceneKernel, stages.width, stages.height, stages.scene, stages.width, stages.height)
}

func (stages *ClStages) Downsample() {
	stages.run(stages.copyKernel, stages.blurW, stages.blurH, stages.scene, stages.blur.Write(), stages.blurW, stages.blurH)
	stages.blur.Swap()
}

func (stages *ClStages) BlurPass(dir blur.Direction, sampleStep int) {
	horizontal := 0
	if dir == blur.Horizontal {
		horizontal = 1
	}
	stages.run(stages.blurKernel, stages.blurW, stages.blurH, stages.blur.Read(), stages.blur.Write(), stages.blurW, stages.blurH, horizontal, sampleStep)
	stages.blur.Swap()
}

func (stages *ClStages) Composite() {
	stages.run(stages.copyKernel, stages.width, stages.height, stages.blur.Read(), stages.output, stages.width, stages.height)
}

// Err returns the first error since the last Resize
func (stages *ClStages) Err() error {
	return stages.err
}

// Snapshot waits for all queued work and reads back the output
func (stages *ClStages) Snapshot() (*libio.FloatImage, error) {
	if stages.err != nil {
		return nil, stages.err
	}
	if stages.output == nil {
		return nil, fmt.Errorf("opencl stages are not allocated")
	}

	img := libio.NewFloatImage(nil, 4, stages.width, stages.height)
	_, err := stages.queue.EnqueueReadImage(stages.output, true, [3]int{}, [3]int{stages.width, stages.height, 1}, 0, 0, unsafe.Pointer(&img.Pix[0]), nil)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (stages *ClStages) releaseImages() {
	if stages.scene != nil {
		stages.scene.Release()
		stages.scene = nil
	}
	if stages.blur != nil {
		for _, img := range stages.blur.Both() {
			img.Release()
		}
		stages.blur = nil
	}
	if stages.output != nil {
		stages.output.Release()
		stages.output = nil
	}
}

func (stages *ClStages) Release() {
	stages.releaseImages()
	for _, k := range []*cl.Kernel{stages.sceneKernel, stages.copyKernel, stages.blurKernel} {
		if k != nil {
			k.Release()
		}
	}
	stages.release()
}

// roundUpKernelSize returns the smallest multiple of groupSize covering globalSize
func roundUpKernelSize(groupSize, globalSize int) int {
	return (globalSize + groupSize - 1) / groupSize * groupSize
}
