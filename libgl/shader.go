package libgl

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderProgram is a separable program holding a single stage
type ShaderProgram interface {
	Id() uint32
	SetUniform(name string, value any)
	Delete()
}

type program struct {
	glId     uint32
	stage    uint32
	uniforms map[string]int32
}

var stageNames = map[uint32]string{
	gl.VERTEX_SHADER:   "vertex",
	gl.FRAGMENT_SHADER: "fragment",
	gl.COMPUTE_SHADER:  "compute",
}

// CompileProgram compiles and links source as a separable program of stage
func CompileProgram(stage uint32, source string) (ShaderProgram, error) {
	src, free := gl.Strs(source + "\x00")
	id := gl.CreateShaderProgramv(stage, 1, src)
	free()

	var linked int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &linked)
	if linked == gl.FALSE {
		infoLog := programInfoLog(id)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%v shader: %v", stageNames[stage], infoLog)
	}

	return &program{
		glId:     id,
		stage:    stage,
		uniforms: map[string]int32{},
	}, nil
}

func programInfoLog(id uint32) string {
	var length int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "no info log"
	}
	buf := make([]uint8, length)
	gl.GetProgramInfoLog(id, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (prog *program) Id() uint32 {
	return prog.glId
}

func (prog *program) location(name string) int32 {
	loc, ok := prog.uniforms[name]
	if !ok {
		loc = gl.GetProgramResourceLocation(prog.glId, gl.UNIFORM, gl.Str(name+"\x00"))
		prog.uniforms[name] = loc
		if loc == -1 {
			log.Printf("%v shader has no uniform %q\n", stageNames[prog.stage], name)
		}
	}
	return loc
}

func (prog *program) SetUniform(name string, value any) {
	loc := prog.location(name)
	if loc == -1 {
		return
	}
	switch v := value.(type) {
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.ProgramUniform1i(prog.glId, loc, i)
	case int:
		gl.ProgramUniform1i(prog.glId, loc, int32(v))
	case int32:
		gl.ProgramUniform1i(prog.glId, loc, v)
	case float32:
		gl.ProgramUniform1f(prog.glId, loc, v)
	case mgl32.Vec2:
		gl.ProgramUniform2fv(prog.glId, loc, 1, &v[0])
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog.glId, loc, 1, false, &v[0])
	default:
		log.Panicf("unsupported uniform type %T", value)
	}
}

func (prog *program) Delete() {
	gl.DeleteProgram(prog.glId)
	prog.glId = 0
}

type pipeline struct {
	glId       uint32
	vert, frag ShaderProgram
}

type UnboundShaderPipeline interface {
	VertexStage() ShaderProgram
	FragmentStage() ShaderProgram
	Bind()
	// Delete deletes the pipeline together with its programs
	Delete()
}

// NewPipelineFromSource compiles a vertex and a fragment program into a new pipeline.
// Nothing is leaked on error.
func NewPipelineFromSource(vertSrc, fragSrc string) (UnboundShaderPipeline, error) {
	vert, err := CompileProgram(gl.VERTEX_SHADER, vertSrc)
	if err != nil {
		return nil, err
	}
	frag, err := CompileProgram(gl.FRAGMENT_SHADER, fragSrc)
	if err != nil {
		vert.Delete()
		return nil, err
	}

	p := &pipeline{vert: vert, frag: frag}
	gl.CreateProgramPipelines(1, &p.glId)
	gl.UseProgramStages(p.glId, gl.VERTEX_SHADER_BIT, vert.Id())
	gl.UseProgramStages(p.glId, gl.FRAGMENT_SHADER_BIT, frag.Id())
	return p, nil
}

func (p *pipeline) VertexStage() ShaderProgram {
	return p.vert
}

func (p *pipeline) FragmentStage() ShaderProgram {
	return p.frag
}

func (p *pipeline) Bind() {
	GlState.BindProgramPipeline(p.glId)
}

func (p *pipeline) Delete() {
	p.vert.Delete()
	p.frag.Delete()
	GlState.forget(p.glId, &GlState.ProgramPipeline)
	gl.DeleteProgramPipelines(1, &p.glId)
	p.glId = 0
}
