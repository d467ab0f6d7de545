package libgl

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type LabeledGlObject interface {
	SetDebugLabel(string)
}

func setObjectLabel(namespace, id uint32, label string) {
	if label == "" {
		return
	}
	gl.ObjectLabel(namespace, id, int32(len(label)), gl.Str(label+"\x00"))
}

var debugSeverityNames = map[uint32]string{
	gl.DEBUG_SEVERITY_HIGH:         "CRITICAL_ERROR",
	gl.DEBUG_SEVERITY_MEDIUM:       "ERROR",
	gl.DEBUG_SEVERITY_LOW:          "WARNING",
	gl.DEBUG_SEVERITY_NOTIFICATION: "INFO",
}

var debugTypeNames = map[uint32]string{
	gl.DEBUG_TYPE_ERROR:               "ERROR",
	gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR: "DEPRECATED_BEHAVIOR",
	gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:  "UNDEFINED_BEHAVIOR",
	gl.DEBUG_TYPE_PERFORMANCE:         "PERFORMANCE",
	gl.DEBUG_TYPE_PORTABILITY:         "PORTABILITY",
	gl.DEBUG_TYPE_MARKER:              "MARKER",
}

var debugSourceNames = map[uint32]string{
	gl.DEBUG_SOURCE_API:             "GRAPHICS_LIBRARY",
	gl.DEBUG_SOURCE_SHADER_COMPILER: "SHADER_COMPILER",
	gl.DEBUG_SOURCE_WINDOW_SYSTEM:   "WINDOW_SYSTEM",
	gl.DEBUG_SOURCE_THIRD_PARTY:     "THIRD_PARTY",
	gl.DEBUG_SOURCE_APPLICATION:     "APPLICATION",
}

func nameOr(names map[uint32]string, v uint32, fallback string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fallback
}

// nvidia buffer placement notices
var mutedDebugIds = []uint32{131185}

// EnableDebugOutput logs driver messages, high severity ones panic with the active debug groups.
func EnableDebugOutput() {
	GlState.Enable(DebugOutput)
	GlState.Enable(DebugOutputSync)

	groups := []string{"top"}
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		switch gltype {
		case gl.DEBUG_TYPE_PUSH_GROUP:
			groups = append(groups, message)
			return
		case gl.DEBUG_TYPE_POP_GROUP:
			if len(groups) > 1 {
				groups = groups[:len(groups)-1]
			}
			return
		}

		msg := fmt.Sprintf("[%v] %v #%v from %v: %v",
			nameOr(debugSeverityNames, severity, "UNKNOWN"),
			nameOr(debugTypeNames, gltype, "OTHER"),
			id,
			nameOr(debugSourceNames, source, "OTHER"),
			message)
		if severity == gl.DEBUG_SEVERITY_HIGH {
			log.Panicf("%v\nin: %v", msg, strings.Join(groups, " > "))
		}
		log.Println(msg)
	}, nil)
	gl.DebugMessageControl(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_OTHER, gl.DONT_CARE, int32(len(mutedDebugIds)), &mutedDebugIds[0], false)
}

// PushDebugGroup must be matched with a PopDebugGroup
func PushDebugGroup(name string) {
	gl.PushDebugGroup(gl.DEBUG_SOURCE_APPLICATION, 0, -1, gl.Str(name+"\x00"))
}

func PopDebugGroup() {
	gl.PopDebugGroup()
}
