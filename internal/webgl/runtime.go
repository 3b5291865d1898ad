package webgl

import (
	_ "embed"
	"strings"
)

// RuntimeVersion is bumped whenever the prelude contract changes.
const RuntimeVersion = 1

//go:embed runtime.js
var runtimeJS string

// RuntimeFunctions lists the prelude functions emitted code may call.
var RuntimeFunctions = []string{"compile_glsl", "get_shader", "bind_attribute", "vec3"}

// Runtime returns the JavaScript prelude that must be loaded before an
// emitted unit runs.
func Runtime() string {
	return strings.TrimSpace(runtimeJS)
}
