// Package symbols holds the deterministic naming scheme shared by the host
// and shader backends. Every name is a pure function of an IR id.
package symbols

import "strconv"

// Prog names the emitted constant or function for a program.
func Prog(progID int) string { return "q" + strconv.Itoa(progID) }

// Shader names the linked shader program handle. Uses the id of the vertex
// program of the pair.
func Shader(vertexID int) string { return "s" + strconv.Itoa(vertexID) }

// Persist names the variable that holds an explicit persist, keyed by the
// escape id.
func Persist(escID int) string { return "p" + strconv.Itoa(escID) }

// Var names a local definition or a captured free variable.
func Var(defID int) string { return "v" + strconv.Itoa(defID) }

// Location names the host local holding a shader variable location. Persist
// and free variable locations use different prefixes so the same numeric id
// never yields the same name twice.
func Location(varID int, persist bool) string {
	if persist {
		return "l" + Persist(varID)
	}
	return "l" + Var(varID)
}

// Entry is the name of the emitted entry procedure.
const Entry = "main"
