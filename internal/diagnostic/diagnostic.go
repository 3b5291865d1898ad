package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Kind identifies which code generation invariant was violated.
type Kind int

const (
	Pairing           Kind = iota // vertex quote without exactly one fragment quote
	PersistType                   // cross-stage value that is neither primitive nor array
	UniformType                   // primitive with no uniform setter
	AttributeType                 // array whose element type is not primitive
	DynamicInvocation             // vtx call on a non-literal quotation
	UnsupportedNode               // node a backend cannot compile
	UndefinedProgram              // reference to an absent program slot
	UndefinedType                 // id missing from the type table
	MissingEntry                  // IR without an entry procedure
)

var kindNames = [...]string{
	Pairing:           "pairing",
	PersistType:       "persist-type",
	UniformType:       "uniform-type",
	AttributeType:     "attribute-type",
	DynamicInvocation: "dynamic-invocation",
	UnsupportedNode:   "unsupported-node",
	UndefinedProgram:  "undefined-program",
	UndefinedType:     "undefined-type",
	MissingEntry:      "missing-entry",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// CompileError is a static code generation failure. It aborts the current
// compilation.
type CompileError struct {
	Kind    Kind
	ID      int // IR node or program id the failure refers to
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("error[%s]: %s (id %d)", e.Kind, e.Message, e.ID)
}

// Errorf creates a CompileError with a formatted message
func Errorf(kind Kind, id int, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, ID: id, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err wraps a CompileError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Kind == kind
}

// Diagnostic represents a single compiler error, warning, or info message
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	ID       int    // IR id the message refers to
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Add records err as an error diagnostic. CompileErrors keep their kind and
// id; other errors are recorded as unsupported with id -1.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		d.items = append(d.items, Diagnostic{
			Severity: Error,
			Kind:     ce.Kind,
			Message:  ce.Message,
			ID:       ce.ID,
		})
		return
	}
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Kind:     UnsupportedNode,
		Message:  err.Error(),
		ID:       -1,
	})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(id int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		ID:       id,
	})
}

// WarningWithHint adds a warning diagnostic with an optional hint
func (d *Diagnostics) WarningWithHint(id int, msg, hint string) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  msg,
		ID:       id,
		Hint:     hint,
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Format returns human-readable messages
// Output format:
//
//	error[scene.json#12]: vertex quote must have exactly one fragment quote
//	  hint: wrap the fragment body in frag(...)
//	warning[scene.json#3]: fragment program is not nested in a vertex program
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		builder.WriteString(fmt.Sprintf("%s[%s#%d]: %s",
			item.Severity.String(),
			filename,
			item.ID,
			item.Message,
		))

		if item.Hint != "" {
			builder.WriteString(fmt.Sprintf("\n  hint: %s", item.Hint))
		}

		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
