package ir

import (
	"fmt"
)

// Validate checks a CompilerIR for structural consistency and returns a list
// of error messages. An empty slice indicates the IR is well formed. It does
// not check staging rules; the backends report those.
func Validate(c *CompilerIR) []string {
	var errors []string

	if c.Main == nil {
		errors = append(errors, "IR has no entry procedure")
	} else if c.Main.Body == nil {
		errors = append(errors, fmt.Sprintf("entry procedure %d has nil body", c.Main.ID))
	}

	for i, prog := range c.Progs {
		if prog == nil {
			continue
		}
		if prog.ID != i {
			errors = append(errors, fmt.Sprintf("program in slot %d has id %d", i, prog.ID))
		}
		for _, child := range prog.QuoteChildren {
			cp := c.Prog(child)
			if cp == nil {
				errors = append(errors, fmt.Sprintf("program %d quotes undefined program %d", prog.ID, child))
				continue
			}
			if cp.Parent != prog.ID {
				errors = append(errors, fmt.Sprintf("program %d lists child %d whose parent is %d", prog.ID, child, cp.Parent))
			}
		}
		errors = append(errors, validateEscapes(c, prog)...)
		for _, fv := range prog.Free {
			if _, ok := c.TypeOf(fv); !ok {
				errors = append(errors, fmt.Sprintf("program %d free variable %d has no type", prog.ID, fv))
			}
		}
	}

	return errors
}

func validateEscapes(c *CompilerIR, prog *Program) []string {
	var errors []string
	seen := make(map[int]bool)
	for _, esc := range prog.Persist {
		if esc == nil {
			errors = append(errors, fmt.Sprintf("program %d has nil persist", prog.ID))
			continue
		}
		if seen[esc.ID] {
			errors = append(errors, fmt.Sprintf("program %d declares persist %d twice", prog.ID, esc.ID))
		}
		seen[esc.ID] = true
		if esc.Body == nil {
			errors = append(errors, fmt.Sprintf("persist %d has nil body", esc.ID))
			continue
		}
		if _, ok := c.TypeOf(esc.Body.NodeID()); !ok {
			errors = append(errors, fmt.Sprintf("persist %d body %d has no type", esc.ID, esc.Body.NodeID()))
		}
	}
	return errors
}
