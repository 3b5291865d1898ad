package ir

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the IR for debugging.
func Print(c *CompilerIR) string {
	var sb strings.Builder
	for _, prog := range c.Progs {
		if prog == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("Program %d (%s)", prog.ID, prog.Role))
		if prog.Parent >= 0 {
			sb.WriteString(fmt.Sprintf(" in %d", prog.Parent))
		}
		sb.WriteString("\n")
		if len(prog.QuoteChildren) > 0 {
			sb.WriteString(fmt.Sprintf("  Quotes: %v\n", prog.QuoteChildren))
		}
		if len(prog.Persist) > 0 {
			sb.WriteString("  Persist:\n")
			for _, esc := range prog.Persist {
				sb.WriteString(fmt.Sprintf("    %d: %s\n", esc.ID, typeLabel(c, esc.Body)))
			}
		}
		if len(prog.Free) > 0 {
			sb.WriteString("  Free:\n")
			for _, fv := range prog.Free {
				sb.WriteString(fmt.Sprintf("    %d: %s\n", fv, typeLabelID(c, fv)))
			}
		}
		if prog.Body != nil {
			sb.WriteString("  Body:\n")
			printNode(&sb, prog.Body, 2)
		} else {
			sb.WriteString("  Body: empty\n")
		}
	}

	if c.Main != nil {
		sb.WriteString(fmt.Sprintf("Proc %s\n", c.Main.Name))
		if len(c.Main.Params) > 0 {
			sb.WriteString("  Params:\n")
			for _, id := range c.Main.Params {
				sb.WriteString(fmt.Sprintf("    %d: %s\n", id, typeLabelID(c, id)))
			}
		} else {
			sb.WriteString("  Params: none\n")
		}
		if c.Main.Body != nil {
			sb.WriteString("  Body:\n")
			printNode(&sb, c.Main.Body, 2)
		}
	}
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Literal:
		sb.WriteString(fmt.Sprintf("%sLiteral #%d: %s\n", prefix, n.ID, n.Value))

	case *Lookup:
		if n.IsExtern() {
			sb.WriteString(fmt.Sprintf("%sLookup #%d: %s (extern)\n", prefix, n.ID, n.Name))
		} else {
			sb.WriteString(fmt.Sprintf("%sLookup #%d: %s -> %d\n", prefix, n.ID, n.Name, n.DefID))
		}

	case *Let:
		sb.WriteString(fmt.Sprintf("%sLet #%d: %s\n", prefix, n.ID, n.Name))
		printNode(sb, n.Value, indent+1)

	case *Assign:
		target := n.Name
		if n.DefID >= 0 {
			target = fmt.Sprintf("%s -> %d", n.Name, n.DefID)
		}
		sb.WriteString(fmt.Sprintf("%sAssign #%d: %s\n", prefix, n.ID, target))
		printNode(sb, n.Value, indent+1)

	case *Seq:
		sb.WriteString(fmt.Sprintf("%sSeq #%d\n", prefix, n.ID))
		for _, c := range n.Nodes {
			printNode(sb, c, indent+1)
		}

	case *Binary:
		sb.WriteString(fmt.Sprintf("%sBinary #%d: %s\n", prefix, n.ID, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *Unary:
		sb.WriteString(fmt.Sprintf("%sUnary #%d: %s\n", prefix, n.ID, n.Op))
		printNode(sb, n.Operand, indent+1)

	case *Call:
		sb.WriteString(fmt.Sprintf("%sCall #%d\n", prefix, n.ID))
		printNode(sb, n.Fun, indent+1)
		if len(n.Args) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Args:\n", prefix))
			for _, a := range n.Args {
				printNode(sb, a, indent+2)
			}
		}

	case *If:
		sb.WriteString(fmt.Sprintf("%sIf #%d\n", prefix, n.ID))
		printNode(sb, n.Cond, indent+1)
		sb.WriteString(fmt.Sprintf("%s  Then:\n", prefix))
		printNode(sb, n.Then, indent+2)
		if n.Else != nil {
			sb.WriteString(fmt.Sprintf("%s  Else:\n", prefix))
			printNode(sb, n.Else, indent+2)
		}

	case *Quote:
		// The body is printed under its own program.
		sb.WriteString(fmt.Sprintf("%sQuote #%d: %s\n", prefix, n.ID, n.Annotation))

	case *Escape:
		sb.WriteString(fmt.Sprintf("%sEscape #%d\n", prefix, n.ID))
		printNode(sb, n.Body, indent+1)

	case *Run:
		sb.WriteString(fmt.Sprintf("%sRun #%d\n", prefix, n.ID))
		printNode(sb, n.Expr, indent+1)

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown node %T>\n", prefix, node))
	}
}

func typeLabel(c *CompilerIR, n Node) string {
	if n == nil {
		return "?"
	}
	return typeLabelID(c, n.NodeID())
}

func typeLabelID(c *CompilerIR, id int) string {
	if t, ok := c.TypeOf(id); ok {
		return t.String()
	}
	return "?"
}
