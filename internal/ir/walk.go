package ir

// Walk calls fn for n and then its children in evaluation order. If fn
// returns false the children of that node are skipped. Quotes are entered
// only when enterQuotes is true.
func Walk(n Node, enterQuotes bool, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch node := n.(type) {
	case *Let:
		Walk(node.Value, enterQuotes, fn)
	case *Assign:
		Walk(node.Value, enterQuotes, fn)
	case *Seq:
		for _, c := range node.Nodes {
			Walk(c, enterQuotes, fn)
		}
	case *Binary:
		Walk(node.Left, enterQuotes, fn)
		Walk(node.Right, enterQuotes, fn)
	case *Unary:
		Walk(node.Operand, enterQuotes, fn)
	case *Call:
		Walk(node.Fun, enterQuotes, fn)
		for _, a := range node.Args {
			Walk(a, enterQuotes, fn)
		}
	case *If:
		Walk(node.Cond, enterQuotes, fn)
		Walk(node.Then, enterQuotes, fn)
		Walk(node.Else, enterQuotes, fn)
	case *Quote:
		if enterQuotes {
			Walk(node.Body, enterQuotes, fn)
		}
	case *Escape:
		Walk(node.Body, enterQuotes, fn)
	case *Run:
		Walk(node.Expr, enterQuotes, fn)
	}
}

// Locals returns the Let definitions of a program body, excluding those of
// nested quotes, in source order.
func Locals(body Node) []*Let {
	var lets []*Let
	Walk(body, false, func(n Node) bool {
		if let, ok := n.(*Let); ok {
			lets = append(lets, let)
		}
		return true
	})
	return lets
}
