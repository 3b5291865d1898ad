// Package visit implements node-kind dispatch tables for the code
// generators. A backend builds a Rules table, derives specialised tables
// with Compose, and ties the recursion with Tie.
package visit

import (
	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
)

// Func compiles a node to target source text.
type Func func(n ir.Node) (string, error)

// Rules maps a node kind to the handler for that kind.
type Rules map[ir.Kind]Func

// Compose returns a new table holding every rule of base with the entries
// of overrides written over them. Neither input is modified.
func Compose(base, overrides Rules) Rules {
	out := make(Rules, len(base)+len(overrides))
	for k, f := range base {
		out[k] = f
	}
	for k, f := range overrides {
		out[k] = f
	}
	return out
}

// Apply dispatches n to its rule. A kind with no rule is an unsupported
// node error.
func Apply(rules Rules, n ir.Node) (string, error) {
	if n == nil {
		return "", diagnostic.Errorf(diagnostic.UnsupportedNode, -1, "missing node")
	}
	f, ok := rules[n.Kind()]
	if !ok {
		return "", diagnostic.Errorf(diagnostic.UnsupportedNode, n.NodeID(),
			"no rule for %s nodes", n.Kind())
	}
	return f(n)
}

// Tie builds a rule table whose rules recurse through the returned Func, so
// overrides installed by build are seen by every nested node.
func Tie(build func(self Func) Rules) Func {
	var rules Rules
	self := func(n ir.Node) (string, error) {
		return Apply(rules, n)
	}
	rules = build(self)
	return self
}
