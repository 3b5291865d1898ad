package ir

import (
	"github.com/lhaig/braid/internal/types"
)

// CompilerIR is the whole-program container handed to the backends. It is
// built once by the front end and only read afterwards.
type CompilerIR struct {
	// Progs is indexed by program id. Slots may be nil.
	Progs []*Program
	// Types maps every value id to its resolved type.
	Types map[int]types.Type
	// Main is the designated entry procedure.
	Main *Proc
}

// Prog returns the program with the given id, or nil if the slot is absent.
func (c *CompilerIR) Prog(id int) *Program {
	if id < 0 || id >= len(c.Progs) {
		return nil
	}
	return c.Progs[id]
}

// TypeOf returns the resolved type of a value id.
func (c *CompilerIR) TypeOf(id int) (types.Type, bool) {
	t, ok := c.Types[id]
	return t, ok && t != nil
}

// Role says which stage a program runs in.
type Role int

const (
	RoleHost Role = iota
	RoleVertex
	RoleFragment
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleVertex:
		return "vertex"
	case RoleFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// IsShader reports whether programs of this role are compiled to GLSL.
func (r Role) IsShader() bool {
	return r == RoleVertex || r == RoleFragment
}

// Program is one stage: the body of a quotation, or of the top level.
type Program struct {
	ID   int
	Role Role
	Body Node
	// Parent is the id of the enclosing program, or -1.
	Parent int
	// QuoteChildren lists the programs quoted directly inside this one.
	QuoteChildren []int
	// Persist lists the explicit cross-stage escapes in declaration order.
	Persist []*Escape
	// Free lists the definition ids captured from an enclosing stage.
	Free []int
}

// Proc is a host procedure. The entry procedure is emitted as "main".
type Proc struct {
	ID     int
	Name   string
	Params []int // definition ids
	Body   Node
}

// --- Nodes ---

// Kind identifies the syntactic form of a Node.
type Kind int

const (
	KindLiteral Kind = iota
	KindLookup
	KindLet
	KindAssign
	KindSeq
	KindBinary
	KindUnary
	KindCall
	KindIf
	KindQuote
	KindEscape
	KindRun
)

var kindNames = [...]string{
	KindLiteral: "lit",
	KindLookup:  "lookup",
	KindLet:     "let",
	KindAssign:  "assign",
	KindSeq:     "seq",
	KindBinary:  "binary",
	KindUnary:   "unary",
	KindCall:    "call",
	KindIf:      "if",
	KindQuote:   "quote",
	KindEscape:  "escape",
	KindRun:     "run",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is the interface for all IR syntax nodes. Every node has an id that
// keys the type table.
type Node interface {
	NodeID() int
	Kind() Kind
}

// Literal is a constant written in target-neutral source form, e.g. "1.0".
type Literal struct {
	ID    int
	Value string
}

func (n *Literal) NodeID() int { return n.ID }
func (*Literal) Kind() Kind    { return KindLiteral }

// Lookup references a variable. DefID is -1 for externs and intrinsics.
type Lookup struct {
	ID    int
	Name  string
	DefID int
}

func (n *Lookup) NodeID() int { return n.ID }
func (*Lookup) Kind() Kind    { return KindLookup }

// IsExtern reports whether the lookup names an intrinsic or extern rather
// than a local definition.
func (n *Lookup) IsExtern() bool { return n.DefID < 0 }

// Let introduces a definition whose id is the Let node's id.
type Let struct {
	ID    int
	Name  string
	Value Node
}

func (n *Let) NodeID() int { return n.ID }
func (*Let) Kind() Kind    { return KindLet }

// Assign stores to an existing definition, or to an extern such as
// gl_Position when DefID is -1.
type Assign struct {
	ID    int
	Name  string
	DefID int
	Value Node
}

func (n *Assign) NodeID() int { return n.ID }
func (*Assign) Kind() Kind    { return KindAssign }

// Seq evaluates its nodes in order and yields the last.
type Seq struct {
	ID    int
	Nodes []Node
}

func (n *Seq) NodeID() int { return n.ID }
func (*Seq) Kind() Kind    { return KindSeq }

// Binary is an infix operator application.
type Binary struct {
	ID    int
	Op    string
	Left  Node
	Right Node
}

func (n *Binary) NodeID() int { return n.ID }
func (*Binary) Kind() Kind    { return KindBinary }

// Unary is a prefix operator application.
type Unary struct {
	ID      int
	Op      string
	Operand Node
}

func (n *Unary) NodeID() int { return n.ID }
func (*Unary) Kind() Kind    { return KindUnary }

// Call applies Fun to Args.
type Call struct {
	ID   int
	Fun  Node
	Args []Node
}

func (n *Call) NodeID() int { return n.ID }
func (*Call) Kind() Kind    { return KindCall }

// IntrinsicName returns the callee name when the call targets an extern
// lookup, or "" otherwise.
func (n *Call) IntrinsicName() string {
	if lk, ok := n.Fun.(*Lookup); ok && lk.IsExtern() {
		return lk.Name
	}
	return ""
}

// If is a conditional expression. Else may be nil.
type If struct {
	ID   int
	Cond Node
	Then Node
	Else Node
}

func (n *If) NodeID() int { return n.ID }
func (*If) Kind() Kind    { return KindIf }

// Quote embeds a nested program. Its id is the id of that program.
type Quote struct {
	ID         int
	Annotation string
	Body       Node
}

func (n *Quote) NodeID() int { return n.ID }
func (*Quote) Kind() Kind    { return KindQuote }

// Escape is a persist: Body is evaluated in the enclosing stage and its
// value is read inside the quote under the escape's own id.
type Escape struct {
	ID   int
	Body Node
}

func (n *Escape) NodeID() int { return n.ID }
func (*Escape) Kind() Kind    { return KindEscape }

// Run executes a quoted host program.
type Run struct {
	ID   int
	Expr Node
}

func (n *Run) NodeID() int { return n.ID }
func (*Run) Kind() Kind    { return KindRun }
