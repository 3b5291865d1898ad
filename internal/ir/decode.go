package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/lhaig/braid/internal/types"
)

// The interchange format is JSON. Programs list their persists by escape id;
// the escapes themselves live in the node trees and are resolved after
// decoding.

type jsonIR struct {
	Progs []*jsonProg       `json:"progs"`
	Types map[string]string `json:"types"`
	Main  *jsonProc         `json:"main"`
}

type jsonProg struct {
	ID            int             `json:"id"`
	Role          string          `json:"role"`
	Parent        *int            `json:"parent"`
	QuoteChildren []int           `json:"quote_children"`
	Persist       []int           `json:"persist"`
	Free          []int           `json:"free"`
	Body          json.RawMessage `json:"body"`
}

type jsonProc struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Params []int           `json:"params"`
	Body   json.RawMessage `json:"body"`
}

type jsonNode struct {
	Tag        string            `json:"tag"`
	ID         int               `json:"id"`
	Text       string            `json:"text"`
	Name       string            `json:"name"`
	Def        *int              `json:"def"`
	Op         string            `json:"op"`
	Annotation string            `json:"annotation"`
	Value      json.RawMessage   `json:"value"`
	Left       json.RawMessage   `json:"left"`
	Right      json.RawMessage   `json:"right"`
	Operand    json.RawMessage   `json:"operand"`
	Fun        json.RawMessage   `json:"fun"`
	Args       []json.RawMessage `json:"args"`
	Nodes      []json.RawMessage `json:"nodes"`
	Cond       json.RawMessage   `json:"cond"`
	Then       json.RawMessage   `json:"then"`
	Else       json.RawMessage   `json:"else"`
	Body       json.RawMessage   `json:"body"`
	Expr       json.RawMessage   `json:"expr"`
}

// Decode reads a CompilerIR from its JSON interchange form.
func Decode(r io.Reader) (*CompilerIR, error) {
	var raw jsonIR
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode IR: %w", err)
	}

	c := &CompilerIR{Types: make(map[int]types.Type, len(raw.Types))}
	for key, name := range raw.Types {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("type table key %q is not an id", key)
		}
		t, err := types.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("type of %d: %w", id, err)
		}
		c.Types[id] = t
	}

	escapes := make(map[int]*Escape)
	index := func(n Node) {
		Walk(n, true, func(n Node) bool {
			if esc, ok := n.(*Escape); ok {
				escapes[esc.ID] = esc
			}
			return true
		})
	}

	for _, jp := range raw.Progs {
		if jp == nil {
			c.Progs = append(c.Progs, nil)
			continue
		}
		if jp.ID < 0 {
			return nil, fmt.Errorf("program id %d is negative", jp.ID)
		}
		role, err := parseRole(jp.Role)
		if err != nil {
			return nil, fmt.Errorf("program %d: %w", jp.ID, err)
		}
		body, err := decodeNode(jp.Body)
		if err != nil {
			return nil, fmt.Errorf("program %d: %w", jp.ID, err)
		}
		parent := -1
		if jp.Parent != nil {
			parent = *jp.Parent
		}
		index(body)
		for len(c.Progs) < jp.ID {
			c.Progs = append(c.Progs, nil)
		}
		prog := &Program{
			ID:            jp.ID,
			Role:          role,
			Body:          body,
			Parent:        parent,
			QuoteChildren: jp.QuoteChildren,
			Free:          jp.Free,
		}
		if jp.ID < len(c.Progs) {
			if c.Progs[jp.ID] != nil {
				return nil, fmt.Errorf("program %d defined twice", jp.ID)
			}
			c.Progs[jp.ID] = prog
		} else {
			c.Progs = append(c.Progs, prog)
		}
	}

	if raw.Main != nil {
		body, err := decodeNode(raw.Main.Body)
		if err != nil {
			return nil, fmt.Errorf("entry procedure: %w", err)
		}
		index(body)
		name := raw.Main.Name
		if name == "" {
			name = "main"
		}
		c.Main = &Proc{ID: raw.Main.ID, Name: name, Params: raw.Main.Params, Body: body}
	}

	// Resolve persists now that every tree has been indexed.
	for _, jp := range raw.Progs {
		if jp == nil {
			continue
		}
		prog := c.Progs[jp.ID]
		for _, escID := range jp.Persist {
			esc, ok := escapes[escID]
			if !ok {
				return nil, fmt.Errorf("program %d persists unknown escape %d", jp.ID, escID)
			}
			prog.Persist = append(prog.Persist, esc)
		}
	}

	return c, nil
}

func parseRole(s string) (Role, error) {
	switch s {
	case "", "host", "f":
		return RoleHost, nil
	case "vertex":
		return RoleVertex, nil
	case "fragment":
		return RoleFragment, nil
	default:
		return RoleHost, fmt.Errorf("unknown role %q", s)
	}
}

func decodeNode(data json.RawMessage) (Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, err
	}

	def := -1
	if jn.Def != nil {
		def = *jn.Def
	}

	switch jn.Tag {
	case "lit":
		return &Literal{ID: jn.ID, Value: jn.Text}, nil
	case "lookup":
		return &Lookup{ID: jn.ID, Name: jn.Name, DefID: def}, nil
	case "let":
		value, err := decodeNode(jn.Value)
		if err != nil {
			return nil, err
		}
		return &Let{ID: jn.ID, Name: jn.Name, Value: value}, nil
	case "assign":
		value, err := decodeNode(jn.Value)
		if err != nil {
			return nil, err
		}
		return &Assign{ID: jn.ID, Name: jn.Name, DefID: def, Value: value}, nil
	case "seq":
		nodes, err := decodeNodes(jn.Nodes)
		if err != nil {
			return nil, err
		}
		return &Seq{ID: jn.ID, Nodes: nodes}, nil
	case "binary":
		left, err := decodeNode(jn.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(jn.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{ID: jn.ID, Op: jn.Op, Left: left, Right: right}, nil
	case "unary":
		operand, err := decodeNode(jn.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{ID: jn.ID, Op: jn.Op, Operand: operand}, nil
	case "call":
		fun, err := decodeNode(jn.Fun)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodes(jn.Args)
		if err != nil {
			return nil, err
		}
		return &Call{ID: jn.ID, Fun: fun, Args: args}, nil
	case "if":
		cond, err := decodeNode(jn.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeNode(jn.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeNode(jn.Else)
		if err != nil {
			return nil, err
		}
		return &If{ID: jn.ID, Cond: cond, Then: then, Else: els}, nil
	case "quote":
		body, err := decodeNode(jn.Body)
		if err != nil {
			return nil, err
		}
		return &Quote{ID: jn.ID, Annotation: jn.Annotation, Body: body}, nil
	case "escape":
		body, err := decodeNode(jn.Body)
		if err != nil {
			return nil, err
		}
		return &Escape{ID: jn.ID, Body: body}, nil
	case "run":
		expr, err := decodeNode(jn.Expr)
		if err != nil {
			return nil, err
		}
		return &Run{ID: jn.ID, Expr: expr}, nil
	default:
		return nil, fmt.Errorf("node %d: unknown tag %q", jn.ID, jn.Tag)
	}
}

func decodeNodes(raw []json.RawMessage) ([]Node, error) {
	nodes := make([]Node, 0, len(raw))
	for _, r := range raw {
		n, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
