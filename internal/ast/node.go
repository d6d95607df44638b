package ast

import (
	"xqlint/internal/token"
)

// Node is one tree node. Children are owned by their parent.
type Node struct {
	Type     Type
	Tok      *token.Token
	Children []*Node
	ID       uint32 // builder sequence number, 0 for hand-made nodes
}

// Append adds children, skipping nils.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// IsTerminal reports whether n wraps a single token.
func (n *Node) IsTerminal() bool {
	return n != nil && n.Type == Terminal
}

// Is reports whether n is non-nil and of type t.
func (n *Node) Is(t Type) bool {
	return n != nil && n.Type == t
}

// Kind is the token kind of a terminal, token.Invalid otherwise.
func (n *Node) Kind() token.Kind {
	if n.IsTerminal() && n.Tok != nil {
		return n.Tok.Kind
	}
	return token.Invalid
}

// Text is the token text of a terminal, the type name of a grouping node and ""
// for nil nodes.
func (n *Node) Text() string {
	switch {
	case n == nil || n.Type == Nil:
		return ""
	case n.Type == Terminal:
		if n.Tok == nil {
			return ""
		}
		return n.Tok.Text
	default:
		return n.Type.String()
	}
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Len is the number of children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Line is the 1-based line of the node's token, or of the first descendant that
// has one. A node with no positioned descendant reports 0.
func (n *Node) Line() uint32 {
	if n == nil {
		return 0
	}
	if n.Tok != nil && n.Tok.Line > 0 {
		return n.Tok.Line
	}
	for _, c := range n.Children {
		if l := c.Line(); l > 0 {
			return l
		}
	}
	return 0
}

// Col is the 1-based column, resolved like Line.
func (n *Node) Col() uint32 {
	if n == nil {
		return 0
	}
	if n.Tok != nil && n.Tok.Line > 0 {
		return n.Tok.Col
	}
	for _, c := range n.Children {
		if c.Line() > 0 {
			return c.Col()
		}
	}
	return 0
}

// Inspect walks the tree depth first. f returning false skips the node's children.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, f)
	}
}

// Equal compares two trees by type, token kind, text and position.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || len(a.Children) != len(b.Children) {
		return false
	}
	if (a.Tok == nil) != (b.Tok == nil) {
		return false
	}
	if a.Tok != nil {
		ta, tb := a.Tok, b.Tok
		if ta.Kind != tb.Kind || ta.Text != tb.Text || ta.Line != tb.Line || ta.Col != tb.Col {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
