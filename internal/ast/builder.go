package ast

import (
	"xqlint/internal/token"
)

// Builder allocates the nodes of one parse. Node ids count from 1 per builder,
// so two parses of the same text number their nodes the same way.
type Builder struct {
	nodes  *Arena[Node]
	tokens *Arena[token.Token]
}

// NewBuilder creates a builder; hint sizes the allocation blocks.
func NewBuilder(hint uint) *Builder {
	return &Builder{
		nodes:  NewArena[Node](hint),
		tokens: NewArena[token.Token](hint),
	}
}

// New creates a grouping node. tok, when not nil, anchors the node's position and
// is copied. Nil children are dropped, as Append does.
func (b *Builder) New(typ Type, tok *token.Token, children ...*Node) *Node {
	n := b.nodes.Allocate(Node{Type: typ, Tok: b.copyToken(tok)})
	n.ID = b.nodes.Len()
	n.Append(children...)
	return n
}

// Leaf creates a terminal node owning a copy of tok.
func (b *Builder) Leaf(tok *token.Token) *Node {
	return b.New(Terminal, tok)
}

// Count is the number of nodes built so far.
func (b *Builder) Count() uint32 {
	return b.nodes.Len()
}

func (b *Builder) copyToken(tok *token.Token) *token.Token {
	if tok == nil {
		return nil
	}
	return b.tokens.Allocate(*tok)
}
