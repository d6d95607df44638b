package ast

import (
	"fmt"
	"io"
	"strings"
)

// String renders the tree on one line, LISP style: (IfExpr (IfPredicate ...)).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	if n.IsTerminal() {
		b.WriteString(quoteText(n.Text()))
		return
	}
	if len(n.Children) == 0 {
		b.WriteString(n.Text())
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Text())
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// Dump writes an indented tree with positions, one node per line.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	text := n.Text()
	if n.IsTerminal() {
		text = quoteText(text)
	}
	if _, err := fmt.Fprintf(w, "%s%s (%d:%d)\n", strings.Repeat("  ", depth), text, n.Line(), n.Col()); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func quoteText(s string) string {
	if strings.ContainsAny(s, " ()\t\n\r\"") || s == "" {
		return fmt.Sprintf("%q", s)
	}
	return s
}
