package ast

import "strings"

// Find locates a descendant by a dotted path of node texts, skipping levels that
// do not match. Find("MainModule.FLWORExpr") returns the first FLWOR in the first
// main module. The node itself takes part in the match.
func (n *Node) Find(path string) *Node {
	return n.FindPath(path, true)
}

// FindPath is Find with explicit skipping. Without skip every segment after a match
// has to be an immediate child of the previous one.
func (n *Node) FindPath(path string, skip bool) *Node {
	if n == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	text := n.Text()
	if path == text {
		return n
	}
	head, rest, _ := strings.Cut(path, ".")
	if head == text {
		for _, c := range n.Children {
			if found := c.FindPath(rest, skip); found != nil {
				return found
			}
		}
		return nil
	}
	if skip {
		for _, c := range n.Children {
			if found := c.FindPath(path, skip); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindAll returns every node of type t under n, n included, in pre-order.
func (n *Node) FindAll(t Type) []*Node {
	var out []*Node
	Inspect(n, func(x *Node) bool {
		if x.Type == t {
			out = append(out, x)
		}
		return true
	})
	return out
}
