package check

import "xqlint/internal/ast"

// Blame locates one offending step of a path expression.
type Blame struct {
	// Index is the position of the matched child.
	Index int
	// Line is the line of the child after the match, the step the operator
	// applies to. Zero when Missing.
	Line uint32
	// Missing is set when the match is the last child and there is no step
	// after it to take a line from.
	Missing bool
}

// PathBlame finds every immediate child of path whose text is text and blames
// the child that follows it. Multi-line paths are reported on the line of the
// offending step rather than on the line the path starts.
func PathBlame(path *ast.Node, text string) []Blame {
	if path == nil {
		return nil
	}
	var out []Blame
	for i, c := range path.Children {
		if c.Text() != text {
			continue
		}
		b := Blame{Index: i}
		if next := path.Child(i + 1); next != nil {
			b.Line = next.Line()
		} else {
			b.Missing = true
		}
		out = append(out, b)
	}
	return out
}

// PredicateTracker counts how deep inside predicates a walk currently is.
type PredicateTracker struct {
	level int
}

func (t *PredicateTracker) Enter() { t.level++ }

// Exit leaves one predicate; the level never goes below zero.
func (t *PredicateTracker) Exit() {
	if t.level > 0 {
		t.level--
	}
}

func (t *PredicateTracker) In() bool   { return t.level > 0 }
func (t *PredicateTracker) Level() int { return t.level }
func (t *PredicateTracker) Reset()     { t.level = 0 }
