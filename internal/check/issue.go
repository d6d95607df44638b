package check

import "fmt"

// Issue is one rule violation in a file.
type Issue struct {
	RuleKey string `json:"rule" msgpack:"rule"`
	Line    uint32 `json:"line" msgpack:"line"`
	Message string `json:"message" msgpack:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%d: [%s] %s", i.Line, i.RuleKey, i.Message)
}

type issueKey struct {
	rule string
	line uint32
}

// Issues is the append-only issue list of one file. A rule reports at most one
// issue per line; later reports for the same line are dropped.
type Issues struct {
	items []Issue
	seen  map[issueKey]struct{}
}

func NewIssues() *Issues {
	return &Issues{seen: make(map[issueKey]struct{})}
}

// Add records an issue and reports whether it was new.
func (is *Issues) Add(rule string, line uint32, message string) bool {
	key := issueKey{rule: rule, line: line}
	if _, dup := is.seen[key]; dup {
		return false
	}
	is.seen[key] = struct{}{}
	is.items = append(is.items, Issue{RuleKey: rule, Line: line, Message: message})
	return true
}

// Has reports whether rule already reported line.
func (is *Issues) Has(rule string, line uint32) bool {
	_, ok := is.seen[issueKey{rule: rule, line: line}]
	return ok
}

// Items returns the issues in the order they were added.
func (is *Issues) Items() []Issue {
	if is == nil {
		return nil
	}
	return is.items
}

func (is *Issues) Len() int {
	if is == nil {
		return 0
	}
	return len(is.items)
}

// Lines lists the reported lines of one rule, in report order.
func (is *Issues) Lines(rule string) []uint32 {
	var out []uint32
	for _, it := range is.Items() {
		if it.RuleKey == rule {
			out = append(out, it.Line)
		}
	}
	return out
}
