package planner

import "fmt"

// Trail accumulates the human-readable audit-trail lines for one run. Every
// selection decision, skip, and department summary lands here so a reviewer
// can re-derive the allocation without re-running it.
type Trail struct {
	lines []string
}

func (t *Trail) Linef(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Lines returns the accumulated trail in emission order.
func (t *Trail) Lines() []string {
	return t.lines
}
