package menu

import "strings"

// Message is the text shown when an input is rejected. Before is printed ahead
// of the problem statement and After below it; either may be empty.
type Message struct {
	Before string
	After  string
}

// update replaces the non-empty parts only.
func (m *Message) update(before, after string) {
	if before != "" {
		m.Before = before
	}
	if after != "" {
		m.After = after
	}
}

// Render formats the message for the rejected raw input.
func (m Message) Render(raw string) string {
	var b strings.Builder
	if m.Before != "" {
		b.WriteString(m.Before)
		b.WriteString("\n")
	}
	b.WriteString(`"` + raw + `" is an invalid input.`)
	b.WriteString("\n")
	if m.After != "" {
		b.WriteString(m.After)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
