package menu

import (
	"strconv"
	"strings"

	"pdf_assembler/pagerange"
)

// ParseInt converts base-10 input, ignoring surrounding whitespace.
func ParseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// NewIntLoop returns a loop reading integers. Ranges apply to the value itself.
func NewIntLoop(c *Console, prompt string) *Loop[int] {
	l := NewLoop[int](c, ConverterFunc[int](ParseInt))
	l.SetPrompt(prompt)
	l.SetWithin(func(v int, b Bounds) bool { return b.Contains(v) })
	return l
}

// NewTextLoop returns a loop that accepts any line unchanged.
func NewTextLoop(c *Console, prompt string) *Loop[string] {
	l := NewLoop[string](c, ConverterFunc[string](func(raw string) (string, error) {
		return raw, nil
	}))
	l.SetPrompt(prompt)
	return l
}

// NewChoiceLoop returns a loop accepting one of responses, compared in upper case.
func NewChoiceLoop(c *Console, prompt string, responses ...string) *Loop[string] {
	l := NewLoop[string](c, ConverterFunc[string](func(raw string) (string, error) {
		return strings.ToUpper(strings.TrimSpace(raw)), nil
	}))
	l.SetPrompt(prompt)
	upper := make([]string, len(responses))
	for i, r := range responses {
		upper[i] = strings.ToUpper(r)
	}
	ExpectResponses(l, upper...)
	return l
}

// NewSelectionLoop returns a loop reading page range expressions.
// A range applies to every listed page; the all selection always passes.
func NewSelectionLoop(c *Console, prompt string) *Loop[pagerange.Selection] {
	l := NewLoop[pagerange.Selection](c, ConverterFunc[pagerange.Selection](pagerange.Parse))
	l.SetPrompt(prompt)
	l.SetWithin(func(s pagerange.Selection, b Bounds) bool {
		return s.Within(b.Lower, b.Upper)
	})
	return l
}
