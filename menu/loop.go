package menu

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is reported when a converted value is outside the expected range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnexpectedResponse is reported when a converted value is not an accepted response.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// Converter turns one line of raw input into a value.
type Converter[T any] interface {
	Convert(raw string) (T, error)
}

// ConverterFunc adapts a function to a Converter.
type ConverterFunc[T any] func(raw string) (T, error)

// Convert calls f(raw).
func (f ConverterFunc[T]) Convert(raw string) (T, error) { return f(raw) }

// Bounds is the half-open window [Lower, Upper).
type Bounds struct {
	Lower int
	Upper int
}

// Contains reports whether n lies in b.
func (b Bounds) Contains(n int) bool { return n >= b.Lower && n < b.Upper }

// Loop prompts until the input converts and passes the configured checks.
//
// A value is accepted when it is one of the expected responses or when it lies
// in the expected range. When a value is rejected and a range is set, the range
// message is shown even if responses are also configured.
type Loop[T any] struct {
	console *Console
	prompt  string
	convert Converter[T]

	within    func(T, Bounds) bool
	bounds    *Bounds
	responses func(T) bool

	convertFail   Message
	wrongRange    Message
	wrongResponse Message
}

// NewLoop returns a loop reading from c and converting input with convert.
// No range or responses are expected until configured.
func NewLoop[T any](c *Console, convert Converter[T]) *Loop[T] {
	return &Loop[T]{console: c, convert: convert}
}

// SetPrompt sets the text printed before every read. Empty disables it.
func (l *Loop[T]) SetPrompt(prompt string) { l.prompt = prompt }

// SetWithin sets how a value is tested against the expected range.
func (l *Loop[T]) SetWithin(within func(T, Bounds) bool) { l.within = within }

// SetExpectedRange expects values in [lower, upper).
// It panics if the loop has no within check, which only typed loops provide.
func (l *Loop[T]) SetExpectedRange(lower, upper int) {
	if l.within == nil {
		panic("menu: SetExpectedRange on a loop without a within check")
	}
	l.bounds = &Bounds{Lower: lower, Upper: upper}
}

// ClearExpectedRange disables range checking.
func (l *Loop[T]) ClearExpectedRange() { l.bounds = nil }

// ExpectedRange returns the expected range and whether one is set.
func (l *Loop[T]) ExpectedRange() (Bounds, bool) {
	if l.bounds == nil {
		return Bounds{}, false
	}
	return *l.bounds, true
}

// SetExpectedResponses accepts values for which accept returns true. Nil disables the check.
func (l *Loop[T]) SetExpectedResponses(accept func(T) bool) { l.responses = accept }

// SetConvertFailMsgs configures the message for input that fails to convert.
// Empty arguments leave the current text in place.
func (l *Loop[T]) SetConvertFailMsgs(before, after string) { l.convertFail.update(before, after) }

// SetWrongRangeMsgs configures the message for values outside the expected range.
func (l *Loop[T]) SetWrongRangeMsgs(before, after string) { l.wrongRange.update(before, after) }

// SetWrongResponseMsgs configures the message for values that are not an expected response.
func (l *Loop[T]) SetWrongResponseMsgs(before, after string) { l.wrongResponse.update(before, after) }

// Validate applies the range and response checks to v.
func (l *Loop[T]) Validate(v T) error {
	if l.responses != nil && l.responses(v) {
		return nil
	}
	if l.bounds != nil {
		if l.within(v, *l.bounds) {
			return nil
		}
		return fmt.Errorf("%w: expected [%d, %d)", ErrOutOfRange, l.bounds.Lower, l.bounds.Upper)
	}
	if l.responses != nil {
		return ErrUnexpectedResponse
	}
	return nil
}

// Run reads lines until one converts to an acceptable value and returns it.
// The only error is a failure of the input itself.
func (l *Loop[T]) Run() (T, error) {
	var zero T
	for {
		raw, err := l.read()
		if err != nil {
			return zero, err
		}

		v, err := l.convert.Convert(raw)
		if err != nil {
			l.console.Print(l.convertFail.Render(raw))
			continue
		}

		switch err := l.Validate(v); {
		case err == nil:
			return v, nil
		case errors.Is(err, ErrOutOfRange):
			l.console.Print(l.wrongRange.Render(raw))
		default:
			l.console.Print(l.wrongResponse.Render(raw))
		}
	}
}

func (l *Loop[T]) read() (string, error) {
	if l.prompt != "" {
		l.console.Println(l.prompt)
	}
	l.console.Print("> ")
	line, err := l.console.ReadLine()
	if err != nil {
		return "", err
	}
	l.console.Println()
	return line, nil
}

// ExpectResponses accepts exactly the given responses.
func ExpectResponses[T comparable](l *Loop[T], responses ...T) {
	set := make(map[T]struct{}, len(responses))
	for _, r := range responses {
		set[r] = struct{}{}
	}
	l.SetExpectedResponses(func(v T) bool {
		_, ok := set[v]
		return ok
	})
}
