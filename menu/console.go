package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned when the input stream ends while a prompt is waiting.
var ErrInputClosed = errors.New("input closed")

// Console is the single line based channel that every prompt reads from and
// writes to. Loops sharing one input must share one Console so that buffered
// input is not lost between them.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole wraps in and out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Out returns the output writer.
func (c *Console) Out() io.Writer { return c.out }

// ReadLine reads one line without its line terminator.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %w", ErrInputClosed, err)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Print writes a without a trailing newline.
func (c *Console) Print(a ...any) {
	fmt.Fprint(c.out, a...)
}

// Println writes a followed by a newline.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes a formatted string.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Pause waits for the user to press enter.
func (c *Console) Pause() error {
	c.Print("Press <Enter> to continue\n> ")
	if _, err := c.ReadLine(); err != nil {
		return err
	}
	c.Println()
	return nil
}
