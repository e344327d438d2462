// Package menu implements a numbered text menu driven by a line based input
// loop.
//
// An App shows one Page at a time. Each page lists Actions numbered from the
// display offset; the user's choice is read through a Loop, which re-prompts
// until the input converts and passes its checks.
package menu

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultOffset is the number shown for the first entry of a list.
// Indices stay 0-based internally.
const DefaultOffset = 1

var (
	// ErrEmptyNavigation is returned when a page without actions is run.
	ErrEmptyNavigation = errors.New("page has no actions")

	// ErrUnknownCommand is returned when a command number has no action.
	ErrUnknownCommand = errors.New("unknown command")
)

const (
	commandConvertHint = `Please select a command by entering its corresponding number (e.g. "1").`
	commandRangeHint   = "Please enter a number from the list above."
)

// App drives the current page.
type App struct {
	name     string
	page     *Page
	offset   int
	console  *Console
	commands *Loop[int]
}

// NewApp returns an app showing page. A nil page is replaced by an empty one.
func NewApp(name string, c *Console, page *Page) *App {
	a := &App{
		name:     name,
		offset:   DefaultOffset,
		console:  c,
		commands: NewIntLoop(c, ""),
	}
	a.commands.SetConvertFailMsgs("", commandConvertHint)
	a.commands.SetWrongRangeMsgs("", commandRangeHint)
	a.SetPage(page)
	return a
}

// SetOffset changes the number shown for the first action.
func (a *App) SetOffset(offset int) { a.offset = offset }

// Offset returns the display offset.
func (a *App) Offset() int { return a.offset }

// SetPage replaces the current page.
func (a *App) SetPage(page *Page) {
	if page == nil {
		page = NewPage("", "")
	}
	a.page = page
}

// Page returns the current page.
func (a *App) Page() *Page { return a.page }

// RenderPage formats page as a numbered menu.
func (a *App) RenderPage(page *Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s - %s\n\n", a.name, page.Title)
	if page.Details != "" {
		fmt.Fprintf(&b, "%s\n\n", page.Details)
	}
	for i, action := range page.navigation {
		fmt.Fprintf(&b, "\t[%d] %s\n", i+a.offset, action.Label())
	}
	return b.String()
}

// RunMenu shows the current page, reads a command and executes its action.
func (a *App) RunMenu() (any, error) {
	if a.page.NavLen() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyNavigation, a.page.Title)
	}

	tui := a.RenderPage(a.page)
	a.commands.SetExpectedRange(a.offset, a.page.NavLen()+a.offset)
	a.commands.SetConvertFailMsgs(tui, "")
	a.commands.SetWrongRangeMsgs(tui, "")

	a.console.Println(tui)
	command, err := a.commands.Run()
	if err != nil {
		return nil, err
	}
	return a.ExecuteAction(command)
}

// ExecuteAction runs the action numbered command.
func (a *App) ExecuteAction(command int) (any, error) {
	i := command - a.offset
	if i < 0 || i >= len(a.page.navigation) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, command)
	}
	return a.page.navigation[i].Execute()
}
