package menu

// Callback is the behavior behind an Action.
type Callback interface {
	Call(args ...any) (any, error)
}

// CallbackFunc adapts a function to a Callback.
type CallbackFunc func(args ...any) (any, error)

// Call calls f(args...).
func (f CallbackFunc) Call(args ...any) (any, error) { return f(args...) }

// Do adapts a function that only reports an error.
func Do(fn func() error) Callback {
	return CallbackFunc(func(...any) (any, error) {
		return nil, fn()
	})
}

// Action is a labeled menu entry.
type Action struct {
	label    string
	callback Callback
}

// NewAction returns an action. A nil callback does nothing.
func NewAction(label string, cb Callback) *Action {
	return &Action{label: label, callback: cb}
}

// Label returns the text shown in the menu.
func (a *Action) Label() string { return a.label }

// SetCallback replaces the behavior of the action.
func (a *Action) SetCallback(cb Callback) { a.callback = cb }

// Execute runs the callback and returns its result and error.
func (a *Action) Execute(args ...any) (any, error) {
	if a.callback == nil {
		return nil, nil
	}
	return a.callback.Call(args...)
}

// Page is a screen of numbered actions. Details, when set, is printed between
// the title and the actions.
type Page struct {
	Title      string
	Details    string
	navigation []*Action
}

// NewPage returns a page owning its own copy of actions.
func NewPage(title, details string, actions ...*Action) *Page {
	nav := make([]*Action, len(actions))
	copy(nav, actions)
	return &Page{Title: title, Details: details, navigation: nav}
}

// NavLen returns the number of actions.
func (p *Page) NavLen() int { return len(p.navigation) }

// Navigation returns the actions in display order.
func (p *Page) Navigation() []*Action {
	nav := make([]*Action, len(p.navigation))
	copy(nav, p.navigation)
	return nav
}

// Commands returns the command numbers a user can enter.
func (p *Page) Commands(offset int) []int {
	cmds := make([]int, len(p.navigation))
	for i := range p.navigation {
		cmds[i] = i + offset
	}
	return cmds
}

// Append adds an action at the end.
func (p *Page) Append(a *Action) { p.navigation = append(p.navigation, a) }

// ClearNav removes every action.
func (p *Page) ClearNav() { p.navigation = p.navigation[:0:0] }
