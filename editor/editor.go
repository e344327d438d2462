// Package editor is the interactive PDF assembler: a start menu for loading
// documents and an edit menu for working on the loaded pages.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"pdf_assembler/menu"
	"pdf_assembler/pagerange"
	"pdf_assembler/pdf"
)

// AppName is shown in every menu header.
const AppName = "PDF Editor"

// ErrExit is returned by the exit action to end the session.
var ErrExit = errors.New("exit requested")

// Editor wires the page manager to the menus.
type Editor struct {
	ctx     context.Context
	console *menu.Console
	manager *pdf.Manager
	log     logrus.FieldLogger
	style   styles

	app       *menu.App
	startPage *menu.Page
	editPage  *menu.Page
}

// New returns an editor reading commands from c and editing pages in m.
func New(ctx context.Context, c *menu.Console, m *pdf.Manager, log logrus.FieldLogger) *Editor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Editor{
		ctx:     ctx,
		console: c,
		manager: m,
		log:     log,
		style:   newStyles(c.Out()),
	}
	e.setupApp()
	return e
}

func (e *Editor) setupApp() {
	exit := e.action("Exit", e.exit)
	add := e.action("Add Files", e.addFiles)

	e.startPage = menu.NewPage("Start Menu", "", add, exit)
	e.editPage = menu.NewPage("Edit Menu", "",
		add,
		e.action("Crop Page", e.cropPage),
		e.action("Scale Page", e.scalePage),
		e.action("Reset Page", e.resetPage),
		e.action("Remove Pages", e.removePages),
		e.action("Reorder Pages", e.reorderPages),
		e.action("Preview PDF", e.previewPDF),
		e.action("Save As", e.saveAs),
		exit,
	)
	e.app = menu.NewApp(AppName, e.console, e.startPage)
}

// action wraps fn so that a failed operation is reported and the session
// goes on. Exit and closed input still end Run.
func (e *Editor) action(label string, fn func() error) *menu.Action {
	return menu.NewAction(label, menu.Do(func() error {
		err := fn()
		if err == nil || errors.Is(err, ErrExit) || errors.Is(err, menu.ErrInputClosed) {
			return err
		}
		e.log.WithError(err).WithField("action", label).Warn("action failed")
		e.status(e.style.failure, fmt.Sprintf("%s FAILED.", strings.ToUpper(label)), err.Error())
		return nil
	}))
}

// Run shows the menu for the current state until the user exits.
// It returns nil on exit and an error when input closes.
func (e *Editor) Run() error {
	for {
		e.updateMenu()
		if _, err := e.app.RunMenu(); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
		if err := e.console.Pause(); err != nil {
			return err
		}
	}
}

// AddPaths loads every page of each file, as if chosen from Add Files.
func (e *Editor) AddPaths(paths ...string) error {
	for _, p := range paths {
		if err := pdf.CheckPDFFile(p); err != nil {
			return err
		}
		if err := e.manager.AddPDF(p, pagerange.All()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) updateMenu() {
	if e.manager.Len() == 0 {
		e.app.SetPage(e.startPage)
		return
	}
	e.editPage.Details = "Current Pages:" + e.pagesList(nil)
	e.app.SetPage(e.editPage)
}

func (e *Editor) exit() error { return ErrExit }

// pagesList lists the pages at indices, or every page when indices is nil,
// one "\n<n>. [<label>]" entry each.
func (e *Editor) pagesList(indices []int) string {
	pages := e.manager.Pages()
	if indices == nil {
		indices = make([]int, len(pages))
		for i := range pages {
			indices[i] = i
		}
	}

	var b strings.Builder
	for _, i := range indices {
		fmt.Fprintf(&b, "\n%d. [%s]", i+e.app.Offset(), pages[i].Label())
	}
	return b.String()
}

// pagesCommands lists every page as a numbered command.
func (e *Editor) pagesCommands() string {
	var b strings.Builder
	for i, p := range e.manager.Pages() {
		fmt.Fprintf(&b, "\t[%d] %s\n", i+e.app.Offset(), p.Label())
	}
	return b.String()
}
