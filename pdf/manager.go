// Package pdf holds the pages being assembled and writes them out through an
// Engine.
//
// A Manager keeps two parallel lists: the working pages, which crop and scale
// edit, and the pages as they were added, which reset restores from. Pages are
// values, so the two lists never share state.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pdf_assembler/pagerange"
)

var (
	// ErrStructural marks a request that is inconsistent with the current pages,
	// such as a reorder that is not a permutation. It indicates caller misuse.
	ErrStructural = errors.New("invalid page operation")

	// ErrNotPDF is returned for files whose content is not PDF.
	ErrNotPDF = errors.New("not a PDF file")
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	TempDir  string
	Optimize bool // optimize documents written by SaveAs
	Logger   logrus.FieldLogger
}

// Manager combines and edits pages from several documents.
type Manager struct {
	engine    Engine
	pages     []Page
	originals []Page

	tempDir  string
	optimize bool
	preview  string
	log      logrus.FieldLogger
}

// NewManager returns an empty manager writing through engine.
func NewManager(engine Engine, opts ManagerOptions) *Manager {
	m := &Manager{
		engine:   engine,
		tempDir:  opts.TempDir,
		optimize: opts.Optimize,
		log:      opts.Logger,
	}
	if m.tempDir == "" {
		m.tempDir = os.TempDir()
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	return m
}

// Len returns the number of working pages.
func (m *Manager) Len() int { return len(m.pages) }

// Pages returns a copy of the working pages.
func (m *Manager) Pages() []Page {
	out := make([]Page, len(m.pages))
	copy(out, m.pages)
	return out
}

// Page returns the working page at index i.
func (m *Manager) Page(i int) (Page, error) {
	if err := m.checkIndex(i); err != nil {
		return Page{}, err
	}
	return m.pages[i], nil
}

// PdfPageCount returns the number of pages of the document at path.
func (m *Manager) PdfPageCount(path string) (int, error) {
	return m.engine.PageCount(path)
}

// AddPDF appends the selected pages of the document at path, in selection
// order and including duplicates. The all selection adds every page.
func (m *Manager) AddPDF(path string, sel pagerange.Selection) error {
	boxes, err := m.engine.PageBoxes(path)
	if err != nil {
		return err
	}

	numbers := sel.Pages()
	if sel.IsAll() {
		numbers = make([]int, len(boxes))
		for i := range boxes {
			numbers[i] = i + 1
		}
	} else if err := ValidatePageNumbers(numbers, len(boxes)); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	for _, n := range numbers {
		p := NewPage(path, n, boxes[n-1])
		m.pages = append(m.pages, p)
		m.originals = append(m.originals, p)
	}

	m.log.WithFields(logrus.Fields{
		"op":    "add",
		"path":  path,
		"pages": len(numbers),
	}).Debug("pages added")
	return nil
}

// PopPages removes the pages at indices. Duplicate indices are ignored.
func (m *Manager) PopPages(indices []int) error {
	remove := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if err := m.checkIndex(i); err != nil {
			return err
		}
		remove[i] = struct{}{}
	}

	for i := len(m.pages) - 1; i >= 0; i-- {
		if _, ok := remove[i]; !ok {
			continue
		}
		m.pages = append(m.pages[:i], m.pages[i+1:]...)
		m.originals = append(m.originals[:i], m.originals[i+1:]...)
	}
	return nil
}

// Rearrange reorders the pages so that new position k holds old page order[k].
// order must be a permutation of every index.
func (m *Manager) Rearrange(order []int) ([]Page, error) {
	if len(order) != len(m.pages) {
		return nil, fmt.Errorf("%w: order has %d entries for %d pages", ErrStructural, len(order), len(m.pages))
	}
	seen := make(map[int]struct{}, len(order))
	for _, i := range order {
		if err := m.checkIndex(i); err != nil {
			return nil, err
		}
		if _, dup := seen[i]; dup {
			return nil, fmt.Errorf("%w: page index %d repeated", ErrStructural, i)
		}
		seen[i] = struct{}{}
	}

	pages := make([]Page, len(order))
	originals := make([]Page, len(order))
	for k, i := range order {
		pages[k] = m.pages[i]
		originals[k] = m.originals[i]
	}
	m.pages, m.originals = pages, originals
	return m.Pages(), nil
}

// ResetPage restores page i to the state it was added in.
func (m *Manager) ResetPage(i int) error {
	if err := m.checkIndex(i); err != nil {
		return err
	}
	m.pages[i] = m.originals[i]
	return nil
}

// PageDims returns the current dimensions of page i.
func (m *Manager) PageDims(i int) (Dims, error) {
	if err := m.checkIndex(i); err != nil {
		return Dims{}, err
	}
	return m.pages[i].Dims(), nil
}

// Crop crops page i by margin and returns the margin that undoes it.
// A margin leaving no visible area is refused and the page is unchanged.
func (m *Manager) Crop(i int, margin Margin) (Margin, error) {
	if err := m.checkIndex(i); err != nil {
		return Margin{}, err
	}
	p := m.pages[i]
	inverse := p.Crop(margin)
	if !p.Box.Valid() {
		return Margin{}, fmt.Errorf("%w: margin %v leaves no visible area on a %s page",
			ErrStructural, margin, m.pages[i].Dims())
	}
	m.pages[i] = p
	return inverse, nil
}

// ScaleTo scales page i to target and returns its previous dimensions.
func (m *Manager) ScaleTo(i int, target Dims) (Dims, error) {
	if err := m.checkIndex(i); err != nil {
		return Dims{}, err
	}
	p := m.pages[i]
	prev, err := p.ScaleTo(target)
	if err != nil {
		return Dims{}, err
	}
	m.pages[i] = p
	return prev, nil
}

// Preview writes the pages at indices, or all pages when indices is nil, to a
// temp file and opens it in the user's viewer. It returns the file path.
func (m *Manager) Preview(ctx context.Context, indices []int) (string, error) {
	pages := m.pages
	if indices != nil {
		pages = make([]Page, 0, len(indices))
		for _, i := range indices {
			if err := m.checkIndex(i); err != nil {
				return "", err
			}
			pages = append(pages, m.pages[i])
		}
	}

	if m.preview == "" {
		if err := os.MkdirAll(m.tempDir, DefaultFilePermissions); err != nil {
			return "", fmt.Errorf("failed to create temp directory: %w", err)
		}
		m.preview = filepath.Join(m.tempDir, PreviewFilePrefix+uuid.NewString()+".pdf")
	}

	if err := m.engine.Write(ctx, pages, m.preview); err != nil {
		return "", err
	}
	if err := m.engine.Open(ctx, m.preview); err != nil {
		return m.preview, err
	}
	return m.preview, nil
}

// SaveAs writes the working pages to path.
func (m *Manager) SaveAs(ctx context.Context, path string) error {
	if !m.optimize {
		return m.engine.Write(ctx, m.pages, path)
	}

	tmp := filepath.Join(m.tempDir, "unoptimized_"+uuid.NewString()+".pdf")
	defer os.Remove(tmp)
	if err := m.engine.Write(ctx, m.pages, tmp); err != nil {
		return err
	}
	return ResavePDF(m.engine, tmp, path)
}

// Open shows the document at path in the user's viewer.
func (m *Manager) Open(ctx context.Context, path string) error {
	return m.engine.Open(ctx, path)
}

// Reset drops every page.
func (m *Manager) Reset() {
	m.pages = nil
	m.originals = nil
}

// Close drops every page and removes the preview file.
func (m *Manager) Close() error {
	m.Reset()
	if m.preview == "" {
		return nil
	}
	err := os.Remove(m.preview)
	m.preview = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (m *Manager) checkIndex(i int) error {
	if i < 0 || i >= len(m.pages) {
		return fmt.Errorf("%w: page index %d not in [0, %d)", ErrStructural, i, len(m.pages))
	}
	return nil
}
