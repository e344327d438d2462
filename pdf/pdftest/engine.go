// Package pdftest provides an in-memory pdf.Engine for tests.
package pdftest

import (
	"context"
	"fmt"
	"os"
	"sync"

	"pdf_assembler/pdf"
)

// Header is written to every file the fake engine produces.
const Header = "%PDF-1.7\n%%EOF\n"

// Engine is a pdf.Engine that records calls instead of touching PDF content.
// Documents are registered with AddDoc or AddDocBoxes; paths not registered
// fall back to Default when the file exists on disk.
type Engine struct {
	mu sync.Mutex

	Docs    map[string][]pdf.Box
	Default []pdf.Dims

	Written   map[string][]pdf.Page
	Optimized map[string]string // output path to input path
	Opened    []string

	WriteErr error
	OpenErr  error
}

// NewEngine returns an engine with no documents.
func NewEngine() *Engine {
	return &Engine{
		Docs:      make(map[string][]pdf.Box),
		Written:   make(map[string][]pdf.Page),
		Optimized: make(map[string]string),
	}
}

// AddDoc registers a document at path with one entry per page. Every page
// starts at the origin.
func (e *Engine) AddDoc(path string, dims ...pdf.Dims) {
	boxes := make([]pdf.Box, len(dims))
	for i, d := range dims {
		boxes[i] = d.Box()
	}
	e.AddDocBoxes(path, boxes...)
}

// AddDocBoxes registers a document at path whose pages show boxes.
func (e *Engine) AddDocBoxes(path string, boxes ...pdf.Box) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Docs[path] = boxes
}

func (e *Engine) lookup(path string) ([]pdf.Box, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.Docs[path]; ok {
		return b, nil
	}
	if e.Default != nil {
		if _, err := os.Stat(path); err == nil {
			boxes := make([]pdf.Box, len(e.Default))
			for i, d := range e.Default {
				boxes[i] = d.Box()
			}
			return boxes, nil
		}
	}
	return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
}

// PageCount implements pdf.Engine.
func (e *Engine) PageCount(path string) (int, error) {
	d, err := e.lookup(path)
	return len(d), err
}

// PageBoxes implements pdf.Engine.
func (e *Engine) PageBoxes(path string) ([]pdf.Box, error) {
	b, err := e.lookup(path)
	if err != nil {
		return nil, err
	}
	out := make([]pdf.Box, len(b))
	copy(out, b)
	return out, nil
}

// Write records pages under out and writes a minimal PDF header there.
func (e *Engine) Write(_ context.Context, pages []pdf.Page, out string) error {
	if e.WriteErr != nil {
		return e.WriteErr
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages to write", pdf.ErrStructural)
	}
	if err := os.WriteFile(out, []byte(Header), 0o644); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	p := make([]pdf.Page, len(pages))
	copy(p, pages)
	e.Written[out] = p
	return nil
}

// Optimize copies in to out and records the pair.
func (e *Engine) Optimize(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.Optimized[out] = in
	if pages, ok := e.Written[in]; ok {
		e.Written[out] = pages
	}
	return nil
}

// Open records path.
func (e *Engine) Open(_ context.Context, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Opened = append(e.Opened, path)
	return e.OpenErr
}

// Pages returns the pages last written to out.
func (e *Engine) Pages(out string) []pdf.Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Written[out]
}
