package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"pdf_assembler/menu"
	"pdf_assembler/pagerange"
	"pdf_assembler/pdf"
)

var (
	// YesResponses answer a yes/no question with yes.
	YesResponses = []string{"Y", "YES"}

	// NoResponses answer a yes/no question with no.
	NoResponses = []string{"N", "NO"}
)

const (
	rangeExample    = `Example: "1-4, 6, 10-12"`
	wrongRangeHint  = "Selected page[s] are out of range."
	yesNoHint       = `Please answer "Y" or "N".`
	pageConvertHint = `Please select a page by entering its page number (e.g. "1").`
	pageRangeHint   = "Please enter a number from the list above."
)

func (e *Editor) promptYesNo(question string) (bool, error) {
	responses := slices.Concat(YesResponses, NoResponses)
	loop := menu.NewChoiceLoop(e.console, question, responses...)
	loop.SetWrongResponseMsgs("", yesNoHint)

	answer, err := loop.Run()
	if err != nil {
		return false, err
	}
	return slices.Contains(YesResponses, answer), nil
}

// promptPageSelect asks for one of the current pages and returns its display
// number and index.
func (e *Editor) promptPageSelect(prompt string) (int, int, error) {
	offset := e.app.Offset()
	pagesCmd := "Current Pages:\n" + e.pagesCommands()

	loop := menu.NewIntLoop(e.console, prompt)
	loop.SetExpectedRange(offset, e.manager.Len()+offset)
	loop.SetConvertFailMsgs(pagesCmd, pageConvertHint)
	loop.SetWrongRangeMsgs(pagesCmd, pageRangeHint)

	e.console.Println(pagesCmd)
	num, err := loop.Run()
	if err != nil {
		return 0, 0, err
	}
	return num, num - offset, nil
}

// promptPaths reads PDF paths one per line until an empty line. Each line
// may be a glob pattern.
func (e *Editor) promptPaths() ([]string, error) {
	loop := menu.NewLoop[[]string](e.console, menu.ConverterFunc[[]string](expandPaths))
	loop.SetPrompt("Enter the PDF files to add, one per line. Patterns like \"scans/*.pdf\" are expanded.\n" +
		"Enter an empty line when done.")
	loop.SetConvertFailMsgs("", "Enter the path of an existing PDF file, or an empty line to finish.")

	var paths []string
	for {
		batch, err := loop.Run()
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return paths, nil
		}
		paths = append(paths, batch...)
		loop.SetPrompt(fmt.Sprintf("%d file[s] selected. Enter another file, or an empty line when done.", len(paths)))
	}
}

// expandPaths resolves one line of path input. An empty line yields no paths.
// An existing file is taken literally even when its name looks like a glob
// pattern.
func expandPaths(raw string) ([]string, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	if raw == "" {
		return nil, nil
	}

	matches := []string{raw}
	if _, err := os.Stat(raw); err != nil {
		if !strings.ContainsAny(raw, "*?[") {
			return nil, err
		}
		if matches, err = filepath.Glob(raw); err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", raw, os.ErrNotExist)
		}
	}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", m)
		}
		if err := pdf.CheckPDFFile(m); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// pageNumbers maps displayed page numbers to 1-based page numbers.
func pageNumbers(sel pagerange.Selection, offset int) pagerange.Selection {
	if sel.IsAll() || offset == 1 {
		return sel
	}
	idx := sel.Indices(offset)
	for i := range idx {
		idx[i]++
	}
	return pagerange.Of(idx...)
}

// isPermutation reports whether sel lists each of n displayed numbers once.
func isPermutation(sel pagerange.Selection, n, offset int) bool {
	if sel.IsAll() || sel.Len() != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range sel.Indices(offset) {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
