package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdf_assembler/menu"
	"pdf_assembler/pagerange"
	"pdf_assembler/pdf"
)

// addFiles lets the user pick PDF files, and optionally their pages, and
// appends them to the manager.
func (e *Editor) addFiles() error {
	custom, err := e.promptYesNo("Choose which pages to add? (Y/N)")
	if err != nil {
		return err
	}
	paths, err := e.promptPaths()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		e.status(e.style.cancel, "ADD FILES CANCELED.")
		return nil
	}

	offset := e.app.Offset()
	var loop *menu.Loop[pagerange.Selection]
	if custom {
		failure := "FAILED TO ADD PAGES."
		loop = menu.NewSelectionLoop(e.console, "")
		loop.SetWrongRangeMsgs(failure, wrongRangeHint)
		loop.SetConvertFailMsgs(failure, "")
	}

	for _, path := range paths {
		sel := pagerange.All()
		if custom {
			total, err := e.manager.PdfPageCount(path)
			if err != nil {
				return err
			}
			loop.SetPrompt(fmt.Sprintf("CUSTOMIZING PAGES TO ADD FROM\n'%s'\n\tTotal pages: %d\n\n"+
				"To select all pages enter an empty input or \"all\".\n%s\n", path, total, rangeExample))
			loop.SetExpectedRange(offset, total+offset)

			if sel, err = loop.Run(); err != nil {
				return err
			}
		}

		if err := e.manager.AddPDF(path, pageNumbers(sel, offset)); err != nil {
			return err
		}
		e.status(e.style.success, fmt.Sprintf("SUCCESSFULLY ADDED PAGES FROM '%s'.", filepath.Base(path)))
	}
	return nil
}

func (e *Editor) cropPage() error {
	if e.manager.Len() == 0 {
		e.console.Println("There are no pages to crop.")
		return nil
	}

	num, idx, err := e.promptPageSelect("Select a page to crop.")
	if err != nil {
		return err
	}
	page, err := e.manager.Page(idx)
	if err != nil {
		return err
	}

	loop := menu.NewLoop[pdf.Margin](e.console, menu.ConverterFunc[pdf.Margin](pdf.ParseMargin))
	loop.SetPrompt(fmt.Sprintf("CROPPING PAGE %d.\n\tInformation: %s\n\tCurrent Dimensions: %s\n\n"+
		"Enter the amount to crop from each side (\"left, bottom, right, top\").\n"+
		"Example: \"50, 100, 50, 0\"", num, page.Label(), page.Dims()))
	loop.SetConvertFailMsgs("", "Enter four whole numbers separated by commas.")
	loop.SetExpectedResponses(func(m pdf.Margin) bool {
		p := page
		p.Crop(m)
		return p.Box.Valid()
	})
	loop.SetWrongResponseMsgs("", "The crop leaves no visible area on the page.")

	margin, err := loop.Run()
	if err != nil {
		return err
	}
	if _, err := e.manager.Crop(idx, margin); err != nil {
		return err
	}

	dims, _ := e.manager.PageDims(idx)
	e.status(e.style.success, fmt.Sprintf("SUCCESSFULLY CROPPED PAGE %d.", num),
		fmt.Sprintf("\tNew Dimensions: %s", dims))
	return nil
}

func (e *Editor) scalePage() error {
	if e.manager.Len() == 0 {
		e.console.Println("There are no pages to scale.")
		return nil
	}

	num, idx, err := e.promptPageSelect("Select a page to scale.")
	if err != nil {
		return err
	}
	page, err := e.manager.Page(idx)
	if err != nil {
		return err
	}

	loop := menu.NewLoop[pdf.Dims](e.console, menu.ConverterFunc[pdf.Dims](pdf.ParseTarget))
	loop.SetPrompt(fmt.Sprintf("SCALING PAGE %d.\n\tInformation: %s\n\tCurrent Dimensions: %s\n\n"+
		"Enter the dimension to scale page to (\"width, height\").\n"+
		"Note: \"%s\" automatically scales dimension to lock aspect ratio.\n"+
		"Examples: \"100, 150\", \"_, 500\", \"123, _\"", num, page.Label(), page.Dims(), pdf.AutoDimension))
	loop.SetConvertFailMsgs("", "Enter two positive whole numbers, at most one of them \"_\".")

	target, err := loop.Run()
	if err != nil {
		return err
	}
	if _, err := e.manager.ScaleTo(idx, target); err != nil {
		return err
	}

	dims, _ := e.manager.PageDims(idx)
	e.status(e.style.success, fmt.Sprintf("SUCCESSFULLY SCALED PAGE %d.", num),
		fmt.Sprintf("\tNew Dimensions: %s", dims))
	return nil
}

func (e *Editor) resetPage() error {
	if e.manager.Len() == 0 {
		e.console.Println("There are no pages to reset.")
		return nil
	}

	num, idx, err := e.promptPageSelect("Select a page to reset.")
	if err != nil {
		return err
	}
	page, err := e.manager.Page(idx)
	if err != nil {
		return err
	}

	confirm, err := e.promptYesNo(fmt.Sprintf("RESETTING PAGE %d.\n\tInformation: %s\n\n"+
		"Are you sure you want to reset all changes done to this page. (Y/N)\n"+
		"\"Y\" to RESET.\n\"N\" to CANCEL.", num, page.Label()))
	if err != nil {
		return err
	}
	if !confirm {
		e.status(e.style.cancel, "RESET CANCELED.")
		return nil
	}

	if err := e.manager.ResetPage(idx); err != nil {
		return err
	}
	dims, _ := e.manager.PageDims(idx)
	e.status(e.style.success, fmt.Sprintf("SUCCESSFULLY RESET PAGE %d.", num),
		fmt.Sprintf("\tRestored Dimensions: %s", dims))
	return nil
}

func (e *Editor) removePages() error {
	if e.manager.Len() == 0 {
		e.console.Println("There are no pages to remove.")
		return nil
	}

	offset := e.app.Offset()
	failure := "Current Pages:" + e.pagesList(nil) + "\n\nFAILED TO REMOVE PAGES."
	loop := menu.NewSelectionLoop(e.console, "Select pages to remove.\n"+rangeExample)
	loop.SetWrongRangeMsgs(failure, wrongRangeHint)
	loop.SetConvertFailMsgs(failure, "")
	loop.SetExpectedRange(offset, e.manager.Len()+offset)

	e.console.Printf("Current Pages:%s\n\n", e.pagesList(nil))
	sel, err := loop.Run()
	if err != nil {
		return err
	}

	var indices []int
	if sel.IsAll() {
		for i := range e.manager.Len() {
			indices = append(indices, i)
		}
	} else {
		indices = sel.Unique().Indices(offset)
	}
	if len(indices) == 0 {
		e.status(e.style.cancel, "NO PAGES SELECTED. REMOVE CANCELED.")
		return nil
	}

	confirm, err := e.promptYesNo("REMOVING PAGES" + e.pagesList(indices) + "\n\n" +
		"Are you sure you want to remove these pages. (Y/N)\n" +
		"\"Y\" to REMOVE.\n\"N\" to CANCEL.")
	if err != nil {
		return err
	}
	if !confirm {
		e.status(e.style.cancel, "REMOVE CANCELED.")
		return nil
	}

	if err := e.manager.PopPages(indices); err != nil {
		return err
	}
	shown := make([]int, len(indices))
	for i, idx := range indices {
		shown[i] = idx + offset
	}
	e.status(e.style.success, fmt.Sprintf("PAGES %s REMOVED.", pagerange.Of(shown...)))
	return nil
}

func (e *Editor) reorderPages() error {
	if e.manager.Len() < 2 {
		e.console.Println("There are not enough pages to reorder.")
		return nil
	}

	offset, n := e.app.Offset(), e.manager.Len()
	loop := menu.NewSelectionLoop(e.console, "Enter the new order of the pages. Every page must appear exactly once.\n"+
		fmt.Sprintf("Example: \"%d, %d-%d\" moves the last page to the front.", n-1+offset, offset, n-2+offset))
	loop.SetExpectedResponses(func(s pagerange.Selection) bool { return isPermutation(s, n, offset) })
	loop.SetWrongResponseMsgs("", fmt.Sprintf("Every page number from %d to %d must appear exactly once.", offset, n-1+offset))
	loop.SetConvertFailMsgs("", rangeExample)

	e.console.Printf("Current Pages:%s\n\n", e.pagesList(nil))
	sel, err := loop.Run()
	if err != nil {
		return err
	}
	if _, err := e.manager.Rearrange(sel.Indices(offset)); err != nil {
		return err
	}
	e.status(e.style.success, "PAGES REORDERED.", "Current Pages:"+e.pagesList(nil))
	return nil
}

func (e *Editor) previewPDF() error {
	if e.manager.Len() == 0 {
		e.console.Println("There are no pages to preview.")
		return nil
	}
	if _, err := e.manager.Preview(e.ctx, nil); err != nil {
		return err
	}
	e.status(e.style.success, "PREVIEW OPENED.")
	return nil
}

// saveAs writes the pages to a path the user enters, then starts a new session.
func (e *Editor) saveAs() error {
	if e.manager.Len() == 0 {
		e.console.Println("There are no pages to save.")
		return nil
	}

	loop := menu.NewTextLoop(e.console, "Enter the path to save the PDF to (\".pdf\" is added when missing).\n"+
		"Enter an empty line to cancel.")
	raw, err := loop.Run()
	if err != nil {
		return err
	}
	path := strings.Trim(strings.TrimSpace(raw), `"'`)
	if path == "" {
		e.status(e.style.cancel, "SAVE CANCELED.")
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		path += ".pdf"
	}

	if _, err := os.Stat(path); err == nil {
		overwrite, err := e.promptYesNo(fmt.Sprintf("'%s' already exists. Overwrite it? (Y/N)", path))
		if err != nil {
			return err
		}
		if !overwrite {
			e.status(e.style.cancel, "SAVE CANCELED.")
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := e.manager.SaveAs(e.ctx, path); err != nil {
		return err
	}
	e.status(e.style.success, fmt.Sprintf("SUCCESSFULLY SAVED '%s'.", path))

	open, err := e.promptYesNo("Open created PDF? (Y/N)")
	if err != nil {
		return err
	}
	e.manager.Reset()
	if open {
		if err := e.manager.Open(e.ctx, path); err != nil {
			return err
		}
		e.status(e.style.success, fmt.Sprintf("%s OPENED.", filepath.Base(path)))
	}
	return nil
}
