package pdf

import (
	"context"
	"fmt"

	"pdf_assembler/pagerange"
)

// RemovePagesFromPDF writes inFile to outFile without the pages named by the
// range expression pages. Repeated page numbers are removed once.
func RemovePagesFromPDF(ctx context.Context, eng Engine, inFile, outFile, pages string) error {
	sel, err := pagerange.Parse(pages)
	if err != nil {
		return err
	}
	if sel.IsAll() {
		return fmt.Errorf("%w: cannot remove every page", ErrStructural)
	}

	m := NewManager(eng, ManagerOptions{})
	if err := m.AddPDF(inFile, pagerange.All()); err != nil {
		return err
	}

	numbers := sel.Unique().Pages()
	if err := ValidatePageNumbers(numbers, m.Len()); err != nil {
		return err
	}
	if len(numbers) == m.Len() {
		return fmt.Errorf("%w: cannot remove every page", ErrStructural)
	}

	if err := m.PopPages(pagerange.Of(numbers...).Indices(1)); err != nil {
		return err
	}
	return m.SaveAs(ctx, outFile)
}

// SelectPagesFromPDF writes the pages named by the range expression pages, in
// that order and including repeats, from inFile to outFile.
func SelectPagesFromPDF(ctx context.Context, eng Engine, inFile, outFile, pages string) error {
	sel, err := pagerange.Parse(pages)
	if err != nil {
		return err
	}

	m := NewManager(eng, ManagerOptions{})
	if err := m.AddPDF(inFile, sel); err != nil {
		return err
	}
	if m.Len() == 0 {
		return fmt.Errorf("%w: selection %q names no pages", ErrStructural, pages)
	}
	return m.SaveAs(ctx, outFile)
}
