package pdf

import (
	"fmt"
)

// ResavePDF optimizes and compresses a PDF file
func ResavePDF(eng Engine, inFile, outFile string) error {
	if err := eng.Optimize(inFile, outFile); err != nil {
		return fmt.Errorf("resave failed: %w", err)
	}
	return nil
}
