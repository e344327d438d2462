package pdf

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AutoDimension marks a dimension that follows the aspect ratio in ParseTarget input.
const AutoDimension = "_"

var (
	// ErrInvalidMargin is returned by ParseMargin.
	ErrInvalidMargin = errors.New(`margin must be four whole numbers "left, bottom, right, top"`)

	// ErrInvalidTarget is returned by ParseTarget.
	ErrInvalidTarget = errors.New(`dimensions must be "width, height" with "_" for at most one of them`)

	// ErrPageOutOfRange is returned when a page number does not exist in a document.
	ErrPageOutOfRange = errors.New("page out of range")
)

var whitespace = regexp.MustCompile(`\s`)

func splitFields(s string) []string {
	return strings.Split(whitespace.ReplaceAllString(s, ""), ",")
}

// ParseMargin parses "left, bottom, right, top", e.g. "50, 100, 50, 0".
func ParseMargin(s string) (Margin, error) {
	fields := splitFields(s)
	if len(fields) != 4 {
		return Margin{}, fmt.Errorf("%w: got %d values", ErrInvalidMargin, len(fields))
	}

	var v [4]float64
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Margin{}, fmt.Errorf("%w: %q", ErrInvalidMargin, f)
		}
		v[i] = float64(n)
	}
	return Margin{Left: v[0], Bottom: v[1], Right: v[2], Top: v[3]}, nil
}

// ParseTarget parses "width, height" where one side may be "_" to keep the
// aspect ratio, e.g. "100, 150", "_, 500" or "123, _".
func ParseTarget(s string) (Dims, error) {
	fields := splitFields(s)
	if len(fields) != 2 {
		return Dims{}, fmt.Errorf("%w: got %d values", ErrInvalidTarget, len(fields))
	}

	var v [2]float64
	for i, f := range fields {
		if f == AutoDimension {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return Dims{}, fmt.Errorf("%w: %q", ErrInvalidTarget, f)
		}
		v[i] = float64(n)
	}
	if v[0] == 0 && v[1] == 0 {
		return Dims{}, ErrInvalidTarget
	}
	return Dims{Width: v[0], Height: v[1]}, nil
}

// ValidatePageNumbers checks if all page numbers are valid for a given total number of pages
func ValidatePageNumbers(pages []int, totalPages int) error {
	for _, page := range pages {
		if page < 1 {
			return fmt.Errorf("%w: page numbers must be positive, got %d", ErrPageOutOfRange, page)
		}
		if page > totalPages {
			return fmt.Errorf("%w: page %d exceeds total pages (%d)", ErrPageOutOfRange, page, totalPages)
		}
	}
	return nil
}
