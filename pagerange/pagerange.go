// Package pagerange parses page range expressions such as "1-4, 6, 10-12".
//
// An expression is a comma separated list of page numbers and inclusive
// "a-b" ranges. Whitespace is ignored and empty segments are skipped. An empty
// expression or the word "all" selects every page.
package pagerange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNumber is returned when a token is not a base-10 integer.
	ErrInvalidNumber = errors.New("not a page number")

	// ErrInvalidRange is returned when a segment has more than one hyphen or a missing bound.
	ErrInvalidRange = errors.New("range must have the form a-b")
)

var whitespace = regexp.MustCompile(`\s`)

// ParseError describes the segment of an expression that could not be parsed.
type ParseError struct {
	Segment string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid page range %q: %v", e.Segment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts a range expression into a Selection.
// Pages keep the order they are written in and duplicates are kept.
// A range whose first bound is larger than the second expands to nothing.
func Parse(text string) (Selection, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "all") {
		return All(), nil
	}

	text = whitespace.ReplaceAllString(text, "")

	pages := []int{}
	for _, segment := range strings.Split(text, ",") {
		if segment == "" {
			continue
		}

		bounds := strings.Split(segment, "-")
		nums := make([]int, 0, len(bounds))
		for _, token := range bounds {
			n, err := strconv.Atoi(token)
			if err != nil {
				return Selection{}, &ParseError{Segment: segment, Err: ErrInvalidNumber}
			}
			nums = append(nums, n)
		}

		switch len(nums) {
		case 1:
			pages = append(pages, nums[0])
		case 2:
			for p := nums[0]; p <= nums[1]; p++ {
				pages = append(pages, p)
			}
		default:
			return Selection{}, &ParseError{Segment: segment, Err: ErrInvalidRange}
		}
	}

	return Of(pages...), nil
}

// MustParse is like Parse but panics on error. Intended for literals in tests and tables.
func MustParse(text string) Selection {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}
