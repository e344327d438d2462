package pdf

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Box is a rectangle in PDF user space, in points.
type Box struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// Width returns the horizontal extent of b.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of b.
func (b Box) Height() float64 { return b.Top - b.Bottom }

// Valid reports whether b has a positive area.
func (b Box) Valid() bool { return b.Width() > 0 && b.Height() > 0 }

// Dims are page dimensions in points. As a scale target a zero dimension
// means "keep the aspect ratio".
type Dims struct {
	Width  float64
	Height float64
}

func (d Dims) String() string {
	return fmt.Sprintf("(%s, %s)", formatPoints(d.Width), formatPoints(d.Height))
}

// Box returns a box of size d with its lower left corner at the origin.
func (d Dims) Box() Box { return Box{Right: d.Width, Top: d.Height} }

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Margin is the amount to crop from each side of a page.
type Margin struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// Inverse returns the margin that undoes m.
func (m Margin) Inverse() Margin {
	return Margin{Left: -m.Left, Bottom: -m.Bottom, Right: -m.Right, Top: -m.Top}
}

// Page is one page taken from a source document together with its edits.
// Page holds no references, so copies are independent snapshots.
//
// Box is relative to the lower left corner of Bounds, so edits never depend
// on where the source page sits in its user space.
type Page struct {
	Source string
	Number int // 1-based page number in Source
	Bounds Box // visible area of the unedited source page, in source user space

	Box    Box
	ScaleX float64
	ScaleY float64
}

// NewPage returns an unedited page showing bounds of its source.
func NewPage(source string, number int, bounds Box) Page {
	return Page{
		Source: source,
		Number: number,
		Bounds: bounds,
		Box:    Box{Right: bounds.Width(), Top: bounds.Height()},
		ScaleX: 1,
		ScaleY: 1,
	}
}

// Filename returns the base name of the source document.
func (p Page) Filename() string { return filepath.Base(p.Source) }

// Dims returns the current page dimensions.
func (p Page) Dims() Dims {
	return Dims{Width: p.Box.Width(), Height: p.Box.Height()}
}

// Crop moves each side of the page box inwards by m and returns the margin
// that undoes it.
func (p *Page) Crop(m Margin) Margin {
	p.Box.Left += m.Left
	p.Box.Bottom += m.Bottom
	p.Box.Right -= m.Right
	p.Box.Top -= m.Top
	return m.Inverse()
}

// ScaleTo stretches or shrinks the page to target and returns the dimensions
// it had before. A zero target dimension follows the other one so that the
// aspect ratio is kept.
func (p *Page) ScaleTo(target Dims) (Dims, error) {
	prev := p.Dims()
	if prev.Width == 0 || prev.Height == 0 {
		return prev, fmt.Errorf("%w: cannot scale a page with dimensions %s", ErrStructural, prev)
	}
	if target.Width < 0 || target.Height < 0 {
		return prev, fmt.Errorf("%w: negative scale target %s", ErrStructural, target)
	}

	var fx, fy float64
	switch {
	case target.Width == 0 && target.Height == 0:
		return prev, fmt.Errorf("%w: scale target needs at least one dimension", ErrStructural)
	case target.Width == 0:
		fx = target.Height / prev.Height
		fy = fx
	case target.Height == 0:
		fx = target.Width / prev.Width
		fy = fx
	default:
		fx = target.Width / prev.Width
		fy = target.Height / prev.Height
	}

	p.Box = Box{
		Left:   p.Box.Left * fx,
		Bottom: p.Box.Bottom * fy,
		Right:  p.Box.Right * fx,
		Top:    p.Box.Top * fy,
	}
	p.ScaleX *= fx
	p.ScaleY *= fy
	return prev, nil
}

// Scaled reports whether the page size differs from its source.
func (p Page) Scaled() bool { return p.ScaleX != 1 || p.ScaleY != 1 }

// Cropped reports whether the visible area differs from the whole source page.
func (p Page) Cropped() bool {
	return p.SourceBox() != Box{Right: p.Bounds.Width(), Top: p.Bounds.Height()}
}

// SourceBox returns the visible box in the coordinates of the source page.
func (p Page) SourceBox() Box {
	return Box{
		Left:   p.Box.Left / p.ScaleX,
		Bottom: p.Box.Bottom / p.ScaleY,
		Right:  p.Box.Right / p.ScaleX,
		Top:    p.Box.Top / p.ScaleY,
	}
}

// CropBox returns the visible box in the user space of the source document,
// ready to be written as the page's CropBox.
func (p Page) CropBox() Box {
	src := p.SourceBox()
	return Box{
		Left:   p.Bounds.Left + src.Left,
		Bottom: p.Bounds.Bottom + src.Bottom,
		Right:  p.Bounds.Left + src.Right,
		Top:    p.Bounds.Bottom + src.Top,
	}
}

// Label identifies the page for display, e.g. "'a.pdf' (pg.3)".
func (p Page) Label() string {
	return fmt.Sprintf("'%s' (pg.%d)", p.Filename(), p.Number)
}
