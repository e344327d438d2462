package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf_assembler/pagerange"
)

// writeTestPDF writes a PDF with one page per entry of pageBoxes. Each entry
// holds the box entries of the page dict, e.g. "/MediaBox [0 0 200 300]".
func writeTestPDF(t *testing.T, path string, pageBoxes ...string) {
	t.Helper()

	n := len(pageBoxes)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
	}
	kids := make([]string, n)
	for i, boxes := range pageBoxes {
		pageObj := len(objects) + 1
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)
		content := "0 0 m 100 100 l S"
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << >> /Contents %d 0 R %s >>", pageObj+1, boxes),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func newTestEngine(t *testing.T) (*PdfcpuEngine, *bytes.Buffer) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	progress := &bytes.Buffer{}
	e := NewPdfcpuEngine(EngineConfig{
		TempDir:  t.TempDir(),
		Workers:  2,
		Progress: progress,
		Logger:   logger,
	})
	return e, progress
}

// boundaries reads the raw page boundaries written to path.
func boundaries(t *testing.T, e *PdfcpuEngine, path string) []model.PageBoundaries {
	t.Helper()
	ctx, err := e.readContext(path)
	require.NoError(t, err)
	pbs, err := ctx.PageBoundaries(nil)
	require.NoError(t, err)
	return pbs
}

func pageContent(t *testing.T, e *PdfcpuEngine, path string, pageNr int) string {
	t.Helper()
	ctx, err := e.readContext(path)
	require.NoError(t, err)
	d, _, _, err := ctx.PageDict(pageNr, false)
	require.NoError(t, err)
	content, err := ctx.PageContent(d, pageNr)
	require.NoError(t, err)
	return string(content)
}

func TestPdfcpuEngine_PageBoxes(t *testing.T) {
	e, _ := newTestEngine(t)
	src := filepath.Join(t.TempDir(), "src.pdf")
	writeTestPDF(t, src,
		"/MediaBox [0 0 612 792]",
		"/MediaBox [100 100 300 400]",
		"/MediaBox [0 0 600 800] /CropBox [50 60 550 900]",
	)

	n, err := e.PageCount(src)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	boxes, err := e.PageBoxes(src)
	require.NoError(t, err)
	assert.Equal(t, []Box{
		{Left: 0, Bottom: 0, Right: 612, Top: 792},
		{Left: 100, Bottom: 100, Right: 300, Top: 400},
		{Left: 50, Bottom: 60, Right: 550, Top: 800},
	}, boxes)
}

func TestPdfcpuEngine_PageBoxesMissingFile(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.PageBoxes(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPdfcpuEngine_WriteCropOffsetMediaBox(t *testing.T) {
	e, _ := newTestEngine(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTestPDF(t, src, "/MediaBox [100 100 300 400]")

	m := NewManager(e, ManagerOptions{TempDir: e.tempDir, Logger: e.log})
	require.NoError(t, m.AddPDF(src, pagerange.All()))
	_, err := m.Crop(0, Margin{Left: 10, Bottom: 20, Right: 30, Top: 40})
	require.NoError(t, err)
	require.NoError(t, m.SaveAs(context.Background(), out))

	pbs := boundaries(t, e, out)
	require.Len(t, pbs, 1)
	assert.Equal(t, Box{Left: 100, Bottom: 100, Right: 300, Top: 400}, boxOf(pbs[0].MediaBox()))
	assert.Equal(t, Box{Left: 110, Bottom: 120, Right: 270, Top: 360}, boxOf(pbs[0].CropBox()))

	boxes, err := e.PageBoxes(out)
	require.NoError(t, err)
	d, _ := m.PageDims(0)
	assert.Equal(t, d, Dims{Width: boxes[0].Width(), Height: boxes[0].Height()})
}

func TestPdfcpuEngine_WriteScale(t *testing.T) {
	e, _ := newTestEngine(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTestPDF(t, src, "/MediaBox [0 0 200 300]")

	p := NewPage(src, 1, Box{Right: 200, Top: 300})
	_, err := p.ScaleTo(Dims{Width: 400, Height: 150})
	require.NoError(t, err)
	require.NoError(t, e.Write(context.Background(), []Page{p}, out))

	pbs := boundaries(t, e, out)
	require.Len(t, pbs, 1)
	assert.Equal(t, Box{Right: 400, Top: 150}, boxOf(pbs[0].MediaBox()))
	assert.Nil(t, pbs[0].Crop)
	assert.Contains(t, pageContent(t, e, out, 1), "q 2.00000 0 0 0.50000 0.00000 0.00000 cm")
}

func TestPdfcpuEngine_WriteCropAndScaleOffsetMediaBox(t *testing.T) {
	e, _ := newTestEngine(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTestPDF(t, src, "/MediaBox [100 100 300 400]")

	boxes, err := e.PageBoxes(src)
	require.NoError(t, err)
	p := NewPage(src, 1, boxes[0])
	p.Crop(Margin{Left: 10, Bottom: 20, Right: 30, Top: 40})
	_, err = p.ScaleTo(Dims{Width: 320})
	require.NoError(t, err)
	require.NoError(t, e.Write(context.Background(), []Page{p}, out))

	pbs := boundaries(t, e, out)
	require.Len(t, pbs, 1)
	assert.Equal(t, Box{Right: 320, Top: 480}, boxOf(pbs[0].MediaBox()))
	assert.Nil(t, pbs[0].Crop)
	assert.Contains(t, pageContent(t, e, out, 1), "q 2.00000 0 0 2.00000 -220.00000 -240.00000 cm")
}

func TestPdfcpuEngine_WriteMerge(t *testing.T) {
	e, progress := newTestEngine(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTestPDF(t, a, "/MediaBox [0 0 612 792]", "/MediaBox [0 0 595 842]")
	writeTestPDF(t, b, "/MediaBox [100 100 300 400]")

	aBoxes, err := e.PageBoxes(a)
	require.NoError(t, err)
	bBoxes, err := e.PageBoxes(b)
	require.NoError(t, err)

	cropped := NewPage(b, 1, bBoxes[0])
	cropped.Crop(Margin{Left: 50})
	pages := []Page{
		NewPage(a, 2, aBoxes[1]),
		cropped,
		NewPage(a, 1, aBoxes[0]),
		NewPage(a, 2, aBoxes[1]),
	}
	require.NoError(t, e.Write(context.Background(), pages, out))

	n, err := e.PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	boxes, err := e.PageBoxes(out)
	require.NoError(t, err)
	assert.Equal(t, []Box{
		{Right: 595, Top: 842},
		{Left: 150, Bottom: 100, Right: 300, Top: 400},
		{Right: 612, Top: 792},
		{Right: 595, Top: 842},
	}, boxes)

	assert.NotZero(t, progress.Len())
	entries, err := os.ReadDir(e.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPdfcpuEngine_WriteErrors(t *testing.T) {
	e, _ := newTestEngine(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	writeTestPDF(t, src, "/MediaBox [0 0 200 300]")
	page := NewPage(src, 1, Box{Right: 200, Top: 300})

	err := e.Write(context.Background(), nil, filepath.Join(dir, "out.pdf"))
	assert.ErrorIs(t, err, ErrStructural)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = e.Write(ctx, []Page{page, page}, filepath.Join(dir, "out.pdf"))
	assert.ErrorIs(t, err, context.Canceled)

	missing := NewPage(filepath.Join(dir, "missing.pdf"), 1, Box{Right: 200, Top: 300})
	err = e.Write(context.Background(), []Page{missing}, filepath.Join(dir, "out.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'missing.pdf' (pg.1)")
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestPdfcpuEngine_Optimize(t *testing.T) {
	e, _ := newTestEngine(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTestPDF(t, src, "/MediaBox [0 0 200 300]", "/MediaBox [0 0 300 200]")

	require.NoError(t, e.Optimize(src, out))

	boxes, err := e.PageBoxes(out)
	require.NoError(t, err)
	assert.Equal(t, []Box{{Right: 200, Top: 300}, {Right: 300, Top: 200}}, boxes)

	assert.Error(t, e.Optimize(filepath.Join(dir, "missing.pdf"), out))
}

func TestCheckPDFFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	writeTestPDF(t, src, "/MediaBox [0 0 200 300]")
	assert.NoError(t, CheckPDFFile(src))

	text := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(text, []byte("just some text"), 0o644))
	assert.ErrorIs(t, CheckPDFFile(text), ErrNotPDF)
}
