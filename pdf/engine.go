package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine reads, writes and displays PDF files.
type Engine interface {
	// PageCount returns the number of pages in the document at path.
	PageCount(path string) (int, error)

	// PageBoxes returns the visible box of every page of the document at
	// path, in the user space of that page.
	PageBoxes(path string) ([]Box, error)

	// Write assembles pages, with their edits, into a new document at out.
	Write(ctx context.Context, pages []Page, out string) error

	// Optimize rewrites in as a compacted document at out.
	Optimize(in, out string) error

	// Open shows the document at path in the user's PDF viewer.
	Open(ctx context.Context, path string) error
}

// EngineConfig configures a PdfcpuEngine.
type EngineConfig struct {
	TempDir       string
	Workers       int
	ViewerTimeout time.Duration
	Progress      io.Writer // nil disables the progress bar
	Logger        logrus.FieldLogger
}

// PdfcpuEngine implements Engine with the pdfcpu library.
type PdfcpuEngine struct {
	tempDir       string
	workers       int
	viewerTimeout time.Duration
	progress      io.Writer
	log           logrus.FieldLogger
}

// NewPdfcpuEngine returns an engine using cfg, filling in defaults.
func NewPdfcpuEngine(cfg EngineConfig) *PdfcpuEngine {
	e := &PdfcpuEngine{
		tempDir:       cfg.TempDir,
		workers:       cfg.Workers,
		viewerTimeout: cfg.ViewerTimeout,
		progress:      cfg.Progress,
		log:           cfg.Logger,
	}
	if e.tempDir == "" {
		e.tempDir = os.TempDir()
	}
	if e.workers <= 0 {
		e.workers = DefaultWorkers
	}
	if e.viewerTimeout <= 0 {
		e.viewerTimeout = DefaultViewerTimeout
	}
	if e.progress == nil {
		e.progress = io.Discard
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

// newConf returns a configuration for a single pdfcpu call. pdfcpu records
// the running command in its configuration, so calls never share one.
func (e *PdfcpuEngine) newConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// readContext reads and validates the document at path.
func (e *PdfcpuEngine) readContext(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return api.ReadAndValidate(f, e.newConf())
}

// PageCount returns the number of pages in the document at path.
func (e *PdfcpuEngine) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}

// PageBoxes returns the effective crop box of every page of the document at
// path, clipped to its media box. Rotation is not applied.
func (e *PdfcpuEngine) PageBoxes(path string) ([]Box, error) {
	ctx, err := e.readContext(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page boxes: %w", err)
	}
	pbs, err := ctx.PageBoundaries(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read page boxes: %w", err)
	}

	out := make([]Box, len(pbs))
	for i, pb := range pbs {
		media := pb.MediaBox()
		if media == nil {
			return nil, fmt.Errorf("page %d has no media box", i+1)
		}
		b := boxOf(media)
		if crop := pb.CropBox(); crop != nil {
			b = intersect(b, boxOf(crop))
		}
		out[i] = b
	}
	return out, nil
}

func boxOf(r *types.Rectangle) Box {
	return Box{Left: r.LL.X, Bottom: r.LL.Y, Right: r.UR.X, Top: r.UR.Y}
}

func intersect(a, b Box) Box {
	return Box{
		Left:   max(a.Left, b.Left),
		Bottom: max(a.Bottom, b.Bottom),
		Right:  min(a.Right, b.Right),
		Top:    min(a.Top, b.Top),
	}
}

// Write extracts every page into its own file, applies its crop and scale,
// then merges the files in order into out.
func (e *PdfcpuEngine) Write(ctx context.Context, pages []Page, out string) error {
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages to write", ErrStructural)
	}
	start := time.Now()

	if err := os.MkdirAll(e.tempDir, DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	dir, err := os.MkdirTemp(e.tempDir, "assemble_")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	bar := progressbar.NewOptions(len(pages),
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionSetDescription("writing pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	parts := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part := filepath.Join(dir, fmt.Sprintf(PartFileFormat, i))
			if err := e.preparePage(p, part); err != nil {
				return fmt.Errorf("page %d %s: %w", i+1, p.Label(), err)
			}
			parts[i] = part
			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	_ = bar.Finish()

	if len(parts) == 1 {
		err = copyFile(parts[0], out)
	} else {
		err = api.MergeCreateFile(parts, out, false, e.newConf())
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	e.log.WithFields(logrus.Fields{
		"op":       "write",
		"path":     out,
		"pages":    len(pages),
		"duration": time.Since(start),
	}).Info("document written")
	return nil
}

// preparePage writes the single page p, with its edits, to part.
func (e *PdfcpuEngine) preparePage(p Page, part string) error {
	if err := api.CollectFile(p.Source, part, []string{strconv.Itoa(p.Number)}, e.newConf()); err != nil {
		return fmt.Errorf("collect failed: %w", err)
	}

	if p.Scaled() {
		return e.scalePage(p, part)
	}

	// Collected pages keep their media box but not an inherited crop box, so
	// the visible area is always written out.
	crop := p.CropBox()
	box := &model.Box{Rect: types.NewRectangle(crop.Left, crop.Bottom, crop.Right, crop.Top)}
	if err := api.CropFile(part, "", nil, box, e.newConf()); err != nil {
		return fmt.Errorf("crop failed: %w", err)
	}
	return nil
}

// scalePage maps the visible area of the single page in part onto a media
// box of p's current dimensions at the origin.
func (e *PdfcpuEngine) scalePage(p Page, part string) error {
	ctx, err := e.readContext(part)
	if err != nil {
		return fmt.Errorf("scale failed: %w", err)
	}
	d, _, _, err := ctx.PageDict(1, false)
	if err != nil {
		return fmt.Errorf("scale failed: %w", err)
	}

	crop := p.CropBox()
	dims := p.Dims()

	content, err := ctx.PageContent(d, 1)
	switch {
	case errors.Is(err, model.ErrNoContent):
	case err != nil:
		return fmt.Errorf("scale failed: %w", err)
	default:
		tx := 0 - crop.Left*p.ScaleX
		ty := 0 - crop.Bottom*p.ScaleY
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "q %.5f 0 0 %.5f %.5f %.5f cm ", p.ScaleX, p.ScaleY, tx, ty)
		buf.Write(content)
		buf.WriteString(" Q")

		sd, _ := ctx.NewStreamDictForBuf(buf.Bytes())
		if err := sd.Encode(); err != nil {
			return fmt.Errorf("scale failed: %w", err)
		}
		ir, err := ctx.IndRefForNewObject(*sd)
		if err != nil {
			return fmt.Errorf("scale failed: %w", err)
		}
		d["Contents"] = *ir
	}

	d.Update("MediaBox", types.RectForDim(dims.Width, dims.Height).Array())
	for _, key := range []string{"CropBox", "TrimBox", "BleedBox", "ArtBox"} {
		d.Delete(key)
	}

	tmp := part + ".tmp"
	if err := api.WriteContextFile(ctx, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("scale failed: %w", err)
	}
	return os.Rename(tmp, part)
}

// Optimize rewrites in as a compacted document at out.
func (e *PdfcpuEngine) Optimize(in, out string) error {
	if err := api.OptimizeFile(in, out, e.newConf()); err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}
	return nil
}

// Open shows path in the platform's default viewer.
func (e *PdfcpuEngine) Open(ctx context.Context, path string) error {
	e.log.WithField("path", path).Debug("opening viewer")
	return openInViewer(ctx, e.viewerTimeout, path)
}

// CheckPDFFile reports an error unless path holds PDF content.
func CheckPDFFile(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !mt.Is(PDFMimeType) {
		return fmt.Errorf("%w: %s is %s", ErrNotPDF, filepath.Base(path), mt.String())
	}
	return nil
}

// CheckPDF reports an error unless r starts with PDF content.
func CheckPDF(r io.Reader) error {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return fmt.Errorf("failed to read file header: %w", err)
	}
	if !mt.Is(PDFMimeType) {
		return fmt.Errorf("%w: detected %s", ErrNotPDF, mt.String())
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
