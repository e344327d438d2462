package pdf

import "time"

const (
	// DefaultWorkers is the number of pages prepared concurrently when writing
	DefaultWorkers = 4

	// DefaultViewerTimeout bounds launching the platform PDF viewer
	DefaultViewerTimeout = 10 * time.Second

	// PreviewFilePrefix names the temp file previews are written to
	PreviewFilePrefix = "preview_"

	// PartFileFormat names the single page files assembled into an output
	PartFileFormat = "page_%05d.pdf"

	// PDFMimeType is the detected content type of a PDF file
	PDFMimeType = "application/pdf"

	// DefaultFilePermissions for temp directory creation
	DefaultFilePermissions = 0755
)
