package api

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pdf_assembler/pagerange"
	pdfPkg "pdf_assembler/pdf"
)

// operation transforms the uploaded inFile into outFile.
type operation func(ctx context.Context, inFile, outFile string) error

// HandleUpload checks an uploaded PDF and reports its page count. Nothing is
// kept once the response is sent.
func HandleUpload(c *gin.Context, config *Config) {
	file, header, err := c.Request.FormFile(FormFieldPDF)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	// Validate PDF file
	if err := validatePDFFile(file, header, config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ensureTempDir(config.TempDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}

	// Sanitize filename to prevent path traversal
	safeFilename := sanitizeFilename(header.Filename)
	filename := filepath.Join(config.TempDir, uuid.NewString()+"_"+safeFilename)

	if err := saveUpload(file, filename); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer os.Remove(filename)

	pages, err := config.Engine.PageCount(filename)
	if err != nil {
		config.Logger.WithError(err).WithField("filename", safeFilename).Warn("unreadable upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read PDF: " + errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"filename": header.Filename, "pages": pages})
}

func HandleResave(c *gin.Context, config *Config) {
	handlePDFFile(c, config, func(_ context.Context, inFile, outFile string) error {
		return pdfPkg.ResavePDF(config.Engine, inFile, outFile)
	}, "resaved")
}

func HandleRemovePages(c *gin.Context, config *Config) {
	pagesParam := c.PostForm("pages")
	if pagesParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pages specified"})
		return
	}

	handlePDFFile(c, config, func(ctx context.Context, inFile, outFile string) error {
		return pdfPkg.RemovePagesFromPDF(ctx, config.Engine, inFile, outFile, pagesParam)
	}, "pages_removed")
}

// HandleSelectPages keeps the listed pages in the order given, repeats included.
func HandleSelectPages(c *gin.Context, config *Config) {
	pagesParam := c.PostForm("pages")
	if pagesParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pages specified"})
		return
	}

	handlePDFFile(c, config, func(ctx context.Context, inFile, outFile string) error {
		return pdfPkg.SelectPagesFromPDF(ctx, config.Engine, inFile, outFile, pagesParam)
	}, "pages_selected")
}

// HandleCrop crops one page by the "left, bottom, right, top" margin.
func HandleCrop(c *gin.Context, config *Config) {
	page, err := strconv.Atoi(strings.TrimSpace(c.PostForm("page")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page number"})
		return
	}
	margin, err := pdfPkg.ParseMargin(c.PostForm("margin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handlePDFFile(c, config, editPage(config, page, func(m *pdfPkg.Manager, i int) error {
		_, err := m.Crop(i, margin)
		return err
	}), "cropped")
}

// HandleScale scales one page to "width, height", where "_" keeps the aspect ratio.
func HandleScale(c *gin.Context, config *Config) {
	page, err := strconv.Atoi(strings.TrimSpace(c.PostForm("page")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page number"})
		return
	}
	target, err := pdfPkg.ParseTarget(c.PostForm("dims"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handlePDFFile(c, config, editPage(config, page, func(m *pdfPkg.Manager, i int) error {
		_, err := m.ScaleTo(i, target)
		return err
	}), "scaled")
}

// HandleParseRange expands a range expression without touching any file.
func HandleParseRange(c *gin.Context) {
	sel, err := pagerange.Parse(c.PostForm("pages"))
	if err != nil {
		resp := gin.H{"error": err.Error()}
		var perr *pagerange.ParseError
		if errors.As(err, &perr) {
			resp["segment"] = perr.Segment
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	pages := sel.Pages()
	if pages == nil && !sel.IsAll() {
		pages = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"all": sel.IsAll(), "pages": pages})
}

// editPage loads every page of the upload into a manager of its own, applies
// edit to the 1-based page and writes the result.
func editPage(config *Config, page int, edit func(m *pdfPkg.Manager, i int) error) operation {
	return func(ctx context.Context, inFile, outFile string) error {
		m := pdfPkg.NewManager(config.Engine, pdfPkg.ManagerOptions{
			TempDir:  config.TempDir,
			Optimize: config.Optimize,
			Logger:   config.Logger,
		})
		defer m.Close()

		if err := m.AddPDF(inFile, pagerange.All()); err != nil {
			return err
		}
		if err := pdfPkg.ValidatePageNumbers([]int{page}, m.Len()); err != nil {
			return err
		}
		if err := edit(m, page-1); err != nil {
			return err
		}
		return m.SaveAs(ctx, outFile)
	}
}

func handlePDFFile(c *gin.Context, config *Config, op operation, suffix string) {
	file, header, err := c.Request.FormFile(FormFieldPDF)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return
	}
	defer file.Close()

	// Validate PDF file
	if err := validatePDFFile(file, header, config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ensureTempDir(config.TempDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}

	uniqueID := uuid.NewString()
	inFile := filepath.Join(config.TempDir, "input_"+uniqueID+".pdf")
	outFile := filepath.Join(config.TempDir, "output_"+uniqueID+"_"+suffix+".pdf")
	defer os.Remove(inFile)
	defer os.Remove(outFile)

	if err := saveUpload(file, inFile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save input file"})
		return
	}

	if err := op(c.Request.Context(), inFile, outFile); err != nil {
		config.Logger.WithError(err).WithFields(logrus.Fields{
			"op":       suffix,
			"filename": header.Filename,
		}).Error("PDF operation failed")
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
		return
	}

	// Verify output file exists before sending
	if _, err := os.Stat(outFile); os.IsNotExist(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF operation did not produce output file"})
		return
	}

	c.Header("Content-Type", pdfPkg.PDFMimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename(header.Filename, suffix)))

	// c.File writes the whole file before returning, so the deferred removals
	// run after the transfer.
	c.File(outFile)
}

// statusFor maps errors caused by the request to 400 and everything else to 500.
func statusFor(err error) int {
	var perr *pagerange.ParseError
	switch {
	case errors.As(err, &perr),
		errors.Is(err, pdfPkg.ErrStructural),
		errors.Is(err, pdfPkg.ErrPageOutOfRange),
		errors.Is(err, pdfPkg.ErrInvalidMargin),
		errors.Is(err, pdfPkg.ErrInvalidTarget),
		errors.Is(err, pdfPkg.ErrNotPDF):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage truncates long error messages but keeps the key info.
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "PDF operation failed"
	}
	if len(msg) > MaxErrorMessageLength {
		return msg[:MaxErrorMessageLength] + "..."
	}
	return msg
}

// outputFilename derives the download name from the uploaded one.
func outputFilename(original, suffix string) string {
	if original == "" {
		return "document_" + suffix + ".pdf"
	}
	var filename string
	if strings.HasSuffix(strings.ToLower(original), ".pdf") {
		filename = original[:len(original)-4] + "_" + suffix + ".pdf"
	} else {
		filename = original + "_" + suffix + ".pdf"
	}
	return sanitizeFilename(filename)
}

func saveUpload(file multipart.File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(file); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// ensureTempDir creates the temp directory if it doesn't exist
func ensureTempDir(tempDir string) error {
	return os.MkdirAll(tempDir, DefaultFilePermissions)
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	// Remove directory separators and path traversal attempts
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	filename = strings.TrimSpace(filepath.Base(filename))

	// If empty after sanitization, use default
	if filename == "" || filename == "." {
		filename = "document.pdf"
	}

	return filename
}

// validatePDFFile checks the size limit and sniffs the content type
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	if err := pdfPkg.CheckPDF(file); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}

	// Seek back to beginning for subsequent reads
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to reset file position: %w", err)
	}

	return nil
}
