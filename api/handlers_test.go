package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf_assembler/pdf"
	"pdf_assembler/pdf/pdftest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	letter = pdf.Dims{Width: 612, Height: 792}
	a4     = pdf.Dims{Width: 595, Height: 842}
)

func newTestRouter(t *testing.T) (*gin.Engine, *pdftest.Engine, *Config) {
	t.Helper()
	eng := pdftest.NewEngine()
	eng.Default = []pdf.Dims{letter, letter, a4}

	logger, _ := test.NewNullLogger()
	config := &Config{
		MaxFileSize: 1 << 20,
		TempDir:     t.TempDir(),
		Engine:      eng,
		Logger:      logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	SetupRoutes(r, config)
	return r, eng, config
}

// postForm sends fields and, when content is not nil, a "pdf" file part.
func postForm(t *testing.T, r *gin.Engine, path string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile(FormFieldPDF, "report.pdf")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// output returns the labels of the pages written to the response file.
func output(eng *pdftest.Engine) []string {
	for path, pages := range eng.Written {
		if !strings.HasPrefix(filepath.Base(path), "output_") {
			continue
		}
		out := make([]string, len(pages))
		for i, p := range pages {
			out[i] = p.Label()
		}
		return out
	}
	return nil
}

func assertTempDirEmpty(t *testing.T, config *Config) {
	t.Helper()
	entries, err := os.ReadDir(config.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestUpload(t *testing.T) {
	r, _, config := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/upload", []byte(pdftest.Header), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "report.pdf", body["filename"])
	assert.EqualValues(t, 3, body["pages"])
	assert.NotContains(t, body, "path")
	assertTempDirEmpty(t, config)
}

func TestUploadRejectsBadInput(t *testing.T) {
	r, _, config := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/upload", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(t, r, "/api/pdf/upload", []byte("just some text"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "not a PDF file")

	config.MaxFileSize = 4
	w = postForm(t, r, "/api/pdf/upload", []byte(pdftest.Header), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "exceeds maximum")
	assertTempDirEmpty(t, config)
}

func TestUploadUnreadablePDF(t *testing.T) {
	r, eng, config := newTestRouter(t)
	eng.Default = nil

	w := postForm(t, r, "/api/pdf/upload", []byte(pdftest.Header), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Failed to read PDF")
	assertTempDirEmpty(t, config)
}

func TestResave(t *testing.T) {
	r, eng, config := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/resave", []byte(pdftest.Header), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, pdf.PDFMimeType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report_resaved.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, pdftest.Header, w.Body.String())
	assert.Len(t, eng.Optimized, 1)
	assertTempDirEmpty(t, config)
}

func TestRemovePages(t *testing.T) {
	r, eng, config := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/remove-pages", []byte(pdftest.Header), map[string]string{"pages": "1, 1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Len(t, output(eng), 2)
	assert.Equal(t, `attachment; filename="report_pages_removed.pdf"`, w.Header().Get("Content-Disposition"))
	assertTempDirEmpty(t, config)
}

func TestRemovePagesErrors(t *testing.T) {
	r, _, config := newTestRouter(t)

	tests := []struct {
		name  string
		pages string
	}{
		{"missing", ""},
		{"syntax", "1-2-3"},
		{"out of range", "4"},
		{"every page", "1-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(t, r, "/api/pdf/remove-pages", []byte(pdftest.Header), map[string]string{"pages": tt.pages})
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assertTempDirEmpty(t, config)
}

func TestSelectPages(t *testing.T) {
	r, eng, _ := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/select-pages", []byte(pdftest.Header), map[string]string{"pages": "3, 1-2, 2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	pages := output(eng)
	require.Len(t, pages, 4)
	assert.Equal(t, "(pg.3)", pages[0][len(pages[0])-6:])
	assert.Equal(t, "(pg.2)", pages[3][len(pages[3])-6:])
}

func TestCrop(t *testing.T) {
	r, eng, config := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/crop", []byte(pdftest.Header), map[string]string{"page": "2", "margin": "50, 100, 50, 0"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var written []pdf.Page
	for path, pages := range eng.Written {
		if strings.HasPrefix(filepath.Base(path), "output_") {
			written = pages
		}
	}
	require.Len(t, written, 3)
	assert.Equal(t, letter, written[0].Dims())
	assert.Equal(t, pdf.Dims{Width: 512, Height: 692}, written[1].Dims())
	assertTempDirEmpty(t, config)
}

func TestCropErrors(t *testing.T) {
	r, _, _ := newTestRouter(t)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"bad page", map[string]string{"page": "x", "margin": "0, 0, 0, 0"}},
		{"bad margin", map[string]string{"page": "1", "margin": "1, 2"}},
		{"page out of range", map[string]string{"page": "9", "margin": "0, 0, 0, 0"}},
		{"nothing left", map[string]string{"page": "1", "margin": "400, 0, 400, 0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(t, r, "/api/pdf/crop", []byte(pdftest.Header), tt.fields)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestScale(t *testing.T) {
	r, eng, _ := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/scale", []byte(pdftest.Header), map[string]string{"page": "3", "dims": "_, 1684"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for path, pages := range eng.Written {
		if strings.HasPrefix(filepath.Base(path), "output_") {
			require.Len(t, pages, 3)
			assert.Equal(t, pdf.Dims{Width: 1190, Height: 1684}, pages[2].Dims())
		}
	}

	w = postForm(t, r, "/api/pdf/scale", []byte(pdftest.Header), map[string]string{"page": "1", "dims": "_, _"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationFailure(t *testing.T) {
	r, eng, config := newTestRouter(t)
	eng.WriteErr = assert.AnError

	w := postForm(t, r, "/api/pdf/select-pages", []byte(pdftest.Header), map[string]string{"pages": "1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, assert.AnError.Error(), decode(t, w)["error"])
	assertTempDirEmpty(t, config)
}

func TestParseRange(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := postForm(t, r, "/api/pdf/parse-range", nil, map[string]string{"pages": "1-4, 6, 10-12"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["all"])
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 6.0, 10.0, 11.0, 12.0}, body["pages"])

	w = postForm(t, r, "/api/pdf/parse-range", nil, map[string]string{"pages": "ALL"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["all"])
	assert.Nil(t, body["pages"])

	w = postForm(t, r, "/api/pdf/parse-range", nil, map[string]string{"pages": "5-2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["pages"])

	w = postForm(t, r, "/api/pdf/parse-range", nil, map[string]string{"pages": "2, 4-, 14"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "4-", decode(t, w)["segment"])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "__etc_passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "a_b.pdf", sanitizeFilename(`a\b.pdf`))
	assert.Equal(t, "document.pdf", sanitizeFilename("  "))
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "scan_cropped.pdf", outputFilename("scan.PDF", "cropped"))
	assert.Equal(t, "scan_cropped.pdf", outputFilename("scan", "cropped"))
	assert.Equal(t, "document_cropped.pdf", outputFilename("", "cropped"))
}
