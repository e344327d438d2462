package api

const (
	// FormFieldPDF is the multipart field holding the uploaded document
	FormFieldPDF = "pdf"

	// MaxErrorMessageLength truncates operation errors returned to clients
	MaxErrorMessageLength = 200

	// DefaultFilePermissions for temp directory creation
	DefaultFilePermissions = 0755
)
