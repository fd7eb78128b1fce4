package constants

import "strings"

// Artifact formats the extractor knows how to handle.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// IsPDFContentType reports whether a declared content type denotes a PDF.
func IsPDFContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "pdf")
}

// MapContentTypeToFormat classifies a declared content type. Anything that is
// not a PDF is treated as an image, matching the upload contract: the front
// door only accepts certificate files (PDF, PNG, JPEG).
func MapContentTypeToFormat(ct string) string {
	if IsPDFContentType(ct) {
		return PDF
	}
	return IMAGE
}
