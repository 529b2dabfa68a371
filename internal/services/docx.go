package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"alfredoptarigan/cv-parser/internal/models"
)

// extractDocx converts a DOCX or legacy DOC body into a single text
// segment and scans it for hyperlinks.
func extractDocx(buffer []byte, filename string) (models.ExtractionResult, error) {
	var (
		body string
		err  error
	)

	if strings.ToLower(filepath.Ext(filename)) == ".doc" {
		body, _, err = docconv.ConvertDoc(bytes.NewReader(buffer))
	} else {
		body, _, err = docconv.ConvertDocx(bytes.NewReader(buffer))
	}
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("failed to convert document: %w", err)
	}

	return models.ExtractionResult{
		Segments: []string{body},
		Links:    urlPattern.FindAllString(body, -1),
	}, nil
}
