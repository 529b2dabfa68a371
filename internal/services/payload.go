package services

import (
	"strings"

	"alfredoptarigan/cv-parser/internal/models"
)

// BuildPayload assembles the prompt payload sent to every schema pass:
// filename header, the joined text segments, then the discovered links.
func BuildPayload(filename string, result models.ExtractionResult) string {
	return "Filename: " + filename + "\n\n" +
		strings.Join(result.Segments, "\n") + "\n\n" +
		strings.Join(result.Links, "\n")
}
