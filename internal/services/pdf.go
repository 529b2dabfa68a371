package services

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/cv-parser/internal/models"
)

// extractPDF walks the document page by page, producing one text
// segment per page and collecting the URIs of link-type annotations
// across all pages.
func extractPDF(buffer []byte) (result models.ExtractionResult, pages int, err error) {
	// ledongthuc/pdf panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return models.ExtractionResult{}, 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages = reader.NumPage()
	segments := make([]string, 0, pages)
	var links []string

	for pageIndex := 1; pageIndex <= pages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			segments = append(segments, "")
			continue
		}

		segments = append(segments, pageText(page))
		links = append(links, pageLinks(page)...)
	}

	return models.ExtractionResult{Segments: segments, Links: links}, pages, nil
}

func pageText(page pdf.Page) string {
	// Content().Text yields one entry per glyph; GetPlainText
	// reassembles them into words.
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// pageLinks collects the target URIs of Link annotations on a page.
func pageLinks(page pdf.Page) []string {
	annots := page.V.Key("Annots")
	if annots.Kind() != pdf.Array {
		return nil
	}

	var links []string
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.Kind() != pdf.Dict {
			continue
		}
		if annot.Key("Subtype").Name() != "Link" {
			continue
		}

		uri := annot.Key("A").Key("URI")
		if uri.Kind() != pdf.String {
			continue
		}
		if target := uri.RawString(); target != "" {
			links = append(links, target)
		}
	}
	return links
}
