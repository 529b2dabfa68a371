package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"unicode/utf8"

	"alfredoptarigan/cv-parser/internal/models"
)

var (
	// ErrEmptyExtraction means every strategy, including the OCR
	// fallback where applicable, yielded no usable text.
	ErrEmptyExtraction = errors.New("no usable text extracted from document")

	// ErrExtractionFailed means an extractor failed internally
	// (malformed document, decode error). The external contract
	// collapses it into the same user-facing failure as
	// ErrEmptyExtraction, but the distinction is kept for logging.
	ErrExtractionFailed = errors.New("document extraction failed")
)

// urlPattern matches http/https URLs inside a plain-text block.
var urlPattern = regexp.MustCompile(`(?i)https?://[\w\-._~:/?#\[\]@!$&'()*+,;=%]+`)

type ExtractorService interface {
	// Extract turns an uploaded document into ordered text segments and
	// a set of discovered hyperlinks. filePath points at the temp copy
	// of the upload; the OCR fallback rasterizes from it.
	Extract(ctx context.Context, buffer []byte, filePath, filename string) (models.ExtractionResult, error)
}

type extractorService struct {
	ocrService OCRService
}

func NewExtractorService(ocrService OCRService) ExtractorService {
	return &extractorService{
		ocrService: ocrService,
	}
}

// Extract implements ExtractorService.
func (e *extractorService) Extract(ctx context.Context, buffer []byte, filePath, filename string) (models.ExtractionResult, error) {
	switch DetectFormat(filename) {
	case FormatPDF:
		return e.extractPDFWithFallback(ctx, buffer, filePath)
	case FormatDocx:
		result, err := extractDocx(buffer, filename)
		if err != nil {
			log.Printf("❌ DOCX extraction failed for %s: %v\n", filename, err)
			return models.ExtractionResult{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		return result, nil
	default:
		// .txt and unknown extensions both decode the buffer as UTF-8.
		return e.extractPlainText(buffer, filename), nil
	}
}

func (e *extractorService) extractPDFWithFallback(ctx context.Context, buffer []byte, filePath string) (models.ExtractionResult, error) {
	result, pages, err := extractPDF(buffer)
	if err != nil {
		log.Printf("❌ PDF extraction failed: %v\n", err)
		return models.ExtractionResult{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	if !result.Empty() {
		return result, nil
	}

	// Soft failure: the text layer is missing or empty, likely a
	// scanned document. Link annotations survive the fallback.
	log.Printf("⚠️  PDF text layer empty across %d pages, falling back to OCR\n", pages)
	segments, err := e.ocrService.RecognizePDF(ctx, filePath, pages)
	if err != nil {
		log.Printf("❌ OCR fallback failed: %v\n", err)
		return models.ExtractionResult{Links: result.Links}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	result.Segments = segments
	return result, nil
}

func (e *extractorService) extractPlainText(buffer []byte, filename string) models.ExtractionResult {
	if !utf8.Valid(buffer) {
		log.Printf("⚠️  %s is not valid UTF-8, decoding anyway\n", filename)
	}

	text := string(buffer)
	return models.ExtractionResult{
		Segments: []string{text},
		Links:    urlPattern.FindAllString(text, -1),
	}
}
