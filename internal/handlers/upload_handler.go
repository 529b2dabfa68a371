package handlers

import (
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-parser/internal/models"
	"alfredoptarigan/cv-parser/internal/services"
)

type UploadHandler struct {
	extractorService    services.ExtractorService
	orchestratorService services.OrchestratorService
	scratchService      services.ScratchService
	maxFileSize         int64
}

func NewUploadHandler(
	extractorService services.ExtractorService,
	orchestratorService services.OrchestratorService,
	scratchService services.ScratchService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		extractorService:    extractorService,
		orchestratorService: orchestratorService,
		scratchService:      scratchService,
		maxFileSize:         maxFileSize,
	}
}

// HandleUpload runs the full pipeline for one uploaded document:
// extraction (with OCR fallback), payload assembly, and the structured
// LLM passes. The temp copy of the upload is deleted on every exit path.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "No file uploaded",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "File too large",
		})
	}

	src, err := file.Open()
	if err != nil {
		return internalError(c, err)
	}
	buffer, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return internalError(c, err)
	}

	// The OCR fallback rasterizes from disk, so keep a temp copy for
	// the duration of the request.
	filePath, cleanup, err := h.scratchService.SaveUpload(file)
	if err != nil {
		return internalError(c, err)
	}
	defer cleanup()

	log.Printf("📄 Extracting content and links from %s\n", file.Filename)
	result, err := h.extractorService.Extract(c.Context(), buffer, filePath, file.Filename)
	if err != nil && !errors.Is(err, services.ErrExtractionFailed) {
		return internalError(c, err)
	}
	if err != nil || result.Empty() {
		// Extractor failures and genuinely empty documents share one
		// user-facing contract; the distinction lives in the logs.
		if err != nil {
			log.Printf("❌ Extraction failed for %s: %v\n", file.Filename, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Message: "Unable to process this file. Please check the file type and content.",
		})
	}

	payload := services.BuildPayload(file.Filename, result)

	log.Printf("🤖 Running structured extraction for %s\n", file.Filename)
	record := h.orchestratorService.ExtractCV(c.Context(), payload)
	log.Printf("✅ Structured extraction completed for %s\n", file.Filename)

	return c.JSON(record)
}

func internalError(c *fiber.Ctx, err error) error {
	log.Printf("❌ Internal error: %v\n", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Message: "Internal server error",
		Error:   err.Error(),
	})
}
