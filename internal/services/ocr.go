package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"alfredoptarigan/cv-parser/internal/config"
)

// Runner lets tests stub the external rasterization and OCR binaries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// OCRService recovers text from scanned PDFs: each page is rasterized
// to a JPEG via pdftoppm, then recognized with tesseract.
type OCRService interface {
	RecognizePDF(ctx context.Context, pdfPath string, pages int) ([]string, error)
}

type ocrService struct {
	cfg            config.OCRConfig
	scratchService ScratchService
	runner         Runner
}

func NewOCRService(cfg config.OCRConfig, scratchService ScratchService) OCRService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &ocrService{
		cfg:            cfg,
		scratchService: scratchService,
		runner:         execRunner{},
	}
}

// RecognizePDF implements OCRService. Rasterization runs sequentially
// because pdftoppm operates on single-page ranges; recognition over the
// produced images runs concurrently. The scratch directory holding the
// intermediate images is removed on every exit path.
func (o *ocrService) RecognizePDF(ctx context.Context, pdfPath string, pages int) ([]string, error) {
	dir, cleanup, err := o.scratchService.AcquireDir("ocr")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	images := o.rasterize(ctx, pdfPath, pages, dir)
	if len(images) == 0 {
		return nil, fmt.Errorf("rasterization produced no page images")
	}

	return o.recognize(ctx, images), nil
}

func (o *ocrService) rasterize(ctx context.Context, pdfPath string, pages int, dir string) []string {
	var images []string
	for pageNum := 1; pageNum <= pages; pageNum++ {
		prefix := filepath.Join(dir, fmt.Sprintf("page_%04d", pageNum))
		pageArg := strconv.Itoa(pageNum)

		_, errb, err := o.runner.Run(ctx, o.cfg.PdftoppmBin,
			"-jpeg", "-f", pageArg, "-l", pageArg,
			"-r", strconv.Itoa(o.cfg.DPI),
			pdfPath, prefix,
		)
		if err != nil {
			log.Printf("❌ Failed to rasterize page %d: %v (%s)\n", pageNum, err, errb)
			continue
		}

		// pdftoppm appends its own page suffix, e.g. page_0001-1.jpg.
		matches, _ := filepath.Glob(prefix + "*.jpg")
		sort.Strings(matches)
		images = append(images, matches...)
	}
	return images
}

func (o *ocrService) recognize(ctx context.Context, images []string) []string {
	segments := make([]string, len(images))
	sem := make(chan struct{}, o.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, image := range images {
		wg.Add(1)
		go func(i int, image string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			taskCtx, cancel := context.WithTimeout(ctx, o.cfg.TaskTimeout)
			defer cancel()

			out, errb, err := o.runner.Run(taskCtx, o.cfg.TesseractBin,
				image, "stdout", "-l", o.cfg.Language)
			if err != nil {
				log.Printf("❌ OCR failed for %s: %v (%s)\n", image, err, errb)
				return
			}
			segments[i] = string(out)
		}(i, image)
	}

	wg.Wait()
	return segments
}
