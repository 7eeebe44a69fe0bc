package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// maxExtractWorkers bounds concurrent page extraction.
const maxExtractWorkers = 4

// Extractor pulls the text layer out of invoice PDFs.
type Extractor interface {
	// Extract returns the concatenated page text, pages in order, joined by
	// newlines. A well-formed PDF with no recoverable text (e.g. a scan with
	// no OCR layer) yields ("", nil); a corrupt or unreadable file yields an
	// error.
	Extract(ctx context.Context, data []byte) (string, error)
}

type pdfExtractor struct {
	logger logger.Logger
}

func NewExtractor(log logger.Logger) Extractor {
	return &pdfExtractor{logger: log}
}

func (e *pdfExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := pdfReader.NumPage()

	// Pages are extracted concurrently; the indexed slice keeps document
	// order regardless of completion order.
	texts := make([]string, numPages)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxExtractWorkers)

	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			page := pdfReader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}
			texts[pageNum-1] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	pages := make([]string, 0, numPages)
	for _, text := range texts {
		if text != "" {
			pages = append(pages, text)
		}
	}

	extracted := strings.Join(pages, "\n")
	e.logger.Info("Extracted text from pdf",
		logger.Int("pages", numPages),
		logger.Int("chars", len(extracted)),
	)

	return extracted, nil
}
