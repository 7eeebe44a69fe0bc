package invoice

import (
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// Renderer turns an HTML document into PDF bytes.
type Renderer interface {
	Render(html string) ([]byte, error)
}

type pdfRenderer struct {
	logger logger.Logger
}

func NewRenderer(log logger.Logger) Renderer {
	return &pdfRenderer{logger: log}
}

// Render converts the HTML through wkhtmltopdf. Any non-zero exit from the
// converter is a hard failure.
func (r *pdfRenderer) Render(html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		r.logger.Error("PDF generation failed", logger.Error(err))
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}

	out := pdfg.Bytes()
	r.logger.Info("Generated PDF", logger.Int("bytes", len(out)))
	return out, nil
}
