package handlers

import (
	"github.com/raghav2405/invoice-backend/internal/invoice"
	"github.com/raghav2405/invoice-backend/internal/pipeline"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

type Handlers struct {
	Invoice *InvoiceHandler
	PDF     *PDFHandler
}

func NewHandlers(
	book *invoice.Book,
	renderer invoice.Renderer,
	processor pipeline.Processor,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Invoice: NewInvoiceHandler(book, renderer, logger),
		PDF:     NewPDFHandler(processor, logger),
	}
}
