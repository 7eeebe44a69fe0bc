package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raghav2405/invoice-backend/internal/pipeline"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// PDFHandler exposes the upload pipeline over HTTP.
type PDFHandler struct {
	processor pipeline.Processor
	logger    logger.Logger
}

type ProcessResponse struct {
	Filename      string `json:"filename"`
	InvoiceType   string `json:"invoice_type"`
	ExtractedText string `json:"extracted_text"`
	Message       string `json:"message"`
}

func NewPDFHandler(processor pipeline.Processor, logger logger.Logger) *PDFHandler {
	return &PDFHandler{
		processor: processor,
		logger:    logger,
	}
}

// Process runs the full pipeline on the raw PDF in the request body:
// archive, extract, persist, normalize, persist again.
func (h *PDFHandler) Process(c *gin.Context) {
	invoiceType := c.Param("invoiceType")

	filename := c.Query("filename")
	if filename == "" {
		filename = "upload.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "filename must end with .pdf"})
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "failed to read request body"})
		return
	}

	result, err := h.processor.Process(c.Request.Context(), pipeline.Upload{
		Data:        data,
		Filename:    filename,
		InvoiceType: invoiceType,
	})
	if err != nil {
		h.logger.Error("Failed to process uploaded PDF",
			logger.String("invoiceType", invoiceType),
			logger.String("step", pipeline.StepOf(err)),
			logger.Error(err),
		)
		c.JSON(statusFor(err), gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{
		Filename:      result.Document.Filename,
		InvoiceType:   string(result.Document.InvoiceType),
		ExtractedText: result.ExtractedText,
		Message:       "PDF processed successfully",
	})
}

func statusFor(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
