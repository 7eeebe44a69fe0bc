package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raghav2405/invoice-backend/internal/invoice"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// InvoiceHandler serves the in-memory invoice builder: document state,
// row appends, and HTML rendering into a downloadable PDF.
type InvoiceHandler struct {
	book     *invoice.Book
	renderer invoice.Renderer
	logger   logger.Logger

	// outputDir holds generated PDFs; created lazily on first render.
	outputDir string
}

type AddRowRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type GeneratePDFRequest struct {
	HTML string `json:"html" binding:"required"`
}

func NewInvoiceHandler(book *invoice.Book, renderer invoice.Renderer, logger logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		book:      book,
		renderer:  renderer,
		logger:    logger,
		outputDir: "files",
	}
}

// GetInvoice returns the current invoice document.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	c.JSON(http.StatusOK, h.book.Details())
}

// AddRow appends a line item and echoes the updated table.
func (h *InvoiceHandler) AddRow(c *gin.Context) {
	var req AddRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	item := h.book.AppendRow(req.Description, req.Quantity, req.Price)
	h.logger.Info("Added invoice row",
		logger.Int("no", item.No),
		logger.String("description", item.Description),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Row added successfully",
		"table_data": h.book.Rows(),
	})
}

// GeneratePDF renders the submitted HTML, stores a copy under the output
// directory, and returns the bytes as a PDF attachment.
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	var req GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "html must not be empty"})
		return
	}

	data, err := h.renderer.Render(req.HTML)
	if err != nil {
		h.logger.Error("Failed to render invoice PDF", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("failed to generate PDF: %s", err)})
		return
	}

	filename := fmt.Sprintf("invoice_%s.pdf", uuid.NewString()[:8])
	if err := h.persist(filename, data); err != nil {
		// The caller still gets their PDF even if the archive copy fails.
		h.logger.Warn("Failed to store generated PDF", logger.Error(err))
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *InvoiceHandler) persist(filename string, data []byte) error {
	if err := os.MkdirAll(h.outputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(h.outputDir, filename), data, 0o644)
}
