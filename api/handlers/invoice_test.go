package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghav2405/invoice-backend/internal/invoice"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

type fakeRenderer struct {
	html string
	data []byte
	err  error
}

func (r *fakeRenderer) Render(html string) ([]byte, error) {
	r.html = html
	return r.data, r.err
}

func newInvoiceRouter(t *testing.T, renderer invoice.Renderer) (*gin.Engine, *invoice.Book) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	book := invoice.NewBook()
	h := NewInvoiceHandler(book, renderer, logger.NewTestLogger())
	h.outputDir = t.TempDir()

	r := gin.New()
	r.GET("/invoice/", h.GetInvoice)
	r.POST("/invoice/add_row", h.AddRow)
	r.POST("/invoice/generate_pdf", h.GeneratePDF)
	return r, book
}

func TestGetInvoiceReturnsDocument(t *testing.T) {
	r, book := newInvoiceRouter(t, &fakeRenderer{})
	book.AppendRow("Widget", 2, 10)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoice/", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var doc invoice.Details
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.TableData, 1)
	assert.Equal(t, "Widget", doc.TableData[0].Description)
	assert.Equal(t, 20.0, doc.TableData[0].Subtotal)
	assert.Len(t, doc.InvoiceNumber, 5)
}

func TestAddRowAppendsAndEchoesTable(t *testing.T) {
	r, book := newInvoiceRouter(t, &fakeRenderer{})

	body := bytes.NewBufferString(`{"description":"Consulting","quantity":3,"price":9.5}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoice/add_row", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message   string            `json:"message"`
		TableData []invoice.LineItem `json:"table_data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Row added successfully", resp.Message)
	require.Len(t, resp.TableData, 1)
	assert.Equal(t, 28.5, resp.TableData[0].Subtotal)

	require.Len(t, book.Rows(), 1)
}

func TestAddRowRejectsMissingFields(t *testing.T) {
	r, book := newInvoiceRouter(t, &fakeRenderer{})

	body := bytes.NewBufferString(`{"description":"Consulting"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoice/add_row", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, book.Rows())
}

func TestGeneratePDFReturnsAttachment(t *testing.T) {
	renderer := &fakeRenderer{data: []byte("%PDF-1.4 fake")}
	r, _ := newInvoiceRouter(t, renderer)

	body := bytes.NewBufferString(`{"html":"<html><body>Invoice</body></html>"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoice/generate_pdf", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, []byte("%PDF-1.4 fake"), w.Body.Bytes())
	assert.Equal(t, "<html><body>Invoice</body></html>", renderer.html)
}

func TestGeneratePDFRendererFailure(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("wkhtmltopdf not found")}
	r, _ := newInvoiceRouter(t, renderer)

	body := bytes.NewBufferString(`{"html":"<p>x</p>"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoice/generate_pdf", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "wkhtmltopdf not found")
}

func TestGeneratePDFRejectsEmptyHTML(t *testing.T) {
	r, _ := newInvoiceRouter(t, &fakeRenderer{})

	body := bytes.NewBufferString(`{"html":"   "}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoice/generate_pdf", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
