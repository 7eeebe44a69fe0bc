package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghav2405/invoice-backend/internal/models"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

func openTestRepo(t *testing.T) InvoiceRepository {
	t.Helper()
	db, err := Open(":memory:", logger.NewTestLogger())
	require.NoError(t, err)
	return NewInvoiceRepository(db, logger.NewTestLogger())
}

func TestSaveUpload(t *testing.T) {
	repo := openTestRepo(t)

	text := "Invoice No: 42\nTotal: 100.00"
	doc, err := repo.SaveUpload(context.Background(), "invoice.pdf", models.SalesInvoice, &text)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, "invoice.pdf", doc.Filename)
	assert.Equal(t, models.SalesInvoice, doc.InvoiceType)
	require.NotNil(t, doc.ExtractedText)
	assert.Equal(t, text, *doc.ExtractedText)
}

func TestSaveUpload_NilText(t *testing.T) {
	repo := openTestRepo(t)

	// Scanned PDFs with no text layer persist a null column.
	doc, err := repo.SaveUpload(context.Background(), "scan.pdf", models.ProformaInvoice, nil)
	require.NoError(t, err)
	assert.Nil(t, doc.ExtractedText)
}

func TestSaveStructured(t *testing.T) {
	repo := openTestRepo(t)

	record := map[string]any{
		"amount":       100.0,
		"invoice_type": "sales_invoice",
	}
	inv, err := repo.SaveStructured(context.Background(), models.SalesInvoice, record)
	require.NoError(t, err)
	assert.NotEmpty(t, inv.ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(inv.Payload, &decoded))
	assert.Equal(t, 100.0, decoded["amount"])
	assert.Equal(t, "sales_invoice", decoded["invoice_type"])
}

func TestSaveStructured_UnserializablePayload(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.SaveStructured(context.Background(), models.SalesInvoice, map[string]any{
		"bad": make(chan int),
	})
	assert.Error(t, err)
}

func TestInvoiceTypeHelpers(t *testing.T) {
	assert.True(t, models.ValidInvoiceType("sales_invoice"))
	assert.False(t, models.ValidInvoiceType("gift_card"))
	assert.Equal(t, "Proforma Invoice", models.ProformaInvoice.DisplayName())
}
