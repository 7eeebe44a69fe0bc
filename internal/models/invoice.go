package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceType is one of the fixed category tags attached to both the raw
// upload record and the structured record.
type InvoiceType string

const (
	ProformaInvoice InvoiceType = "proforma_invoice"
	SalesInvoice    InvoiceType = "sales_invoice"
	OverdueInvoice  InvoiceType = "overdue_invoice"
	RetainerInvoice InvoiceType = "retainer_invoice"
)

// InvoiceTypes lists every valid tag in presentation order.
var InvoiceTypes = []InvoiceType{
	ProformaInvoice,
	SalesInvoice,
	OverdueInvoice,
	RetainerInvoice,
}

// ValidInvoiceType reports whether s is one of the fixed tags.
func ValidInvoiceType(s string) bool {
	for _, t := range InvoiceTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// DisplayName renders the tag for humans, e.g. "Sales Invoice".
func (t InvoiceType) DisplayName() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// BaseModel carries the generated id and timestamps shared by both tables.
type BaseModel struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// UploadedDocument is the raw extraction record, created once per successful
// upload and never mutated afterwards. ExtractedText is nil when the PDF had
// no recoverable text layer.
type UploadedDocument struct {
	BaseModel
	Filename      string      `gorm:"not null" json:"filename"`
	InvoiceType   InvoiceType `gorm:"not null" json:"invoiceType"`
	ExtractedText *string     `gorm:"type:text" json:"extractedText"`
}

func (UploadedDocument) TableName() string {
	return "uploaded_documents"
}

// StructuredInvoice holds the model-produced JSON for one upload, stored as
// an opaque serialized blob. There is no foreign key back to the upload row.
type StructuredInvoice struct {
	BaseModel
	InvoiceType InvoiceType    `gorm:"not null" json:"invoiceType"`
	Payload     datatypes.JSON `gorm:"not null" json:"payload"`
}

func (StructuredInvoice) TableName() string {
	return "structured_invoices"
}
