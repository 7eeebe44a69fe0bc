package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/raghav2405/invoice-backend/internal/models"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// InvoiceRepository is the transactional create surface for the two record
// types. Each save runs in its own transaction; there is no cross-record
// transaction spanning an upload and its structured counterpart.
type InvoiceRepository interface {
	SaveUpload(ctx context.Context, filename string, invoiceType models.InvoiceType, extractedText *string) (*models.UploadedDocument, error)
	SaveStructured(ctx context.Context, invoiceType models.InvoiceType, record map[string]any) (*models.StructuredInvoice, error)
}

type invoiceRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// Open opens the sqlite database and migrates both tables.
func Open(path string, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&models.UploadedDocument{}, &models.StructuredInvoice{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("Database initialized", logger.String("path", path))
	return db, nil
}

func NewInvoiceRepository(db *gorm.DB, log logger.Logger) InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: log,
	}
}

// SaveUpload inserts the raw extraction record. The transaction rolls back on
// any failure with the original cause preserved.
func (r *invoiceRepository) SaveUpload(
	ctx context.Context,
	filename string,
	invoiceType models.InvoiceType,
	extractedText *string,
) (*models.UploadedDocument, error) {
	doc := &models.UploadedDocument{
		Filename:      filename,
		InvoiceType:   invoiceType,
		ExtractedText: extractedText,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(doc).Error
	})
	if err != nil {
		r.logger.Error("Failed to save upload record",
			logger.String("filename", filename),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	r.logger.Info("Saved upload record",
		logger.String("id", doc.ID),
		logger.String("filename", filename),
		logger.String("invoiceType", string(invoiceType)),
	)
	return doc, nil
}

// SaveStructured inserts the model-produced record as a serialized blob.
func (r *invoiceRepository) SaveStructured(
	ctx context.Context,
	invoiceType models.InvoiceType,
	record map[string]any,
) (*models.StructuredInvoice, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize structured record: %w", err)
	}

	inv := &models.StructuredInvoice{
		InvoiceType: invoiceType,
		Payload:     payload,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(inv).Error
	})
	if err != nil {
		r.logger.Error("Failed to save structured record",
			logger.String("invoiceType", string(invoiceType)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to save structured record: %w", err)
	}

	r.logger.Info("Saved structured record",
		logger.String("id", inv.ID),
		logger.String("invoiceType", string(invoiceType)),
	)
	return inv, nil
}
