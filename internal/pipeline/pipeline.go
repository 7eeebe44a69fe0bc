package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raghav2405/invoice-backend/internal/ai"
	"github.com/raghav2405/invoice-backend/internal/extract"
	"github.com/raghav2405/invoice-backend/internal/models"
	"github.com/raghav2405/invoice-backend/internal/repository"
	"github.com/raghav2405/invoice-backend/pkg/logger"
	"github.com/raghav2405/invoice-backend/pkg/storage"
)

// Step names carried by pipeline errors.
const (
	StepValidate       = "validate"
	StepTempFile       = "tempfile"
	StepArchive        = "archive"
	StepExtract        = "extract"
	StepSaveUpload     = "save_upload"
	StepCleanup        = "cleanup"
	StepNormalize      = "normalize"
	StepSaveStructured = "save_structured"
)

// Upload is one PDF handed to the pipeline by either entry point.
type Upload struct {
	Data        []byte
	Filename    string
	InvoiceType string
}

// Result is the outcome of a completed run. Warnings report accepted
// inconsistencies (a temp file that could not be deleted) that do not fail
// the run.
type Result struct {
	Document      *models.UploadedDocument
	Structured    *models.StructuredInvoice
	ExtractedText string
	Warnings      []string
}

// Processor runs the upload-to-structured-record chain.
type Processor interface {
	Process(ctx context.Context, upload Upload) (*Result, error)
}

type Service struct {
	extractor  extract.Extractor
	repo       repository.InvoiceRepository
	normalizer ai.Normalizer
	archive    storage.Storage
	logger     logger.Logger
	tempDir    string
	now        func() time.Time
}

type Config struct {
	TempDir string
}

func NewService(
	extractor extract.Extractor,
	repo repository.InvoiceRepository,
	normalizer ai.Normalizer,
	archive storage.Storage,
	log logger.Logger,
	cfg *Config,
) *Service {
	tempDir := filepath.Join("files", "temp_pdf")
	if cfg != nil && cfg.TempDir != "" {
		tempDir = cfg.TempDir
	}

	return &Service{
		extractor:  extractor,
		repo:       repo,
		normalizer: normalizer,
		archive:    archive,
		logger:     log,
		tempDir:    tempDir,
		now:        time.Now,
	}
}

// Process runs the full chain: temp file, archive, extract, persist the raw
// record, cleanup, normalize, persist the structured record. Every step
// failure is terminal; committed rows from earlier steps are intentionally
// left in place (an UploadedDocument may outlive a failed normalization).
func (s *Service) Process(ctx context.Context, upload Upload) (*Result, error) {
	if !models.ValidInvoiceType(upload.InvoiceType) {
		return nil, validationError(StepValidate, fmt.Errorf("unknown invoice type: %s", upload.InvoiceType))
	}
	if len(upload.Data) == 0 {
		return nil, validationError(StepValidate, fmt.Errorf("empty file"))
	}
	invoiceType := models.InvoiceType(upload.InvoiceType)

	formatted := s.formatFilename(upload.Filename, invoiceType)
	s.logger.Info("Processing upload",
		logger.String("filename", formatted),
		logger.String("invoiceType", upload.InvoiceType),
	)

	tempPath, err := s.writeTempFile(formatted, upload.Data)
	if err != nil {
		return nil, dependencyError(StepTempFile, err)
	}

	if _, err := s.archive.Store(ctx, bytes.NewReader(upload.Data), formatted); err != nil {
		s.removeTemp(tempPath)
		return nil, dependencyError(StepArchive, err)
	}

	// Extraction failure stops the run before any database write.
	text, err := s.extractor.Extract(ctx, upload.Data)
	if err != nil {
		s.removeTemp(tempPath)
		return nil, dependencyError(StepExtract, err)
	}

	var extractedText *string
	if text != "" {
		extractedText = &text
	}

	doc, err := s.repo.SaveUpload(ctx, formatted, invoiceType, extractedText)
	if err != nil {
		s.removeTemp(tempPath)
		return nil, dependencyError(StepSaveUpload, err)
	}

	result := &Result{
		Document:      doc,
		ExtractedText: text,
	}

	// A temp file that survives its committed row is an accepted
	// inconsistency, reported but not fatal.
	if err := os.Remove(tempPath); err != nil {
		s.logger.Warn("Failed to delete temporary file",
			logger.String("path", tempPath),
			logger.Error(err),
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to delete temporary file: %v", err))
	}

	record, err := s.normalizer.Normalize(ctx, text, invoiceType)
	if err != nil {
		// The upload row stays; there is no compensating delete.
		return nil, dependencyError(StepNormalize, err)
	}

	structured, err := s.repo.SaveStructured(ctx, invoiceType, record)
	if err != nil {
		return nil, dependencyError(StepSaveStructured, err)
	}
	result.Structured = structured

	s.logger.Info("Upload processed",
		logger.String("documentId", doc.ID),
		logger.String("structuredId", structured.ID),
	)
	return result, nil
}

// formatFilename builds a collision-resistant name from the original name,
// the invoice type and the current timestamp.
func (s *Service) formatFilename(original string, invoiceType models.InvoiceType) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" || base == "." {
		base = "invoice"
	}
	return fmt.Sprintf("%s_%s_%s.pdf", base, invoiceType, s.now().Format("20060102_150405"))
}

func (s *Service) writeTempFile(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	path := filepath.Join(s.tempDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return path, nil
}

func (s *Service) removeTemp(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Warn("Failed to delete temporary file after error",
			logger.String("path", path),
			logger.Error(err),
		)
	}
}
