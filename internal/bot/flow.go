package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/raghav2405/invoice-backend/internal/models"
	"github.com/raghav2405/invoice-backend/internal/pipeline"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// Messenger is the outbound chat surface the flow talks to.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendInvoiceKeyboard(chatID int64, text string) error
}

// FileFetcher downloads an attachment's content by file ID.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// Attachment is the subset of a chat document the flow cares about.
type Attachment struct {
	FileID   string
	FileName string
	MimeType string
}

// Flow drives the invoice conversation: select a type, await a PDF, run the
// pipeline, report the outcome. All transitions go through the explicit
// session store; every failure is terminal for the conversation.
type Flow struct {
	sessions  *SessionStore
	messenger Messenger
	files     FileFetcher
	processor pipeline.Processor
	logger    logger.Logger
}

func NewFlow(
	sessions *SessionStore,
	messenger Messenger,
	files FileFetcher,
	processor pipeline.Processor,
	log logger.Logger,
) *Flow {
	return &Flow{
		sessions:  sessions,
		messenger: messenger,
		files:     files,
		processor: processor,
		logger:    log,
	}
}

// Start begins the conversation and presents the invoice type choices.
func (f *Flow) Start(chatID int64) {
	f.sessions.Put(chatID, Session{State: StateSelectInvoice})

	if err := f.messenger.SendInvoiceKeyboard(chatID, "Please select an invoice type:"); err != nil {
		f.logger.Error("Failed to send invoice keyboard",
			logger.Int64("chatId", chatID),
			logger.Error(err),
		)
		return
	}
	f.logger.Info("Sent invoice options keyboard", logger.Int64("chatId", chatID))
}

// HandleSelection processes an inline keyboard choice. Unknown data or a
// selection outside the selecting state is ignored.
func (f *Flow) HandleSelection(chatID int64, data string) {
	session, ok := f.sessions.Get(chatID)
	if !ok || session.State != StateSelectInvoice {
		return
	}
	if !models.ValidInvoiceType(data) {
		return
	}

	invoiceType := models.InvoiceType(data)
	f.sessions.Put(chatID, Session{State: StateAwaitingPDF, InvoiceType: invoiceType})

	f.send(chatID, fmt.Sprintf("You selected: %s. Please upload a PDF file.", invoiceType.DisplayName()))
	f.logger.Info("User selected invoice type",
		logger.Int64("chatId", chatID),
		logger.String("invoiceType", data),
	)
}

// HandleDocument processes an uploaded attachment while a PDF is awaited.
// A non-PDF attachment re-prompts and keeps the state; a document sent
// before a type is picked re-prompts and leaves the selection open; a valid
// PDF runs the pipeline and ends the conversation either way.
func (f *Flow) HandleDocument(ctx context.Context, chatID int64, att *Attachment) {
	session, ok := f.sessions.Get(chatID)
	if !ok {
		f.send(chatID, "No invoice type selected. Please start again with /invoices or 'invoices'.")
		return
	}
	if session.State != StateAwaitingPDF {
		f.send(chatID, "Please select an invoice type first.")
		return
	}

	if att == nil || att.MimeType != "application/pdf" {
		f.send(chatID, "Please upload a valid PDF file.")
		return
	}

	data, err := f.files.Fetch(ctx, att.FileID)
	if err != nil {
		f.send(chatID, fmt.Sprintf("Failed to download PDF: %s", err))
		f.sessions.Delete(chatID)
		return
	}

	f.send(chatID, "Processing...")

	result, err := f.processor.Process(ctx, pipeline.Upload{
		Data:        data,
		Filename:    att.FileName,
		InvoiceType: string(session.InvoiceType),
	})
	if err != nil {
		f.send(chatID, f.failureMessage(err))
		f.logger.Error("Failed to process uploaded PDF",
			logger.Int64("chatId", chatID),
			logger.String("step", pipeline.StepOf(err)),
			logger.Error(err),
		)
		f.sessions.Delete(chatID)
		return
	}

	for _, warning := range result.Warnings {
		f.send(chatID, warning)
	}

	f.send(chatID, fmt.Sprintf("Record Saved into %s table", session.InvoiceType.DisplayName()))
	f.logger.Info("Conversation completed",
		logger.Int64("chatId", chatID),
		logger.String("documentId", result.Document.ID),
	)
	f.sessions.Delete(chatID)
}

// Cancel aborts the conversation from any non-terminal state.
func (f *Flow) Cancel(chatID int64) {
	f.sessions.Delete(chatID)
	f.send(chatID, "Operation cancelled.")
}

// failureMessage maps the failing step to the user-facing message. The cause
// text is passed through unchanged.
func (f *Flow) failureMessage(err error) string {
	cause := err
	var pe *pipeline.Error
	if errors.As(err, &pe) && pe.Cause != nil {
		cause = pe.Cause
	}

	switch pipeline.StepOf(err) {
	case pipeline.StepExtract:
		return fmt.Sprintf("Failed to extract PDF text: %s", cause)
	case pipeline.StepSaveUpload:
		return fmt.Sprintf("Failed to save invoice data: %s", cause)
	case pipeline.StepNormalize:
		return fmt.Sprintf("Failed to process text with Gemini: %s", cause)
	case pipeline.StepSaveStructured:
		return fmt.Sprintf("Failed to save Gemini JSON: %s", cause)
	default:
		return fmt.Sprintf("Failed to process PDF: %s", cause)
	}
}

func (f *Flow) send(chatID int64, text string) {
	if err := f.messenger.SendText(chatID, text); err != nil {
		f.logger.Error("Failed to send message",
			logger.Int64("chatId", chatID),
			logger.Error(err),
		)
	}
}
