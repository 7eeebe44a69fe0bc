package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raghav2405/invoice-backend/internal/models"
	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// invoiceTypeKey is the fixed key the caller-selected tag is written under,
// overwriting anything the model produced for it.
const invoiceTypeKey = "invoice_type"

const promptTemplate = `Convert the following invoice text into a JSON object with relevant key-value pairs (e.g., invoice_number, issued_date, amount, billed_to, items). Return only the raw JSON string, without markdown code blocks or any other text. Ensure the JSON is valid and includes meaningful fields based on the text.
Text: %s`

// Normalizer turns extracted invoice text into a structured record.
type Normalizer interface {
	Normalize(ctx context.Context, text string, invoiceType models.InvoiceType) (map[string]any, error)
}

// textGenerator is the single-call surface of the generative model, kept
// narrow so the response handling is testable without the API.
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type normalizer struct {
	generator textGenerator
	logger    logger.Logger
}

func newNormalizer(generator textGenerator, log logger.Logger) Normalizer {
	return &normalizer{
		generator: generator,
		logger:    log,
	}
}

// Normalize sends the text to the model, parses the reply as JSON, and
// injects the invoice type. A reply that does not parse is a hard error; the
// caller decides what to do with the partial state.
func (n *normalizer) Normalize(ctx context.Context, text string, invoiceType models.InvoiceType) (map[string]any, error) {
	prompt := fmt.Sprintf(promptTemplate, text)

	reply, err := n.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	cleaned := stripCodeFence(reply)

	var record map[string]any
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		n.logger.Error("Model reply is not valid JSON",
			logger.String("invoiceType", string(invoiceType)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to parse model reply as JSON: %w", err)
	}

	record[invoiceTypeKey] = string(invoiceType)

	n.logger.Info("Normalized invoice text",
		logger.String("invoiceType", string(invoiceType)),
		logger.Int("fields", len(record)),
	)
	return record, nil
}

// stripCodeFence removes a markdown code-fence wrapper the model sometimes
// adds despite the prompt.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}

	s = strings.TrimSuffix(s, "```")
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return strings.TrimSpace(s)
}
