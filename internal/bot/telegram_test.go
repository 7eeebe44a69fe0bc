package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghav2405/invoice-backend/internal/models"
	"github.com/raghav2405/invoice-backend/internal/pipeline"
	"github.com/raghav2405/invoice-backend/pkg/logger"
	"github.com/raghav2405/invoice-backend/pkg/ratelimit"
)

func newTestPoller(t *testing.T, limit int) (*Poller, *fakeMessenger, *fakeProcessor) {
	t.Helper()
	messenger := &fakeMessenger{}
	fetcher := &fakeFetcher{data: []byte("%PDF-1.4")}
	processor := &fakeProcessor{
		result: &pipeline.Result{
			Document: &models.UploadedDocument{BaseModel: models.BaseModel{ID: "doc-1"}},
		},
	}
	log := logger.NewTestLogger()

	p := &Poller{
		limiter: ratelimit.NewLimiter(limit, time.Minute),
		logger:  log,
		ack:     func(string) {},
		done:    make(chan struct{}),
	}
	p.flow = NewFlow(NewSessionStore(), messenger, fetcher, processor, log)
	return p, messenger, processor
}

func callbackUpdate(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			Data:    data,
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		},
	}
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text},
	}
}

func TestHandleUpdateTextStartsFlow(t *testing.T) {
	p, messenger, _ := newTestPoller(t, 10)

	p.handleUpdate(context.Background(), textUpdate(42, "Invoices"))

	require.Len(t, messenger.keyboards, 1)
	session, ok := p.flow.sessions.Get(42)
	require.True(t, ok)
	assert.Equal(t, StateSelectInvoice, session.State)
}

func TestHandleUpdateCallbackDrivesSelection(t *testing.T) {
	p, messenger, _ := newTestPoller(t, 10)
	p.flow.Start(42)

	p.handleUpdate(context.Background(), callbackUpdate(42, string(models.SalesInvoice)))

	session, ok := p.flow.sessions.Get(42)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingPDF, session.State)
	require.Len(t, messenger.texts, 1)
	assert.Equal(t, "You selected: Sales Invoice. Please upload a PDF file.", messenger.texts[0])
}

func TestHandleUpdateCallbackGoesThroughLimiter(t *testing.T) {
	p, messenger, _ := newTestPoller(t, 0)
	p.flow.Start(42)
	messenger.texts = nil

	p.handleUpdate(context.Background(), callbackUpdate(42, string(models.SalesInvoice)))

	assert.Empty(t, messenger.texts)
	session, ok := p.flow.sessions.Get(42)
	require.True(t, ok)
	assert.Equal(t, StateSelectInvoice, session.State, "a rejected callback must not advance the conversation")
}

func TestHandleUpdateMessageGoesThroughLimiter(t *testing.T) {
	p, messenger, _ := newTestPoller(t, 1)

	p.handleUpdate(context.Background(), textUpdate(42, "invoices"))
	p.handleUpdate(context.Background(), textUpdate(42, "invoices"))

	assert.Len(t, messenger.keyboards, 1)
}

func TestHandleUpdateIgnoresOtherChats(t *testing.T) {
	p, messenger, _ := newTestPoller(t, 10)
	p.allowedChat = "99"

	p.handleUpdate(context.Background(), textUpdate(42, "invoices"))
	p.handleUpdate(context.Background(), callbackUpdate(42, string(models.SalesInvoice)))

	assert.Empty(t, messenger.keyboards)
	assert.Empty(t, messenger.texts)

	p.handleUpdate(context.Background(), textUpdate(99, "invoices"))
	assert.Len(t, messenger.keyboards, 1)
}
