package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raghav2405/invoice-backend/config"
	"github.com/raghav2405/invoice-backend/internal/pipeline"
	"github.com/raghav2405/invoice-backend/pkg/logger"
	"github.com/raghav2405/invoice-backend/pkg/ratelimit"
)

// Poller runs the Telegram long-polling loop on its own goroutine, routing
// updates into the conversation flow. It is started once at process startup
// and stopped non-blockingly at shutdown.
type Poller struct {
	api     *tgbotapi.BotAPI
	flow    *Flow
	limiter *ratelimit.Limiter
	logger  logger.Logger
	timeout int

	// allowedChat restricts the bot to a single chat when non-empty.
	allowedChat string

	// ack answers a callback query so the client stops its spinner.
	ack func(callbackID string)

	stopOnce sync.Once
	done     chan struct{}
}

func NewPoller(
	cfg *config.TelegramConfig,
	processor pipeline.Processor,
	limiter *ratelimit.Limiter,
	log logger.Logger,
) (*Poller, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	p := &Poller{
		api:         api,
		limiter:     limiter,
		logger:      log,
		timeout:     cfg.PollTimeout,
		allowedChat: cfg.ChatID,
		done:        make(chan struct{}),
	}
	p.ack = p.ackCallback
	p.flow = NewFlow(NewSessionStore(), p, p, processor, log)

	return p, nil
}

// Start registers the bot commands and begins consuming updates.
func (p *Poller) Start(ctx context.Context) error {
	if err := p.registerCommands(); err != nil {
		// Registration failure is non-fatal; the bot still answers.
		p.logger.Warn("Failed to register bot commands", logger.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout
	updates := p.api.GetUpdatesChan(u)

	go func() {
		defer close(p.done)
		p.logger.Info("Telegram poller started", logger.String("username", p.api.Self.UserName))
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				p.handleUpdate(ctx, update)
			}
		}
	}()

	return nil
}

// Stop ends polling. Any in-flight update keeps running to completion;
// cancellation only prevents entry into subsequent steps.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.api.StopReceivingUpdates()
	})
	<-p.done
	p.logger.Info("Telegram poller stopped")
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		q := update.CallbackQuery
		p.ack(q.ID)
		if q.Message == nil || !p.chatAllowed(q.Message.Chat.ID) {
			return
		}
		if !p.admit(q.Message.Chat.ID) {
			return
		}
		p.flow.HandleSelection(q.Message.Chat.ID, q.Data)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	if !p.chatAllowed(chatID) {
		return
	}
	if !p.admit(chatID) {
		return
	}

	switch {
	case msg.IsCommand() && msg.Command() == "invoices":
		p.flow.Start(chatID)
	case msg.IsCommand() && msg.Command() == "cancel":
		p.flow.Cancel(chatID)
	case msg.IsCommand() && msg.Command() == "help":
		if err := p.SendText(chatID, "Send /invoices to pick an invoice type, then upload the PDF. /cancel aborts."); err != nil {
			p.logger.Warn("Failed to send help message", logger.Error(err))
		}
	case msg.IsCommand() && msg.Command() == "status":
		if err := p.SendText(chatID, "Bot is running."); err != nil {
			p.logger.Warn("Failed to send status message", logger.Error(err))
		}
	case msg.Document != nil:
		p.flow.HandleDocument(ctx, chatID, &Attachment{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
		})
	case strings.EqualFold(strings.TrimSpace(msg.Text), "invoices"):
		p.flow.Start(chatID)
	}
}

func (p *Poller) chatAllowed(chatID int64) bool {
	return p.allowedChat == "" || p.allowedChat == strconv.FormatInt(chatID, 10)
}

// admit runs every update, message or callback, through the shared limiter
// keyed by chat ID.
func (p *Poller) admit(chatID int64) bool {
	if p.limiter.Admit(fmt.Sprintf("tg:%d", chatID)) {
		return true
	}
	p.logger.Warn("Rate limit exceeded for chat", logger.Int64("chatId", chatID))
	return false
}

func (p *Poller) ackCallback(callbackID string) {
	if _, err := p.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		p.logger.Warn("Failed to acknowledge callback", logger.Error(err))
	}
}

func (p *Poller) registerCommands() error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "invoices", Description: "Start the invoice process"},
		tgbotapi.BotCommand{Command: "help", Description: "Get help with the bot"},
		tgbotapi.BotCommand{Command: "status", Description: "Check whether the bot is running"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Cancel the current operation"},
	)
	_, err := p.api.Request(commands)
	return err
}

// SendText implements Messenger.
func (p *Poller) SendText(chatID int64, text string) error {
	_, err := p.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendInvoiceKeyboard implements Messenger.
func (p *Poller) SendInvoiceKeyboard(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = invoiceKeyboard()
	_, err := p.api.Send(msg)
	return err
}

// Fetch implements FileFetcher by downloading the attachment through the bot
// file API.
func (p *Poller) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	url, err := p.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
