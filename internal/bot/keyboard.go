package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raghav2405/invoice-backend/internal/models"
)

// invoiceKeyboard lays out the fixed invoice type choices two per row, with
// the type tag as callback data.
func invoiceKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(models.InvoiceTypes); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for _, t := range models.InvoiceTypes[i:min(i+2, len(models.InvoiceTypes))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(t.DisplayName(), string(t)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
