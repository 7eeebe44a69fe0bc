package config

import (
	"sync"
)

var (
	telegramOnce   sync.Once
	telegramConfig *TelegramConfig
)

type TelegramConfig struct {
	BotToken    string
	ChatID      string
	PollTimeout int // seconds, long-polling
}

func GetTelegramConfig() *TelegramConfig {
	telegramOnce.Do(func() {
		loadEnv()

		telegramConfig = &TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:      getEnv("CHAT_ID", ""),
			PollTimeout: getEnvAsInt("TELEGRAM_POLL_TIMEOUT", 30),
		}
	})
	return telegramConfig
}
