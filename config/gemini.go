package config

import (
	"sync"
)

var (
	geminiOnce   sync.Once
	geminiConfig *GeminiConfig
)

type GeminiConfig struct {
	APIKey string
	Model  string
}

func GetGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		loadEnv()

		geminiConfig = &GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		}
	})
	return geminiConfig
}
