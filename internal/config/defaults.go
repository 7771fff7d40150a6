package config

const (
	defaultDataDir            = "~/.local/share/salita"
	defaultLogDir             = "~/.local/share/salita/logs"
	defaultAPIBind            = "127.0.0.1:7480"
	defaultQuestDailyCount    = 3
	defaultQuestTimezone      = "Asia/Manila"
	defaultNLPBaseURL         = "http://127.0.0.1:5000"
	defaultNLPTimeoutSeconds  = 8
	defaultNLPRetryAttempts   = 2
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/salita-app/salita"
	defaultLLMTitle           = "Salita Tutor"
	defaultLLMTimeoutSeconds  = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLeaderboardLimit   = 10
	defaultHistoryLimit       = 20
	defaultMaxQuestDailyCount = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Quests: Quests{
			DailyCount: defaultQuestDailyCount,
			Timezone:   defaultQuestTimezone,
		},
		NLP: NLP{
			Enabled:        true,
			BaseURL:        defaultNLPBaseURL,
			TimeoutSeconds: defaultNLPTimeoutSeconds,
			RetryAttempts:  defaultNLPRetryAttempts,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Metrics: Metrics{
			Enabled: true,
		},
		API: API{
			LeaderboardLimit: defaultLeaderboardLimit,
			HistoryLimit:     defaultHistoryLimit,
		},
	}
}
