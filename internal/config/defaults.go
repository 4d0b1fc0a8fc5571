package config

const (
	defaultDataDir           = "~/.local/share/adflow/data"
	defaultLogDir            = "~/.local/share/adflow/logs"
	defaultAPIBind           = "127.0.0.1:8410"
	defaultAllowedOrigin     = "http://localhost:3000"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "anthropic/claude-sonnet-4"
	defaultLLMReferer        = "https://github.com/adflow/adflow"
	defaultLLMTitle          = "AdFlow Ideation"
	defaultLLMTimeoutSeconds = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		HTTP: HTTP{
			AllowedOrigins: []string{defaultAllowedOrigin},
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
	}
}
