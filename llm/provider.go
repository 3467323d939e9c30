package llm

import (
	"log/slog"
	"strings"

	"matchai-service/config"
	"matchai-service/metrics"
)

// FromConfig builds the advisor selected by LLM_PROVIDER, wrapped in the
// fallback decorator.
func FromConfig(rec metrics.Recorder) *Fallback {
	var completer Completer
	provider := strings.ToLower(config.Default("LLM_PROVIDER", "gemini"))

	switch provider {
	case "gemini":
		completer = NewGemini(
			config.Config("GOOGLE_API_KEY"),
			config.Config("GEMINI_MODEL"),
			config.Config("GEMINI_BASE_URL"),
		)
	case "openai":
		completer = NewOpenAI(
			config.Config("OPENAI_API_KEY"),
			config.Config("OPENAI_MODEL"),
			config.Config("OPENAI_BASE_URL"),
		)
	default:
		provider = "none"
		completer = Unavailable{}
	}

	timeout := config.Duration("LLM_TIMEOUT", DefaultTimeout)
	slog.Info("llm advisor configured", "provider", provider, "timeout", timeout)
	return WithFallback(NewAdvisor(completer), timeout, rec)
}
