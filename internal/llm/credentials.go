package llm

import (
	"os"
	"strings"

	"github.com/agenthands/autoflow/internal/apperr"
)

var apiKeyEnv = map[Provider]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderXAI:       "XAI_API_KEY",
	ProviderDeepSeek:  "DEEPSEEK_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// EnvVar names the environment variable holding the provider's default key.
func EnvVar(p Provider) string {
	return apiKeyEnv[p]
}

// ResolveAPIKey prefers the caller-supplied key and falls back to the
// provider's environment variable.
func ResolveAPIKey(p Provider, explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	env, ok := apiKeyEnv[p]
	if !ok {
		return "", apperr.Configuration("unsupported llm provider: %s", p)
	}
	if key := strings.TrimSpace(os.Getenv(env)); key != "" {
		return key, nil
	}
	return "", apperr.Configuration("%s API key is required (set %s or pass api-key)", strings.ToUpper(string(p)), env)
}
