package enrich

import (
	"strings"
	"unicode"
)

const agentNode = "@n8n/n8n-nodes-langchain.agent"

var (
	aiWords        = []string{"ai", "gpt", "gemini", "claude", "llm", "chatgpt", "openai", "anthropic", "agent", "summarize", "summarise", "summary", "classify", "sentiment", "chatbot"}
	translateWords = []string{"translate", "translation", "analyze", "analyse", "analysis", "extract"}
	scheduleWords  = []string{"every", "daily", "hourly", "weekly", "morning", "schedule", "cron"}
	webhookWords   = []string{"webhook", "form", "http", "callback", "endpoint"}
)

// Guide derives node usage hints from the request wording alone. It returns
// an empty string when nothing applies.
func Guide(userText string) string {
	words := tokenize(userText)
	var hints []string

	if containsAny(words, aiWords) {
		hints = append(hints, "- AI tasks must use `"+agentNode+"` with a chat model node attached through an `ai_languageModel` connection.")
		hints = append(hints, "- Chat model: `"+chatModel(words)+"`.")
	}
	if containsAny(words, translateWords) {
		hints = append(hints, "- Translation and analysis run inside the AI Agent or a `n8n-nodes-base.code` node. Do not invent nodes such as \"Google Translate\" or \"Analyze Feedback\".")
	}
	if containsAny(words, scheduleWords) {
		hints = append(hints, "- Time based requests start with `n8n-nodes-base.scheduleTrigger`.")
	}
	if containsAny(words, webhookWords) {
		hints = append(hints, "- Inbound HTTP requests start with `n8n-nodes-base.webhook`; set `parameters.path`.")
	}

	if len(hints) == 0 {
		return ""
	}
	return "\n## Node usage guide\n\n" + strings.Join(hints, "\n") + "\n"
}

func chatModel(words map[string]bool) string {
	switch {
	case words["gemini"]:
		return "@n8n/n8n-nodes-langchain.lmChatGoogleGemini"
	case words["claude"], words["anthropic"]:
		return "@n8n/n8n-nodes-langchain.lmChatAnthropic"
	default:
		return "@n8n/n8n-nodes-langchain.lmChatOpenAi"
	}
}

func tokenize(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		out[w] = true
	}
	return out
}

func containsAny(words map[string]bool, candidates []string) bool {
	for _, c := range candidates {
		if words[c] {
			return true
		}
	}
	return false
}
