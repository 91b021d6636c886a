package registry

import "github.com/agenthands/autoflow/internal/n8n"

// builtinTypes is served whenever the instance catalog cannot be fetched.
var builtinTypes = []n8n.NodeType{
	// triggers
	{Name: "n8n-nodes-base.webhook", DisplayName: "Webhook", Description: "Receive HTTP requests", Group: []string{"trigger"}},
	{Name: "n8n-nodes-base.manualTrigger", DisplayName: "Manual Trigger", Description: "Run manually", Group: []string{"trigger"}},
	{Name: "n8n-nodes-base.scheduleTrigger", DisplayName: "Schedule Trigger", Description: "Run on a schedule", Group: []string{"trigger"}},
	{Name: "n8n-nodes-base.emailReadImap", DisplayName: "Email Read (IMAP)", Description: "Read email", Group: []string{"trigger"}},

	// actions
	{Name: "n8n-nodes-base.slack", DisplayName: "Slack", Description: "Send Slack messages", Group: []string{"communication"}},
	{Name: "n8n-nodes-base.gmail", DisplayName: "Gmail", Description: "Send Gmail", Group: []string{"communication"}},
	{Name: "n8n-nodes-base.discord", DisplayName: "Discord", Description: "Discord messages", Group: []string{"communication"}},
	{Name: "n8n-nodes-base.telegram", DisplayName: "Telegram", Description: "Telegram Bot", Group: []string{"communication"}},
	{Name: "n8n-nodes-base.googleSheets", DisplayName: "Google Sheets", Description: "Google Sheets operations", Group: []string{"productivity"}},
	{Name: "n8n-nodes-base.notion", DisplayName: "Notion", Description: "Notion DB", Group: []string{"productivity"}},
	{Name: "n8n-nodes-base.httpRequest", DisplayName: "HTTP Request", Description: "Make HTTP requests", Group: []string{"core"}},

	// transform
	{Name: "n8n-nodes-base.code", DisplayName: "Code", Description: "JavaScript/Python code", Group: []string{"transform"}},
	{Name: "n8n-nodes-base.set", DisplayName: "Set", Description: "Set data fields", Group: []string{"transform"}},
	{Name: "n8n-nodes-base.itemLists", DisplayName: "Item Lists", Description: "Process arrays", Group: []string{"transform"}},

	// ai
	{Name: "@n8n/n8n-nodes-langchain.agent", DisplayName: "AI Agent", Description: "AI Agent", Group: []string{"ai"}},
	{Name: "@n8n/n8n-nodes-langchain.lmChatGoogleGemini", DisplayName: "Google Gemini Chat Model", Description: "Google Gemini", Group: []string{"ai"}},
	{Name: "@n8n/n8n-nodes-langchain.lmChatOpenAi", DisplayName: "OpenAI Chat Model", Description: "OpenAI GPT", Group: []string{"ai"}},
	{Name: "@n8n/n8n-nodes-langchain.lmChatAnthropic", DisplayName: "Anthropic Chat Model", Description: "Claude", Group: []string{"ai"}},
}
