package intent

type Example struct {
	Input       string `json:"input"`
	Description string `json:"description"`
}

var examples = []Example{
	{Input: "Notify me on KakaoTalk when a new subscriber joins my Stibee list", Description: "Email marketing tool → messenger alert"},
	{Input: "Send new Gmail messages to Slack", Description: "Email → team chat"},
	{Input: "Record new shop orders in Google Sheets and send a KakaoTalk alert", Description: "E-commerce → storage + alert"},
	{Input: "Every morning at 9 post yesterday's sales report to Slack", Description: "Schedule trigger → aggregation → report"},
	{Input: "Save new Instagram followers to Notion", Description: "Social media → notes app"},
}

// Examples returns sample requests shown to users as guidance.
func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}
