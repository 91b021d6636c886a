package enrich

import "strings"

// nodeLibraries maps vocabulary tokens to the client library whose docs
// describe the same service.
var nodeLibraries = map[string]string{
	"gmail":        "googleapis",
	"slack":        "slack",
	"googlesheets": "googleapis",
	"googledrive":  "googleapis",
	"github":       "octokit",
	"stripe":       "stripe",
	"twilio":       "twilio",
	"sendgrid":     "sendgrid",
	"mailchimp":    "mailchimp",
	"hubspot":      "hubspot",
	"salesforce":   "jsforce",
	"notion":       "@notionhq/client",
	"airtable":     "airtable",
	"mongodb":      "mongodb",
	"mysql":        "mysql2",
	"postgres":     "pg",
	"redis":        "redis",
	"aws":          "aws-sdk",
	"discord":      "discord.js",
	"telegram":     "telegraf",
	"twitter":      "twitter-api-v2",
	"openai":       "openai",
	"anthropic":    "@anthropic-ai/sdk",
}

var tokenPrefixes = []string{"n8n-nodes-base.", "@n8n/n8n-nodes-langchain."}

// Libraries maps required nodes to distinct library names, in first-seen
// order. Unknown tokens are skipped.
func Libraries(requiredNodes []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, node := range requiredNodes {
		token := strings.ToLower(strings.TrimSpace(node))
		for _, p := range tokenPrefixes {
			token = strings.TrimPrefix(token, p)
		}
		lib, ok := nodeLibraries[token]
		if !ok || seen[lib] {
			continue
		}
		seen[lib] = true
		out = append(out, lib)
	}
	return out
}
