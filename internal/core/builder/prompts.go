package builder

import (
	"fmt"
	"strings"

	"github.com/agenthands/autoflow/internal/core/common"
	"github.com/agenthands/autoflow/internal/core/model"
)

const systemPromptHeader = `You generate n8n workflow JSON.

Absolute rules:
1. Never invent node types. Only the official node types listed below exist.
2. Every node must be executable and carry all required parameters.
3. Connections must reference nodes by their exact name.
4. position is always a [number, number] pair.

Allowed node types (use only these):
`

const systemPromptFooter = `
Never create custom nodes such as "Google Translate" or "Analyze Feedback". A type that is not in the list above is an invalid answer.

Return only a complete, executable n8n workflow JSON object.`

// exampleWorkflow is the worked example shown in every generation prompt.
const exampleWorkflow = `{
  "name": "Gmail → Slack",
  "nodes": [
    {
      "id": "trigger",
      "type": "n8n-nodes-base.emailReadImap",
      "typeVersion": 2,
      "position": [0, 300],
      "parameters": {
        "mailbox": "INBOX",
        "postProcessAction": "mark",
        "options": {}
      },
      "name": "Gmail Trigger"
    },
    {
      "id": "code1",
      "type": "n8n-nodes-base.code",
      "typeVersion": 2,
      "position": [200, 300],
      "parameters": {
        "language": "javaScript",
        "jsCode": "return items.map(item => ({\n  json: {\n    subject: item.json.subject,\n    from: item.json.from,\n    text: item.json.text\n  }\n}));"
      },
      "name": "Extract Fields"
    },
    {
      "id": "slack1",
      "type": "n8n-nodes-base.slack",
      "typeVersion": 2,
      "position": [400, 300],
      "parameters": {
        "resource": "message",
        "operation": "post",
        "channel": "#general",
        "text": "={{$json.subject}}"
      },
      "name": "Slack"
    }
  ],
  "connections": {
    "Gmail Trigger": {
      "main": [[{"node": "Extract Fields", "type": "main", "index": 0}]]
    },
    "Extract Fields": {
      "main": [[{"node": "Slack", "type": "main", "index": 0}]]
    }
  },
  "settings": {
    "executionOrder": "v1"
  }
}`

var categoryTitles = []struct {
	category model.Category
	title    string
}{
	{model.CategoryTrigger, "Trigger nodes"},
	{model.CategoryAction, "Action nodes"},
	{model.CategoryTransform, "Data processing nodes"},
	{model.CategoryAI, "AI/LLM nodes (prefer these for AI tasks)"},
}

// systemPrompt renders the closed vocabulary grouped by category.
func systemPrompt(catalog []model.Capability) string {
	var b strings.Builder
	b.WriteString(systemPromptHeader)
	for _, group := range categoryTitles {
		var lines []string
		for _, c := range catalog {
			if c.Category != group.category || c.Name == model.StickyNoteType {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", c.Name, c.DisplayName))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", group.title, strings.Join(lines, "\n"))
	}
	b.WriteString(systemPromptFooter)
	return b.String()
}

func userPrompt(in *model.Intent, userText, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Intent analysis:\n%s\n\n", common.PrettyJSON(in))
	fmt.Fprintf(&b, "User request: %q\n\n", userText)

	if contextText != "" {
		fmt.Fprintf(&b, "## Reference documentation (follow it)\n\n%s\n\n", contextText)
	}

	b.WriteString(`Warning: custom nodes are forbidden.
- Use only the node types listed in the system prompt.
- AI work uses ` + "`@n8n/n8n-nodes-langchain.agent`" + ` or a chat model node.
- Translation or analysis happens in ` + "`n8n-nodes-base.code`" + ` or an AI Agent.

Example:
`)
	b.WriteString(exampleWorkflow)
	b.WriteString(`

Requirements:
1. Trigger: an official trigger node such as n8n-nodes-base.webhook or n8n-nodes-base.manualTrigger.
2. Data processing: n8n-nodes-base.code.
3. AI tasks: @n8n/n8n-nodes-langchain.agent combined with a chat model node.
4. Actions: official nodes such as n8n-nodes-base.slack or n8n-nodes-base.gmail.
5. connections: every node connected correctly, by node name.
6. position: [x, y], x increasing by 200 per step.
7. settings: {"executionOrder": "v1"}.
`)
	if contextText != "" {
		b.WriteString("8. Use the nodes the reference documentation recommends.\n")
	}
	b.WriteString("\nReturn JSON only, without explanation.")
	return b.String()
}
