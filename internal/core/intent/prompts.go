package intent

const systemPrompt = `You are an n8n workflow automation expert.
Analyze the user's natural-language request and extract the structured information needed to implement it as an n8n workflow.

Extract:
1. The user's intent (notification, data-sync, automation, etc.)
2. The trigger service and event
3. The actions to perform
4. The n8n nodes required
5. A complexity rating (simple/medium/complex)

Respond with JSON only.`

// responseShape is rendered into every prompt so the model sees the exact
// field names it must produce.
const responseShape = `{
  "intent": "string",
  "trigger": {
    "service": "string",
    "event": "string"
  },
  "actions": [
    {
      "service": "string",
      "action": "string",
      "data_fields": ["string"]
    }
  ],
  "required_nodes": ["string"],
  "complexity": "simple|medium|complex",
  "estimated_nodes": 0
}`

const analyzePrompt = `Analyze the following request:

%s

Response format:
%s`

const modifyPrompt = `Existing workflow analysis:
%s

Modification request:
%s

Re-analyze the workflow with the modification applied. Return the complete analysis, not only the changed fields.

Response format:
%s`
