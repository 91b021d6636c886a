package repair

const logSystemPrompt = `You are an n8n workflow debugging expert.
Analyze the error log and:
1. Identify the root cause
2. Rate the severity (low/medium/high/critical)
3. Propose a concrete fix
4. Decide whether the fix can be applied automatically

Respond in JSON.`

const screenshotSystemPrompt = `You are an n8n workflow debugging expert.
Analyze the screenshot of the workflow editor and find:
1. Which node failed
2. Red error markers or warning messages
3. Mismatches between input and output data
4. Likely causes and how to fix them

Respond in JSON.`

const diagnosisShape = `{
  "error_analysis": {
    "error_type": "string",
    "affected_node": "string",
    "root_cause": "string",
    "severity": "low|medium|high|critical"
  },
  "suggested_fix": {
    "description": "string",
    "code_changes": {"<node name>": {"<parameter>": "<new value>"}},
    "manual_steps": []
  },
  "auto_apply": false
}`

