package model

import (
	"bytes"
	"encoding/json"
)

// n8n attaches settings to nodes and workflows that the rest of the system
// never reads (retryOnFail, onError, notes, pinData, tags...). They are kept
// verbatim in Extra so a decoded graph re-encodes without losing them.

var (
	nodeKeys     = keySet("id", "name", "type", "typeVersion", "position", "parameters", "credentials", "webhookId", "disabled")
	workflowKeys = keySet("id", "name", "nodes", "connections", "settings")
)

type nodeFields Node

func (n *Node) UnmarshalJSON(b []byte) error {
	var v nodeFields
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	extra, err := unknownFields(b, nodeKeys)
	if err != nil {
		return err
	}
	v.Extra = extra
	*n = Node(v)
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	return withExtra(nodeFields(n), n.Extra)
}

type workflowFields Workflow

func (w *Workflow) UnmarshalJSON(b []byte) error {
	var v workflowFields
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	extra, err := unknownFields(b, workflowKeys)
	if err != nil {
		return err
	}
	v.Extra = extra
	*w = Workflow(v)
	return nil
}

func (w Workflow) MarshalJSON() ([]byte, error) {
	return withExtra(workflowFields(w), w.Extra)
}

func keySet(keys ...string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

// unknownFields returns the members of the JSON object b not named in known,
// or nil when there are none.
func unknownFields(b []byte, known map[string]bool) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for k, raw := range all {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = raw
	}
	return extra, nil
}

// withExtra encodes v and adds the extra members. Modelled fields win over
// an extra of the same name.
func withExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := fields[k]; !ok {
			fields[k] = raw
		}
	}
	return json.Marshal(fields)
}

func copyExtra(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, raw := range m {
		out[k] = bytes.Clone(raw)
	}
	return out
}
