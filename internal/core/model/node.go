package model

import "encoding/json"

// StickyNoteType is the n8n annotation node type. Notes carry no executable
// behaviour and are skipped by graph checks that only care about execution.
const StickyNoteType = "n8n-nodes-base.stickyNote"

// Position is an [x, y] canvas coordinate.
type Position [2]float64

type Node struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion float64        `json:"typeVersion,omitempty"`
	Position    Position       `json:"position"`
	Parameters  map[string]any `json:"parameters,omitzero"`
	Credentials map[string]any `json:"credentials,omitzero"`
	WebhookID   string         `json:"webhookId,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`

	// Extra holds node members without a field above, as sent.
	Extra map[string]json.RawMessage `json:"-"`
}

func (n Node) IsNote() bool {
	return n.Type == StickyNoteType
}

// Label is the name used in logs and errors: name, then id.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
