package trigger

import "strings"

// Click events a trigger node can listen to.
const (
	EventWorkspaceClick = "workspaceClick"
	EventLinkClick      = "linkClick"
)

// Node is a configured trigger. WebhookURL is the public callback Linkly
// posts clicks to.
type Node struct {
	ID         string `json:"id"`
	Event      string `json:"event"`
	LinkID     int64  `json:"linkId,omitempty"`
	WebhookURL string `json:"webhookUrl"`
}

// WebhookURL builds the public callback for a node id.
func WebhookURL(publicBaseURL, nodeID string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/webhooks/linkly/" + nodeID
}

// NodeState is what survives between activations of a node. The scope it
// was created under is not recorded.
type NodeState struct {
	WebhookID string `json:"webhookId,omitempty" bson:"webhookId,omitempty"`
	LinkID    *int64 `json:"linkId,omitempty" bson:"linkId,omitempty"`
}

func (s NodeState) IsZero() bool {
	return s.WebhookID == "" && s.LinkID == nil
}

// Status is a node together with its persisted subscription record.
type Status struct {
	Node  Node      `json:"node"`
	State NodeState `json:"state"`
}

// ClickEvent is the flat record emitted for each inbound click. Fields
// missing from the payload are nil and omitted when encoded.
type ClickEvent struct {
	ID        string `json:"id" bson:"id"`
	LinkID    any    `json:"link_id,omitempty" bson:"link_id,omitempty"`
	Timestamp any    `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	Country   any    `json:"country,omitempty" bson:"country,omitempty"`
	Platform  any    `json:"platform,omitempty" bson:"platform,omitempty"`
	Browser   any    `json:"browser,omitempty" bson:"browser,omitempty"`
	Referer   any    `json:"referer,omitempty" bson:"referer,omitempty"`
	ISP       any    `json:"isp,omitempty" bson:"isp,omitempty"`
	Bot       any    `json:"bot,omitempty" bson:"bot,omitempty"`
	URL       any    `json:"url,omitempty" bson:"url,omitempty"`
	Params    any    `json:"params,omitempty" bson:"params,omitempty"`
}
