package events

import "github.com/IgorGrieder/linkly-connector/internal/processing/trigger"

// ClickReceived is published once per inbound Linkly click webhook.
type ClickReceived struct {
	EventID    string             `json:"eventId"`
	NodeID     string             `json:"nodeId"`
	ReceivedAt string             `json:"receivedAt"`
	Click      trigger.ClickEvent `json:"click"`
}
