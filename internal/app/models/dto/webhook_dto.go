package dto

import (
	"encoding/json"
	"fmt"
)

// WebhookPayload is an inbound WAHA event. Fields other than event, session
// and payload are kept in Extra.
type WebhookPayload struct {
	Event   *string                    `json:"event"`
	Session *string                    `json:"session"`
	Payload map[string]any             `json:"payload"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON requires a JSON object whose known fields have the right shape
func (p *WebhookPayload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("webhook body must be a JSON object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("webhook body must be a JSON object")
	}

	var out WebhookPayload
	for name, raw := range fields {
		var err error
		switch name {
		case "event":
			err = json.Unmarshal(raw, &out.Event)
		case "session":
			err = json.Unmarshal(raw, &out.Session)
		case "payload":
			err = json.Unmarshal(raw, &out.Payload)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[name] = raw
		}
		if err != nil {
			return fmt.Errorf("webhook field %q: %w", name, err)
		}
	}
	if out.Payload == nil {
		out.Payload = map[string]any{}
	}

	*p = out
	return nil
}

// MarshalJSON writes the known fields and the extras back into one object
func (p WebhookPayload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["event"] = p.Event
	out["session"] = p.Session
	payload := p.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	out["payload"] = payload
	return json.Marshal(out)
}

// EventName returns the event or "unknown"
func (p *WebhookPayload) EventName() string {
	if p.Event == nil || *p.Event == "" {
		return "unknown"
	}
	return *p.Event
}

// SessionName returns the session or "unknown"
func (p *WebhookPayload) SessionName() string {
	if p.Session == nil || *p.Session == "" {
		return "unknown"
	}
	return *p.Session
}

// WebhookResponse acknowledges a webhook
type WebhookResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is the webhook health check body
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
