package notification

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// Tag is shared by every message notification so a new one replaces any
	// notification of the same kind still on screen.
	Tag = "message-notification"

	ActionOpen  = "open"
	ActionClose = "close"

	DefaultIcon          = "/logo192.png"
	DefaultBadge         = "/badge72.png"
	DefaultDashboardPath = "/dashboard"
)

// ErrPayload wraps every push payload decoding failure.
var ErrPayload = errors.New("malformed push payload")

// vibratePattern is on/off/on in milliseconds.
var vibratePattern = []int{200, 100, 200}

// PushData is the routing part of a push payload.
type PushData struct {
	URL string `json:"url,omitempty"`
}

// PushPayload is the wire format of a push message.
type PushPayload struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Data  PushData `json:"data"`
}

// Action is a button rendered on a notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Descriptor is everything the platform needs to render a notification.
type Descriptor struct {
	Title              string   `json:"title"`
	Body               string   `json:"body"`
	Icon               string   `json:"icon"`
	Badge              string   `json:"badge"`
	Tag                string   `json:"tag"`
	RequireInteraction bool     `json:"requireInteraction"`
	Vibrate            []int    `json:"vibrate"`
	Actions            []Action `json:"actions"`
	Data               PushData `json:"data"`
}

// ParsePayload decodes a push message body.
func ParsePayload(raw []byte) (PushPayload, error) {
	if len(raw) == 0 {
		return PushPayload{}, fmt.Errorf("%w: empty body", ErrPayload)
	}
	var p *PushPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return PushPayload{}, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	if p == nil {
		return PushPayload{}, fmt.Errorf("%w: null body", ErrPayload)
	}
	return *p, nil
}

// Encode renders p in wire format.
func (p PushPayload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

func newDescriptor(p PushPayload, icon, badge string) Descriptor {
	return Descriptor{
		Title:              p.Title,
		Body:               p.Body,
		Icon:               icon,
		Badge:              badge,
		Tag:                Tag,
		RequireInteraction: true,
		Vibrate:            append([]int(nil), vibratePattern...),
		Actions: []Action{
			{Action: ActionOpen, Title: "Open"},
			{Action: ActionClose, Title: "Close"},
		},
		Data: p.Data,
	}
}
