package dto

import "time"

type RegisterDeviceRequest struct {
	Token string `json:"token" validate:"required,min=10"`
}

type NotificationResponse struct {
	ID        uint                   `json:"id"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// AlertPayload is what fanout delivers to each trusted contact when a
// phishing URL is blocked.
type AlertPayload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}
