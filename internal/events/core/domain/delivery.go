package domain

// SessionData is the per-delivery session metadata sent with every batch.
type SessionData struct {
	StartTime     int64  `json:"startTime"`
	Duration      int64  `json:"duration"`
	UserAgent     string `json:"userAgent"`
	Language      string `json:"language"`
	Platform      string `json:"platform"`
	CookieEnabled bool   `json:"cookieEnabled"`
	OnLine        bool   `json:"onLine"`
}

// DeliveryPayload is the body posted to the remote collector.
type DeliveryPayload struct {
	SessionID   string      `json:"sessionId"`
	UserID      string      `json:"userId"`
	Events      []Event     `json:"events"`
	SessionData SessionData `json:"sessionData"`
}
