package model

// WebSocket message types
type WSMessageType string

const (
	WSMessageTypeProgress WSMessageType = "progress"
	WSMessageTypeComplete WSMessageType = "complete"
	WSMessageTypeError    WSMessageType = "error"
	WSMessageTypePing     WSMessageType = "ping"
	WSMessageTypePong     WSMessageType = "pong"
)

// WSMessage is the generic envelope used for ping/pong
type WSMessage struct {
	Type WSMessageType `json:"type"`
}

// WSProgressMessage pushes job progress to subscribers
type WSProgressMessage struct {
	Type      WSMessageType `json:"type"`
	JobID     string        `json:"jobId"`
	Status    JobStatus     `json:"status"`
	Processed int           `json:"processed"`
	Total     int           `json:"total"`
	Message   string        `json:"message"`
	Warnings  int           `json:"warnings"`
}

// WSCompleteMessage announces a terminal completed job
type WSCompleteMessage struct {
	Type   WSMessageType `json:"type"`
	JobID  string        `json:"jobId"`
	Result interface{}   `json:"result"`
}

// WSErrorMessage announces a terminal failed job
type WSErrorMessage struct {
	Type  WSMessageType `json:"type"`
	JobID string        `json:"jobId"`
	Error WSError       `json:"error"`
}

type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
