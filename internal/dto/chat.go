package dto

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	Category string `json:"category"`
	VideoURL string `json:"video_url,omitempty"`
}

// TurnResponse is the stable turn-record shape consumed by any
// persistence or logging collaborator.
type TurnResponse struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url,omitempty"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []TurnResponse `json:"turns"`
}
