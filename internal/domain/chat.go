package domain

// Role represents the sender of a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatTurn is one message in a displayed conversation. Position in the
// slice is chronological order.
type ChatTurn struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatRequest carries the full turn history for a reply
type ChatRequest struct {
	Messages []ChatTurn `json:"messages"`
}

// GuestChatRequest is a reply request made on behalf of an arbitrary user id
type GuestChatRequest struct {
	Messages []ChatTurn `json:"messages"`
	UserID   string     `json:"user_id" validate:"required"`
}

// ChatReply is the result of a one-shot reply
type ChatReply struct {
	Response string `json:"response"`
}

// ChatHistoryEntry is one stored exchange. It is owned by the backend and
// never modified by the client.
type ChatHistoryEntry struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	SessionID   string `json:"session_id"`
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   string `json:"timestamp"`
	CreatedAt   string `json:"created_at"`
}

// ChatHistoryResponse lists a user's exchanges, newest first
type ChatHistoryResponse struct {
	UserID     string             `json:"user_id"`
	TotalChats int                `json:"total_chats"`
	Chats      []ChatHistoryEntry `json:"chats"`
}

// HistoryDeleteResult reports how many exchanges were removed
type HistoryDeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}
