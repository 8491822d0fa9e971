package models

// Sender tags a transcript entry for styling
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the sender tag
func (s Sender) String() string {
	return string(s)
}

// Message is a single transcript entry. It only lives in memory.
type Message struct {
	Sender Sender
	Text   string
	// Failed marks a bot entry that reports a failed exchange
	Failed bool
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message string `json:"message"`
	Persona string `json:"persona"`
}

// ChatResponse is the body of a successful POST /chat
type ChatResponse struct {
	Response string `json:"response"`
}

