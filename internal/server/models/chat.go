package models

import "time"

// ChatEntry is one persisted exchange: the user's message and the AI reply.
type ChatEntry struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ThreadID  string    `db:"thread_id"`
	Message   string    `db:"message"`
	Response  string    `db:"response"`
	CreatedAt time.Time `db:"created_at"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type Message struct {
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
}

// Thread is the reconstructed view of all entries sharing a thread id.
// Messages is never nil so an unknown thread encodes as an empty list.
type Thread struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// ThreadSummary is a listing row: the thread id and its first message.
type ThreadSummary struct {
	ID    string `db:"thread_id" json:"id"`
	Title string `db:"title" json:"title"`
}

// Expand turns entries into the alternating user/ai message sequence.
func Expand(entries []ChatEntry) []Message {
	msgs := make([]Message, 0, len(entries)*2)
	for _, e := range entries {
		msgs = append(msgs,
			Message{Sender: SenderUser, Content: e.Message},
			Message{Sender: SenderAI, Content: e.Response},
		)
	}
	return msgs
}
