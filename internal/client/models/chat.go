// Package models holds the client-side view of users, threads and messages
// as they travel over the KrishiSahayak HTTP API.
package models

import "strings"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is what register and login return.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
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

// Thread is a conversation. Lists from the server carry an empty Messages
// slice; the full history is fetched when the thread is opened.
type Thread struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Messages []Message `json:"messages"`
}

// LocalTitle is shown for a thread the server has not listed yet:
// the first three words of its opening message followed by "...".
func LocalTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ") + "..."
}
