package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
)

// defaultImagePrompt mirrors the server default so the local placeholder
// matches what gets stored.
const defaultImagePrompt = "Describe this image."

// Threads refreshes and prints the thread list, newest first.
func (a *App) Threads(ctx context.Context) error {
	threads, err := a.chatService.Threads(ctx)
	if err != nil {
		return err
	}
	a.threads = threads

	if len(threads) == 0 {
		fmt.Fprintln(a.out, "No conversations yet. Just type a question to start one.")
		return nil
	}
	for i, t := range threads {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, t.Title)
	}
	return nil
}

// resolve maps a 1-based list position or a raw id to a thread id.
func (a *App) resolve(ref string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.threads) {
		return a.threads[n-1].ID
	}
	return ref
}

// Open loads a thread's history and makes it the active conversation.
func (a *App) Open(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("usage: open <number|id>")
	}
	id := a.resolve(ref)

	t, err := a.chatService.Thread(ctx, id)
	if err != nil {
		return err
	}
	if t.Messages == nil {
		t.Messages = []models.Message{}
	}
	a.active = t
	a.view = ViewChat

	fmt.Fprintf(a.out, "--- %s ---\n", a.threadTitle(t.ID))
	a.printMessages(t.Messages)
	return nil
}

// NewThread starts an empty conversation with a fresh client-side id.
func (a *App) NewThread(_ context.Context) error {
	a.active = &models.Thread{ID: a.chatService.NewThreadID(), Messages: []models.Message{}}
	a.view = ViewChat
	fmt.Fprintln(a.out, "New conversation started.")
	return nil
}

// Send posts text to the active thread, starting one if needed.
func (a *App) Send(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("usage: send <message>")
	}
	return a.exchange(ctx, text, text, func(threadID string) (string, error) {
		return a.chatService.Send(ctx, threadID, text)
	})
}

// Image uploads the picture at path with an optional question about it.
func (a *App) Image(ctx context.Context, path, prompt string) error {
	if path == "" {
		return fmt.Errorf("usage: image <path> [prompt]")
	}
	shown := prompt
	if shown == "" {
		shown = defaultImagePrompt
	}
	return a.exchange(ctx, "[Image: "+shown+"]", shown, func(threadID string) (string, error) {
		return a.chatService.SendImage(ctx, threadID, path, prompt)
	})
}

// exchange shows the user's message right away and rolls it back if the
// request fails. A brand new thread gets a provisional local title.
func (a *App) exchange(ctx context.Context, bubble, titleSource string, call func(threadID string) (string, error)) error {
	if a.active == nil {
		_ = a.NewThread(ctx)
	}
	t := a.active

	isNew := len(t.Messages) == 0 && !a.listed(t.ID)
	if isNew {
		a.threads = append([]models.Thread{{ID: t.ID, Title: models.LocalTitle(titleSource), Messages: []models.Message{}}}, a.threads...)
	}

	t.Messages = append(t.Messages, models.Message{Sender: models.SenderUser, Content: bubble})
	fmt.Fprintln(a.out, "Krishi is thinking...")

	reply, err := call(t.ID)
	if err != nil {
		t.Messages = t.Messages[:len(t.Messages)-1]
		if isNew {
			a.unlist(t.ID)
		}
		return err
	}

	m := models.Message{Sender: models.SenderAI, Content: reply}
	t.Messages = append(t.Messages, m)
	a.printMessage(m)
	return nil
}

// Delete removes a thread on the server and from the local state.
func (a *App) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("usage: delete <number|id>")
	}
	id := a.resolve(ref)

	if err := a.chatService.Delete(ctx, id); err != nil {
		return err
	}

	a.unlist(id)
	if a.active != nil && a.active.ID == id {
		a.active = nil
	}
	fmt.Fprintf(a.out, "Thread %s deleted successfully.\n", id)
	return nil
}

func (a *App) listed(id string) bool {
	for _, t := range a.threads {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (a *App) unlist(id string) {
	kept := a.threads[:0]
	for _, t := range a.threads {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	a.threads = kept
}
