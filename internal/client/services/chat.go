package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/krishisahayak/internal/client/client"
	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
	"github.com/google/uuid"
)

// MaxImageBytes matches the server's upload limit.
const MaxImageBytes = 10 << 20

// ChatService covers thread browsing and sending for a logged-in user.
type ChatService interface {
	NewThreadID() string
	Threads(ctx context.Context) ([]models.Thread, error)
	Thread(ctx context.Context, threadID string) (*models.Thread, error)
	Delete(ctx context.Context, threadID string) error
	Send(ctx context.Context, threadID, text string) (string, error)
	SendImage(ctx context.Context, threadID, path, prompt string) (string, error)
}

type chatService struct {
	client client.Client
	newID  func() string
}

func NewChatService(c client.Client) ChatService {
	return &chatService{client: c, newID: uuid.NewString}
}

// NewThreadID returns a fresh client-side thread id.
func (s *chatService) NewThreadID() string {
	return s.newID()
}

func (s *chatService) Threads(ctx context.Context) ([]models.Thread, error) {
	return s.client.Threads(ctx)
}

func (s *chatService) Thread(ctx context.Context, threadID string) (*models.Thread, error) {
	return s.client.Thread(ctx, threadID)
}

func (s *chatService) Delete(ctx context.Context, threadID string) error {
	return s.client.DeleteThread(ctx, threadID)
}

func (s *chatService) Send(ctx context.Context, threadID, text string) (string, error) {
	return s.client.SendText(ctx, threadID, text)
}

// SendImage uploads the file at path. The MIME type comes from the file
// extension, falling back to content sniffing.
func (s *chatService) SendImage(ctx context.Context, threadID, path, prompt string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if fi.Size() > MaxImageBytes {
		return "", fmt.Errorf("image %s is larger than %d MiB", filepath.Base(path), MaxImageBytes>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return s.client.SendImage(ctx, threadID, data, filepath.Base(path), mimeType, prompt)
}
