package client

import (
	"context"

	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
)

type Client interface {
	SetToken(token string)
	Ping(ctx context.Context) error

	Register(ctx context.Context, name, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Profile(ctx context.Context) (*models.User, error)

	Threads(ctx context.Context) ([]models.Thread, error)
	Thread(ctx context.Context, threadID string) (*models.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error

	SendText(ctx context.Context, threadID, message string) (string, error)
	SendImage(ctx context.Context, threadID string, image []byte, filename, mimeType, prompt string) (string, error)
}
