package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/logging"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// DefaultImagePrompt is sent with an image when the user gives no prompt.
const DefaultImagePrompt = "Describe this image."

// Generator produces a reply for a single prompt, with no thread history.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}

// ChatService runs one exchange: generate the reply, then append it to the
// ledger. A failed generation writes nothing.
type ChatService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	gen         Generator
	log         logging.Logger
	now         func() time.Time
}

func NewChatService(db *sqlx.DB, m repomanager.RepositoryManager, gen Generator, log logging.Logger) *ChatService {
	return &ChatService{
		db:          db,
		repomanager: m,
		gen:         gen,
		log:         log.With("module", "chat"),
		now:         time.Now,
	}
}

// SendText generates a reply to message and records the exchange in threadID.
func (s *ChatService) SendText(ctx context.Context, userID int64, threadID, message string) (string, error) {
	if message == "" || threadID == "" {
		return "", common.NewValidationError("", "Message and threadId fields are required.")
	}
	if userID <= 0 {
		return "", common.ErrInvalidUserID
	}

	// a dropped client does not abort generation or the ledger write
	ctx = context.WithoutCancel(ctx)

	reply, err := s.gen.GenerateText(ctx, message)
	if err != nil {
		return "", gatewayError(err)
	}

	if err := s.persist(ctx, userID, threadID, message, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// SendImage describes image (prompted by prompt, or DefaultImagePrompt) and
// records the exchange with a "[Image: <prompt>]" placeholder as the message.
func (s *ChatService) SendImage(ctx context.Context, userID int64, threadID string, image []byte, mimeType, prompt string) (string, error) {
	if len(image) == 0 || threadID == "" {
		return "", common.NewValidationError("", "Image file and threadId required.")
	}
	if userID <= 0 {
		return "", common.ErrInvalidUserID
	}
	if prompt == "" {
		prompt = DefaultImagePrompt
	}

	ctx = context.WithoutCancel(ctx)

	reply, err := s.gen.GenerateFromImage(ctx, image, mimeType, prompt)
	if err != nil {
		return "", gatewayError(err)
	}

	if err := s.persist(ctx, userID, threadID, "[Image: "+prompt+"]", reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *ChatService) persist(ctx context.Context, userID int64, threadID, message, reply string) error {
	entry := &models.ChatEntry{
		UserID:    userID,
		ThreadID:  threadID,
		Message:   message,
		Response:  reply,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repomanager.Chats(s.db).Append(ctx, entry); err != nil {
		// the reply was generated but is lost to the client
		s.log.Error(ctx, "reply generated but not persisted",
			"user_id", userID, "thread_id", threadID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return nil
}

func gatewayError(err error) error {
	if errors.Is(err, common.ErrGateway) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrGateway, err)
}
