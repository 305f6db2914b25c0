package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func newChatService(c *fakeChatsRepo, g *fakeGenerator) *ChatService {
	s := NewChatService(nil, &fakeRepoManager{c: c}, g, logging.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestSendText_Success(t *testing.T) {
	c := &fakeChatsRepo{}
	g := &fakeGenerator{reply: "Water twice a week."}

	reply, err := newChatService(c, g).SendText(context.Background(), 7, "t1", "How often to water?")
	require.NoError(t, err)
	assert.Equal(t, "Water twice a week.", reply)
	assert.Equal(t, "How often to water?", g.gotPrompt)

	require.Len(t, c.appended, 1)
	e := c.appended[0]
	assert.Equal(t, int64(7), e.UserID)
	assert.Equal(t, "t1", e.ThreadID)
	assert.Equal(t, "How often to water?", e.Message)
	assert.Equal(t, "Water twice a week.", e.Response)
	assert.Equal(t, fixedNow, e.CreatedAt)
}

func TestSendText_ValidationBeforeIdentity(t *testing.T) {
	g := &fakeGenerator{}
	s := newChatService(&fakeChatsRepo{}, g)

	_, err := s.SendText(context.Background(), 0, "", "hi")
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Message and threadId fields are required.", ve.Message)

	_, err = s.SendText(context.Background(), 0, "t1", "hi")
	assert.ErrorIs(t, err, common.ErrInvalidUserID)

	assert.Zero(t, g.calls, "no external call on client errors")
}

func TestSendText_GatewayFailureWritesNothing(t *testing.T) {
	c := &fakeChatsRepo{}
	g := &fakeGenerator{err: errors.New("quota exceeded")}

	_, err := newChatService(c, g).SendText(context.Background(), 7, "t1", "hi")
	assert.ErrorIs(t, err, common.ErrGateway)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, c.appended)
}

func TestSendText_PersistFailureAfterGeneration(t *testing.T) {
	c := &fakeChatsRepo{appendErr: errors.New("disk full")}
	g := &fakeGenerator{reply: "ok"}

	reply, err := newChatService(c, g).SendText(context.Background(), 7, "t1", "hi")
	assert.ErrorIs(t, err, common.ErrPersistence)
	assert.Empty(t, reply)
	assert.Equal(t, 1, g.calls)
}

func TestSendText_CancelledClientStillPersists(t *testing.T) {
	c := &fakeChatsRepo{}
	g := &fakeGenerator{reply: "ok"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newChatService(c, g).SendText(ctx, 7, "t1", "hi")
	require.NoError(t, err)
	require.Len(t, c.appended, 1)
	assert.NoError(t, c.ctxErr)
}

func TestSendImage(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}

	t.Run("explicit prompt", func(t *testing.T) {
		c := &fakeChatsRepo{}
		g := &fakeGenerator{reply: "Leaf rust."}

		reply, err := newChatService(c, g).SendImage(context.Background(), 7, "t1", img, "image/png", "What disease?")
		require.NoError(t, err)
		assert.Equal(t, "Leaf rust.", reply)
		assert.Equal(t, "image/png", g.gotMime)
		assert.Equal(t, img, g.gotImage)
		require.Len(t, c.appended, 1)
		assert.Equal(t, "[Image: What disease?]", c.appended[0].Message)
	})

	t.Run("default prompt", func(t *testing.T) {
		c := &fakeChatsRepo{}
		g := &fakeGenerator{reply: "A field."}

		_, err := newChatService(c, g).SendImage(context.Background(), 7, "t1", img, "image/png", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultImagePrompt, g.gotPrompt)
		assert.Equal(t, "[Image: Describe this image.]", c.appended[0].Message)
	})

	t.Run("missing image or thread", func(t *testing.T) {
		s := newChatService(&fakeChatsRepo{}, &fakeGenerator{})
		for _, tc := range []struct {
			img    []byte
			thread string
		}{{nil, "t1"}, {img, ""}} {
			_, err := s.SendImage(context.Background(), 7, tc.thread, tc.img, "image/png", "")
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Image file and threadId required.", ve.Message)
		}
	})

	t.Run("bad user", func(t *testing.T) {
		_, err := newChatService(&fakeChatsRepo{}, &fakeGenerator{}).SendImage(context.Background(), -1, "t1", img, "image/png", "")
		assert.ErrorIs(t, err, common.ErrInvalidUserID)
	})

	t.Run("gateway error kept as is", func(t *testing.T) {
		gwErr := errors.Join(common.ErrGateway, errors.New("blocked"))
		_, err := newChatService(&fakeChatsRepo{}, &fakeGenerator{err: gwErr}).SendImage(context.Background(), 7, "t1", img, "image/png", "")
		assert.Equal(t, gwErr, err)
	})
}
