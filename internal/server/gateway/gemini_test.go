package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(s, genai.RoleModel),
		}},
	}
}

func TestGenerateText(t *testing.T) {
	f := &fakeModels{resp: textResponse("Sow after the first rain.")}
	c := newClient(f, "")

	reply, err := c.GenerateText(context.Background(), "When to sow millet?")
	require.NoError(t, err)
	assert.Equal(t, "Sow after the first rain.", reply)
	assert.Equal(t, DefaultModel, f.gotModel)

	require.Len(t, f.gotContents, 1)
	require.Len(t, f.gotContents[0].Parts, 1)
	assert.Equal(t, "When to sow millet?", f.gotContents[0].Parts[0].Text)
}

func TestGenerateText_EmptyReply(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"blank text":    textResponse("  "),
	} {
		t.Run(name, func(t *testing.T) {
			reply, err := newClient(&fakeModels{resp: resp}, "m").GenerateText(context.Background(), "hi")
			require.NoError(t, err)
			assert.Equal(t, EmptyReply, reply)
		})
	}
}

func TestGenerateText_ErrorWrapsGateway(t *testing.T) {
	c := newClient(&fakeModels{err: errors.New("quota exceeded")}, "m")

	_, err := c.GenerateText(context.Background(), "hi")
	assert.ErrorIs(t, err, common.ErrGateway)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateFromImage(t *testing.T) {
	f := &fakeModels{resp: textResponse("Healthy wheat.")}
	c := newClient(f, "gemini-pro-vision")
	img := []byte("\x89PNG\r\n\x1a\n0000")

	reply, err := c.GenerateFromImage(context.Background(), img, "", "Describe this image.")
	require.NoError(t, err)
	assert.Equal(t, "Healthy wheat.", reply)
	assert.Equal(t, "gemini-pro-vision", f.gotModel)

	require.Len(t, f.gotContents, 1)
	content := f.gotContents[0]
	assert.Equal(t, string(genai.RoleUser), content.Role)
	require.Len(t, content.Parts, 2)
	require.NotNil(t, content.Parts[0].InlineData)
	assert.Equal(t, img, content.Parts[0].InlineData.Data)
	assert.Equal(t, "image/png", content.Parts[0].InlineData.MIMEType)
	assert.Equal(t, "Describe this image.", content.Parts[1].Text)
}

func TestDetectMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	assert.Equal(t, "image/jpeg", DetectMIME(png, "image/jpeg"))
	assert.Equal(t, "image/png", DetectMIME(png, ""))
	assert.Equal(t, "image/png", DetectMIME(png, "application/octet-stream"))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.Error(t, err)
}
