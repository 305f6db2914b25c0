// Package gateway talks to the Gemini generative AI service. Each call is a
// single stateless request carrying only the current prompt.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// EmptyReply stands in for a response that carried no text.
	EmptyReply = "No response generated."
)

// contentGenerator is the slice of *genai.Models the gateway uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models contentGenerator
	model  string
}

// New creates a Gemini API client for apiKey. An empty model selects DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newClient(c.Models, model), nil
}

func newClient(models contentGenerator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{models: models, model: model}
}

// GenerateText sends prompt as a single user turn. Failures wrap common.ErrGateway.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, genai.Text(prompt))
}

// GenerateFromImage sends image inline with prompt. A missing or generic
// mimeType is replaced by one sniffed from the image bytes.
func (c *Client) GenerateFromImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, DetectMIME(image, mimeType)),
		genai.NewPartFromText(prompt),
	}
	return c.generate(ctx, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrGateway, err)
	}
	if resp == nil {
		return EmptyReply, nil
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return EmptyReply, nil
	}
	return text, nil
}

// DetectMIME returns declared unless it is empty or application/octet-stream,
// in which case the type is sniffed from data.
func DetectMIME(data []byte, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
