package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
	"github.com/dmitrijs2005/krishisahayak/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the API rooted at baseURL
// (e.g. http://localhost:3000). timeout bounds each request.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url must be http(s)://host[:port], got %q", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, "", nil)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	var s models.Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) Threads(ctx context.Context) ([]models.Thread, error) {
	threads := []models.Thread{}
	if err := c.do(ctx, http.MethodGet, "/api/chat/threads", nil, "", &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func (c *HTTPClient) Thread(ctx context.Context, threadID string) (*models.Thread, error) {
	var t models.Thread
	if err := c.do(ctx, http.MethodGet, "/api/chat/threads/"+url.PathEscape(threadID), nil, "", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) DeleteThread(ctx context.Context, threadID string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/threads/"+url.PathEscape(threadID), nil, "", nil)
}

type replyBody struct {
	Reply string `json:"reply"`
}

func (c *HTTPClient) SendText(ctx context.Context, threadID, message string) (string, error) {
	var r replyBody
	body := map[string]string{"message": message, "threadId": threadID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/text", body, &r); err != nil {
		return "", err
	}
	return r.Reply, nil
}

func (c *HTTPClient) SendImage(ctx context.Context, threadID string, image []byte, filename, mimeType, prompt string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("threadId", threadID); err != nil {
		return "", err
	}
	if prompt != "" {
		if err := mw.WriteField("prompt", prompt); err != nil {
			return "", err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if mimeType != "" {
		h.Set("Content-Type", mimeType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var r replyBody
	if err := c.do(ctx, http.MethodPost, "/api/chat/image", &buf, mw.FormDataContentType(), &r); err != nil {
		return "", err
	}
	return r.Reply, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func mapError(status int, data []byte) error {
	var body struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: body.Message, Details: body.Details}
}
