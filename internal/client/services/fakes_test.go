package services

import (
	"context"

	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	token string

	session    *models.Session
	sessionErr error

	profile    *models.User
	profileErr error
	profileTok string

	threads []models.Thread
	thread  *models.Thread
	err     error

	reply string

	gotName, gotEmail, gotPassword string
	gotThread, gotText             string
	gotImage                       []byte
	gotFilename, gotMime           string
	deleted                        string
	pinged                         bool
}

func (f *fakeClient) SetToken(token string) { f.token = token }

func (f *fakeClient) Ping(context.Context) error {
	f.pinged = true
	return f.err
}

func (f *fakeClient) Register(_ context.Context, name, email, password string) (*models.Session, error) {
	f.gotName, f.gotEmail, f.gotPassword = name, email, password
	return f.session, f.sessionErr
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.session, f.sessionErr
}

func (f *fakeClient) Profile(context.Context) (*models.User, error) {
	f.profileTok = f.token
	return f.profile, f.profileErr
}

func (f *fakeClient) Threads(context.Context) ([]models.Thread, error) {
	return f.threads, f.err
}

func (f *fakeClient) Thread(_ context.Context, threadID string) (*models.Thread, error) {
	f.gotThread = threadID
	return f.thread, f.err
}

func (f *fakeClient) DeleteThread(_ context.Context, threadID string) error {
	f.deleted = threadID
	return f.err
}

func (f *fakeClient) SendText(_ context.Context, threadID, message string) (string, error) {
	f.gotThread, f.gotText = threadID, message
	return f.reply, f.err
}

func (f *fakeClient) SendImage(_ context.Context, threadID string, image []byte, filename, mimeType, prompt string) (string, error) {
	f.gotThread, f.gotImage, f.gotFilename, f.gotMime, f.gotText = threadID, image, filename, mimeType, prompt
	return f.reply, f.err
}
