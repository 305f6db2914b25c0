package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/krishisahayak/internal/client/client"
	"github.com/dmitrijs2005/krishisahayak/internal/client/config"
	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
	"github.com/dmitrijs2005/krishisahayak/internal/client/services"
)

type View string

const (
	ViewHome     View = "home"
	ViewLogin    View = "login"
	ViewRegister View = "register"
	ViewChat     View = "chat"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	chatService services.ChatService
	reader      *bufio.Reader
	out         io.Writer

	view    View
	user    *models.User
	threads []models.Thread
	active  *models.Thread
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient, c.TokenFile)
	cs := services.NewChatService(apiClient)

	return &App{
		config:      c,
		authService: as,
		chatService: cs,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		view:        ViewHome,
	}, nil
}

// Run greets the user, resumes a saved session when there is one and hands
// control to the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Krishi Sahayak, your farming assistant (type 'help' for commands)")

	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable: %v\n", a.config.ServerURL, err)
	}

	u, err := a.authService.Restore(ctx)
	switch {
	case err == nil:
		a.enterChat(ctx, u)
	case !errors.Is(err, services.ErrNoSession):
		fmt.Fprintln(a.out, "Could not resume session:", err)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// status renders the prompt prefix, e.g. "chat Amit | Best time to...".
func (a *App) status() string {
	s := string(a.view)
	if a.user != nil {
		s += " " + a.user.Name
	}
	if a.active != nil {
		s += " | " + a.threadTitle(a.active.ID)
	}
	return s
}

// enterChat switches to the chat view for u and loads the thread list.
func (a *App) enterChat(ctx context.Context, u *models.User) {
	a.user = u
	a.view = ViewChat
	a.active = nil
	fmt.Fprintf(a.out, "Welcome, %s\n", u.Name)

	if err := a.Threads(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to fetch chat threads:", err)
	}
}

func (a *App) threadTitle(id string) string {
	for _, t := range a.threads {
		if t.ID == id && t.Title != "" {
			return t.Title
		}
	}
	return "New chat"
}

func (a *App) printMessages(msgs []models.Message) {
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "(no messages yet)")
		return
	}
	for _, m := range msgs {
		a.printMessage(m)
	}
}

func (a *App) printMessage(m models.Message) {
	who := "You"
	if m.Sender == models.SenderAI {
		who = "Krishi"
	}
	fmt.Fprintf(a.out, "%s: %s\n", who, strings.TrimSpace(m.Content))
}
