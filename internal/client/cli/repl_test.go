package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.loggedIn = true
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Profile(ctx context.Context) error            { return f.record("profile") }
func (f *fakeExec) Threads(ctx context.Context) error            { return f.record("threads") }
func (f *fakeExec) NewThread(ctx context.Context) error          { return f.record("new") }
func (f *fakeExec) Open(ctx context.Context, ref string) error   { return f.record("open " + ref) }
func (f *fakeExec) Delete(ctx context.Context, ref string) error { return f.record("delete " + ref) }
func (f *fakeExec) Send(ctx context.Context, text string) error {
	return f.record("send " + text)
}
func (f *fakeExec) Image(ctx context.Context, path, prompt string) error {
	return f.record(fmt.Sprintf("image %s|%s", path, prompt))
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input(
		"help",
		"threads",
		"login",
		"help",
		"threads",
		"open 2",
		"send   how to treat aphids?",
		"image /tmp/leaf.jpg what disease is this",
		"image /tmp/leaf.jpg",
		"new",
		"When should I sow wheat?",
		"delete t1",
		"profile",
		"logout",
		"exit",
		"threads",
	), &out)

	assert.Equal(t, []string{
		"login",
		"threads",
		"open 2",
		"send how to treat aphids?",
		"image /tmp/leaf.jpg|what disease is this",
		"image /tmp/leaf.jpg|",
		"new",
		"send When should I sow wheat?",
		"delete t1",
		"profile",
		"logout",
	}, exec.calls)
}

func TestRunREPL_NotLoggedInRejectsChat(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "home" }, input("hello there", "quit"), &out)

	assert.Empty(t, exec.calls)
	joined := out.String()
	assert.Contains(t, joined, "krishi home> ")
	assert.Contains(t, joined, "Unknown command: hello")
	assert.Contains(t, joined, "please 'login' or 'register' first")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PrintsCommandErrors(t *testing.T) {
	var out bytes.Buffer
	exec := &failingExec{fakeExec: fakeExec{loggedIn: true}}
	runREPL(context.Background(), exec, func() string { return "chat" }, input("threads"), &out)

	assert.Contains(t, out.String(), "Error: Failed to fetch chat threads.")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, input("", "   ", "ls"), io.Discard)

	assert.Equal(t, []string{"threads"}, exec.calls)
}

type failingExec struct{ fakeExec }

func (f *failingExec) Threads(ctx context.Context) error {
	return errors.New("Failed to fetch chat threads.")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	var out bytes.Buffer
	runREPL(context.Background(), &fakeExec{}, func() string { return "home" }, input("help", "login", "help"), &out)

	got := out.String()
	assert.Contains(t, got, "Available commands: register, login, exit")
	assert.Contains(t, got, "Anything else you type is sent to Krishi as a question.")
}
