package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Threads(ctx context.Context) error
	Open(ctx context.Context, ref string) error
	NewThread(ctx context.Context) error
	Send(ctx context.Context, text string) error
	Image(ctx context.Context, path, prompt string) error
	Delete(ctx context.Context, ref string) error
}

// runREPL starts a read–eval–print loop for the Krishi Sahayak CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Prompts and messages go to out. The loop exits on EOF or when the user
// types "exit" or "quit". Errors returned by commands are printed and the
// loop carries on.
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                  show available commands
//	  - register              create an account
//	  - login                 authenticate
//	  - exit | quit           leave the program
//
//	Logged in:
//	  - threads | ls          list conversations, newest first
//	  - open <n|id>           open a conversation
//	  - new                   start a new conversation
//	  - send <text>           ask a question (plain text works too)
//	  - image <path> [prompt] ask about a photo
//	  - delete <n|id>         delete a conversation
//	  - profile               show the current user
//	  - logout                log out
//	  - exit | quit           leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "krishi %s> \n", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cmdErr := dispatch(ctx, a, out, cmd, rest, line); cmdErr != nil {
			if errors.Is(cmdErr, errQuit) {
				fmt.Fprintln(out, "Bye!")
				return
			}
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}

var errQuit = errors.New("quit")

var errLoginRequired = errors.New("please 'login' or 'register' first")

func dispatch(ctx context.Context, a execIface, out io.Writer, cmd, rest, line string) error {
	switch cmd {
	case "exit", "quit":
		return errQuit

	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(out, "Available commands: threads, open <n|id>, new, send <text>, image <path> [prompt], delete <n|id>, profile, logout, exit")
			fmt.Fprintln(out, "Anything else you type is sent to Krishi as a question.")
		} else {
			fmt.Fprintln(out, "Available commands: register, login, exit")
		}
		return nil

	case "register":
		return a.Register(ctx)

	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		fmt.Fprintln(out, "Unknown command:", cmd)
		return errLoginRequired
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "profile":
		return a.Profile(ctx)
	case "threads", "ls":
		return a.Threads(ctx)
	case "open":
		return a.Open(ctx, rest)
	case "new":
		return a.NewThread(ctx)
	case "send":
		return a.Send(ctx, rest)
	case "image":
		path, prompt, _ := strings.Cut(rest, " ")
		return a.Image(ctx, path, strings.TrimSpace(prompt))
	case "delete", "rm":
		return a.Delete(ctx, rest)
	}

	// free text is a question for the open (or a new) conversation
	return a.Send(ctx, line)
}
