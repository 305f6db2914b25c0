package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
)

// getText and getPassword are indirections used to facilitate testing.
var getText = GetText
var getPassword = GetPassword

var errAlreadyLoggedIn = errors.New("already logged in, use 'logout' first")

// Register prompts for name, email and password and creates an account.
// On success the new session is active and the chat view is shown.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		return errAlreadyLoggedIn
	}
	prev := a.view
	a.view = ViewRegister

	name, err := getText(a.reader, a.out, "Name")
	if err != nil {
		a.view = prev
		return err
	}
	email, err := getText(a.reader, a.out, "Email")
	if err != nil {
		a.view = prev
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		a.view = prev
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		a.view = prev
		return err
	}

	fmt.Fprintln(a.out, "Registered successfully.")
	a.enterChat(ctx, u)
	return nil
}

// Login prompts for credentials and starts a session. The server tells
// "User not found." apart from "Incorrect password."; both are shown as is.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		return errAlreadyLoggedIn
	}
	prev := a.view
	a.view = ViewLogin

	email, err := getText(a.reader, a.out, "Email")
	if err != nil {
		a.view = prev
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		a.view = prev
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.view = prev
		return err
	}

	fmt.Fprintln(a.out, "Login successful.")
	a.enterChat(ctx, u)
	return nil
}

// Logout discards the token and all local chat state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	a.threads = nil
	a.active = nil
	a.view = ViewHome
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Profile shows who the server thinks the current token belongs to.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s <%s> (id %d)\n", u.Name, u.Email, u.ID)
	return nil
}
