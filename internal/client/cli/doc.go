// Package cli provides the interactive KrishiSahayak terminal client.
//
// App is a small view router. It holds the local UI state (session user,
// thread list, the open thread and its messages) and moves between the
// home, login, register and chat views as commands run. Typical flow:
// restore a saved session or log in, list threads, open or start one and
// chat with the assistant in text or with images.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
