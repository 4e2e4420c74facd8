//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext cancels the batch on Ctrl+C so the browser is closed
// before exit.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
