// Package commands holds the built-in command handlers.
package commands

import (
	"context"
	"fmt"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
)

// described attaches a help line to a handler.
type described struct {
	bot.Handler
	description string
}

func (d described) Description() string { return d.description }

// Describe returns h with a description the help command can list.
func Describe(h bot.Handler, description string) bot.Handler {
	return described{Handler: h, description: description}
}

// Hello greets the author.
func Hello() bot.Handler {
	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		return fmt.Sprintf("👋 Hello @%s! This is an x402-powered bot!", username), nil
	}), "Say hello")
}
