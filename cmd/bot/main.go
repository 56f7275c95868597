package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bot-registry/bot"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

func main() {
	agent, err := bot.Bootstrap(os.Args[1:], os.Stdout)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		color.Red("failed to start bot: %v\n", err)
		os.Exit(1)
	}

	printBanner(agent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := agent.Run(ctx); err != nil && ctx.Err() == nil {
		agent.Logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func printBanner(agent *bot.Agent) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	cyan.Println("Bot Client")
	fmt.Printf("  %-10s %s\n", "Bot ID:", agent.BotID)
	fmt.Printf("  %-10s %s\n", "Name:", agent.Config.Name)
	fmt.Printf("  %-10s %s\n", "Server:", agent.Config.ServerURL)
	fmt.Printf("  %-10s %s\n", "Polling:", agent.Config.PollInterval)
	yellow.Println("Press Ctrl+C to stop the bot")
	fmt.Println()
}
