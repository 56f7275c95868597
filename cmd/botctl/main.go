package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"bot-registry/bot/clients"
	"bot-registry/bot/services"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	serverURL := os.Getenv("BOT_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:5000"
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	if err := run(os.Stdout, serverURL, cmd, args); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: botctl <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  health                              Show registry health")
	fmt.Println("  bots                                List registered bots")
	fmt.Println("  register <bot_id> [--attr k=v]      Register a bot")
	fmt.Println("  send <bot_id> <command> [--param k=v]  Queue a command")
	fmt.Println("  pending <bot_id>                    Show pending commands (counts as a poll)")
	fmt.Println("  clear <bot_id>                      Clear pending commands")
	fmt.Println("  unregister <bot_id>                 Remove a bot")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  BOT_SERVER_URL   Registry URL (default: http://localhost:5000)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  botctl send bot_001 start_monitoring --param interval=30 --param target=disk")
	fmt.Println()
}

func run(out io.Writer, serverURL, cmd string, args []string) error {
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	server := fs.StringP("server", "s", serverURL, "registry URL")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	params := fs.StringArrayP("param", "p", nil, "command parameter key=value (send)")
	attrs := fs.StringArrayP("attr", "a", nil, "bot attribute key=value (register)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()

	client := services.NewAgentClient(clients.NewHTTPClient(*server, *timeout))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch cmd {
	case "health":
		return cmdHealth(ctx, out, client)
	case "bots", "list", "ls":
		return cmdBots(ctx, out, client)
	case "register":
		if len(positional) != 1 {
			return fmt.Errorf("usage: botctl register <bot_id> [--attr k=v]")
		}
		values, err := parseKeyValues(*attrs)
		if err != nil {
			return err
		}
		return cmdRegister(ctx, out, client, positional[0], values)
	case "send":
		if len(positional) != 2 {
			return fmt.Errorf("usage: botctl send <bot_id> <command> [--param k=v]")
		}
		values, err := parseKeyValues(*params)
		if err != nil {
			return err
		}
		return cmdSend(ctx, out, client, positional[0], positional[1], values)
	case "pending":
		if len(positional) != 1 {
			return fmt.Errorf("usage: botctl pending <bot_id>")
		}
		return cmdPending(ctx, out, client, positional[0])
	case "clear":
		if len(positional) != 1 {
			return fmt.Errorf("usage: botctl clear <bot_id>")
		}
		return cmdClear(ctx, out, client, positional[0])
	case "unregister", "rm":
		if len(positional) != 1 {
			return fmt.Errorf("usage: botctl unregister <bot_id>")
		}
		return cmdUnregister(ctx, out, client, positional[0])
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func cmdHealth(ctx context.Context, out io.Writer, client *services.AgentClient) error {
	health, err := client.Health(ctx)
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen)
	green.Fprintf(out, "%s", health.Status)
	fmt.Fprintf(out, "  registered bots: %d  (%s)\n", health.RegisteredBots, health.Timestamp.Format(time.RFC3339))
	return nil
}

func cmdBots(ctx context.Context, out io.Writer, client *services.AgentClient) error {
	resp, err := client.ListBots(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Fprintf(out, "Registered bots (%d)\n", resp.TotalCount)
	if len(resp.Bots) == 0 {
		fmt.Fprintln(out, "  (no bots registered)")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tVERSION\tSTATUS\tPENDING\tLAST SEEN")
	for _, b := range resp.Bots {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%d\t%s\n",
			b.BotID, display(b.Name), display(b.Version), display(b.BotStatus),
			b.PendingCommands, b.LastSeen.Format("Jan 02 15:04:05"))
	}
	return w.Flush()
}

func cmdRegister(ctx context.Context, out io.Writer, client *services.AgentClient, botID string, attrs map[string]interface{}) error {
	resp, err := client.RegisterBot(ctx, botID, attrs)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(out, resp.Message)
	return nil
}

func cmdSend(ctx context.Context, out io.Writer, client *services.AgentClient, botID, command string, params map[string]interface{}) error {
	resp, err := client.SubmitCommand(ctx, botID, command, params)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(out, "queued %s for %s\n", resp.Command, botID)
	return nil
}

func cmdPending(ctx context.Context, out io.Writer, client *services.AgentClient, botID string) error {
	commands, err := client.PollCommands(ctx, botID)
	if err != nil {
		return err
	}

	color.New(color.FgCyan).Fprintf(out, "Pending commands for %s (%d)\n", botID, len(commands))
	for i, c := range commands {
		fmt.Fprintf(out, "  %d. %s", i+1, c.Command)
		if len(c.Params) > 0 {
			data, _ := json.Marshal(c.Params)
			fmt.Fprintf(out, " %s", data)
		}
		fmt.Fprintf(out, "  (%s)\n", c.Timestamp.Format(time.RFC3339))
	}
	return nil
}

func cmdClear(ctx context.Context, out io.Writer, client *services.AgentClient, botID string) error {
	cleared, err := client.ClearCommands(ctx, botID)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(out, "cleared %d command(s) for %s\n", cleared, botID)
	return nil
}

func cmdUnregister(ctx context.Context, out io.Writer, client *services.AgentClient, botID string) error {
	if err := client.Unregister(ctx, botID); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(out, "unregistered %s\n", botID)
	return nil
}

// parseKeyValues turns k=v pairs into a map. Values that parse as JSON keep their type.
func parseKeyValues(pairs []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", pair)
		}

		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		values[key] = v
	}
	return values, nil
}

func display(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "{" + strings.Join(keys, ",") + "}"
	default:
		return fmt.Sprint(t)
	}
}
