// Command todo-tui is a terminal client for a running todo-api server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"

	"todo-api/client"
	"todo-api/tui"
)

type clientEnv struct {
	APIURL string `env:"TODO_API_URL" envDefault:"http://localhost:3000"`
}

func main() {
	var cfg clientEnv
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "todo-tui: parse env: %v\n", err)
		os.Exit(1)
	}
	addr := flag.String("addr", cfg.APIURL, "base URL of the todo-api server")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	model := tui.New(ctx, client.New(*addr, httpClient))
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo-tui: %v\n", err)
		os.Exit(1)
	}
}
