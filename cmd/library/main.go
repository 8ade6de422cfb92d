package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/catalog"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/config"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client := api.New(cfg.Server.BaseURL, cfg.Server.Timeout())
	ctrl := catalog.New(client, &catalog.SelectionContext{})

	p := tea.NewProgram(tui.New(ctx, cfg, client, ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
