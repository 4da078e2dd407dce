package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"hcp-chatbot-be/internal/bootstrap"
	"hcp-chatbot-be/internal/config"
	"hcp-chatbot-be/pkg/database"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run full turns against the configured stores",
	Long: `Run one turn for the given question, or start an interactive session
when no question is given. The session keeps its own conversation memory so
follow-ups like "what about the documents?" resolve against earlier turns.`,
	RunE: runAsk,
}

func openContainer(ctx context.Context) (*bootstrap.Container, error) {
	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction(), database.PoolConfig{MaxOpenConns: 5})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return bootstrap.NewContainer(ctx, db, cfg)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	var turns []state.Turn
	ask := func(q string) error {
		st, err := c.Orchestrator.Run(ctx, q, turns)
		if err != nil {
			return err
		}
		turns = st.History
		renderTurn(out, st, verbose)
		return nil
	}

	if len(args) > 0 {
		return ask(strings.Join(args, " "))
	}

	prompt := color.New(color.FgYellow).Sprint("> ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		q := strings.TrimSpace(scanner.Text())
		switch q {
		case "":
		case "exit", "quit":
			return nil
		default:
			if err := ask(q); err != nil {
				return err
			}
		}
		fmt.Fprint(out, "\n"+prompt)
	}
	return scanner.Err()
}
