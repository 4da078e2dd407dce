package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"hcp-chatbot-be/internal/config"
	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/events"
	pktNats "hcp-chatbot-be/pkg/nats"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watchDurable string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow turn-completed events from NATS",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDurable, "durable", "chatctl-watch", "Durable consumer name")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		return fmt.Errorf("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, logger.NewNopLogger())
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	err = sub.Subscribe(ctx, pktNats.Subject(events.ChatTurnCompleted), watchDurable, func(_ context.Context, e events.Event) error {
		p := e.Payload()
		route, _ := p["route"].(string)
		fmt.Fprintf(out, "%s [%v] %s %v\n",
			e.Timestamp().Format("15:04:05"),
			p["session_id"],
			routeLabel(state.Route(route)),
			p["query"],
		)
		if msg, ok := p["error"].(string); ok && msg != "" {
			fmt.Fprintln(out, color.RedString("  error: %s", msg))
		}
		return nil
	})
	if err != nil {
		return err
	}

	color.Cyan("Watching %s (Ctrl+C to stop)", pktNats.Subject(events.ChatTurnCompleted))
	<-ctx.Done()
	return nil
}
