package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"liftdesk/internal/auth"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/ui"
)

// forwarded are the domain events the UI reacts to that arrive off its
// goroutine. Events the model raises itself are handled in place.
var forwarded = []eventbus.EventType{
	eventbus.EventSessionExpired,
	eventbus.EventCollectionFailed,
	eventbus.EventSessionChanged,
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal client (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
}

func runTUI(parent context.Context, a *app) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess, err := a.auth.Current()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return errors.New("not logged in, run `liftdesk login` first")
	}
	if err != nil {
		return err
	}

	model := ui.NewModel(ui.Options{
		Context: ctx,
		Config:  a.cfg,
		Backend: a.client,
		Bus:     a.bus,
		Logger:  a.log,
		Token:   a.auth.Token,
		User:    sess.User.Label("email", "name"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(os.Stdin))
	model.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	defer close(eventChan)
	for _, t := range forwarded {
		unsubscribe := a.bus.Subscribe(t, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				a.log.WithField("event", e.Type()).Warn("event channel full, dropping event")
			}
		})
		defer unsubscribe()
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	a.log.WithField("user", sess.User.Label("email")).Info("starting tui")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run tui")
	}
	return nil
}
