package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"liftdesk/internal/collection"
	"liftdesk/internal/config"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/state"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor. A nil ctx runs commands
// against context.Background.
func NewExecutor(ctx context.Context, state *state.AppState, bus eventbus.EventBus, deleter Deleter, token func() string, log logrus.FieldLogger) *Executor {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Executor{
		ctx: &CommandContext{
			Ctx:     ctx,
			State:   state,
			Bus:     bus,
			Deleter: deleter,
			Token:   token,
			Log:     log,
		},
	}
}

// ExecuteLoad creates and executes a load command
func (e *Executor) ExecuteLoad(ctrl *collection.Controller) tea.Cmd {
	return NewLoadCommand(e.ctx, ctrl).Execute()
}

// ExecuteDelete creates and executes a delete command
func (e *Executor) ExecuteDelete(screen config.Screen, id string) tea.Cmd {
	return NewDeleteCommand(e.ctx, screen, id).Execute()
}

// ExecuteSubmit creates and executes a submit command
func (e *Executor) ExecuteSubmit(screen string, ctrl *form.Controller, sub form.Submission) tea.Cmd {
	return NewSubmitCommand(e.ctx, screen, ctrl, sub).Execute()
}
