package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"liftdesk/internal/api"
	"liftdesk/internal/collection"
	"liftdesk/internal/config"
	"liftdesk/internal/domain"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/state"
)

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// Deleter removes one record
type Deleter interface {
	Delete(ctx context.Context, token, resource, id string) error
}

// CommandContext provides context for command execution
type CommandContext struct {
	Ctx     context.Context
	State   *state.AppState
	Bus     eventbus.EventBus
	Deleter Deleter
	Token   func() string
	Log     logrus.FieldLogger
}

// publish sends e to the domain bus when one is wired
func (c *CommandContext) publish(e eventbus.DomainEvent) {
	if c.Bus != nil {
		c.Bus.Publish(e)
	}
}

func (c *CommandContext) token() string {
	if c.Token == nil {
		return ""
	}
	return c.Token()
}

// LoadedMsg carries the result of a collection fetch
type LoadedMsg struct {
	Screen     string
	Generation uint64
	Items      []domain.Item
	Err        error
}

// DeletedMsg carries the result of a delete
type DeletedMsg struct {
	Screen string
	ID     string
	Err    error
}

// SubmittedMsg carries the result of a form submission
type SubmittedMsg struct {
	Screen  string
	Outcome form.Outcome
	Err     error
}

// LoadCommand refetches one screen's collection
type LoadCommand struct {
	ctx  *CommandContext
	ctrl *collection.Controller
}

// NewLoadCommand creates a new load command
func NewLoadCommand(ctx *CommandContext, ctrl *collection.Controller) *LoadCommand {
	return &LoadCommand{ctx: ctx, ctrl: ctrl}
}

// Execute marks the screen as loading and fetches off the UI goroutine
func (c *LoadCommand) Execute() tea.Cmd {
	if c.ctrl == nil {
		return nil
	}
	name := c.ctrl.Screen().Name
	gen := c.ctrl.Begin()
	c.ctx.State.SetLoading(name, true)

	token := c.ctx.token()
	parent := c.ctx.Ctx
	return func() tea.Msg {
		items, err := c.ctrl.Fetch(parent, token)
		return LoadedMsg{Screen: name, Generation: gen, Items: items, Err: err}
	}
}

// DeleteFailedMessage is the status shown when a delete is rejected
func DeleteFailedMessage(err error) string {
	return fmt.Sprintf("delete failed: %v", err)
}

// DeleteCommand deletes one record
type DeleteCommand struct {
	ctx    *CommandContext
	screen config.Screen
	id     string
}

// NewDeleteCommand creates a new delete command
func NewDeleteCommand(ctx *CommandContext, screen config.Screen, id string) *DeleteCommand {
	return &DeleteCommand{ctx: ctx, screen: screen, id: id}
}

// Execute performs the delete
func (c *DeleteCommand) Execute() tea.Cmd {
	if c.id == "" || c.ctx.Deleter == nil {
		return nil
	}
	c.ctx.State.SetDeleting(c.id, true)
	c.ctx.State.SetStatus("Deleting "+c.screen.Title+" #"+c.id+"...", false)

	token := c.ctx.token()
	parent := c.ctx.Ctx
	screen, id := c.screen, c.id
	log := c.ctx.Log
	return func() tea.Msg {
		err := c.ctx.Deleter.Delete(parent, token, screen.Endpoint, id)
		switch {
		case err == nil:
			c.ctx.publish(eventbus.ItemDeletedEvent{Screen: screen.Name, ID: id})
		case api.IsUnauthorized(err):
			// the model reports the expired session itself
		default:
			if log != nil {
				log.WithError(err).WithFields(logrus.Fields{"screen": screen.Name, "entity_id": id}).Warn("delete failed")
			}
			c.ctx.publish(eventbus.ErrorEvent{Message: DeleteFailedMessage(err), Err: err})
		}
		return DeletedMsg{Screen: screen.Name, ID: id, Err: err}
	}
}

// SubmitCommand runs a form submission
type SubmitCommand struct {
	ctx    *CommandContext
	screen string
	ctrl   *form.Controller
	sub    form.Submission
}

// NewSubmitCommand creates a new submit command
func NewSubmitCommand(ctx *CommandContext, screen string, ctrl *form.Controller, sub form.Submission) *SubmitCommand {
	return &SubmitCommand{ctx: ctx, screen: screen, ctrl: ctrl, sub: sub}
}

// Execute marks the form busy and submits off the UI goroutine
func (c *SubmitCommand) Execute() tea.Cmd {
	if c.ctrl == nil {
		return nil
	}
	if f := c.ctx.State.Form; f != nil {
		f.Submitting = true
		f.Message = ""
	}

	parent := c.ctx.Ctx
	return func() tea.Msg {
		out, err := c.ctrl.Submit(parent, c.sub)
		if err == nil {
			c.ctx.publish(eventbus.SubmissionCompletedEvent{Screen: c.screen, EntityID: out.EntityID, Outcome: string(out.Kind), Message: out.Message})
		}
		return SubmittedMsg{Screen: c.screen, Outcome: out, Err: err}
	}
}
