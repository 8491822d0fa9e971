// Package controller implements the chat widget controller: it turns user
// intent into one backend call at a time and keeps the transcript the host
// renders.
//
// The controller holds no rendering state. Hosts (the TUI, the one-shot CLI)
// read State, Transcript and friends after each operation and redraw.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/personachat/internal/api"
	apierrors "github.com/diogo/personachat/internal/errors"
	"github.com/diogo/personachat/internal/models"
)

// ErrNotAccepted is returned by Exchange when Submit refused the text or the
// outcome was dropped
var ErrNotAccepted = errors.New("message was not accepted")

// Submission is one accepted message waiting to be dispatched
type Submission struct {
	Seq     uint64
	ID      string
	Request models.ChatRequest

	ctx context.Context
}

// Outcome is the result of dispatching a Submission
type Outcome struct {
	Seq     uint64
	ID      string
	Persona string
	Reply   string
	Err     error
}

// Controller is the chat widget controller
type Controller struct {
	client   api.ChatClientInterface
	greeting string
	logger   zerolog.Logger
	newID    func() string

	mu         sync.Mutex
	lifecycle  Lifecycle
	state      State
	persona    string
	transcript []models.Message
	revision   uint64
	seq        uint64
	pending    *Submission
	cancel     context.CancelFunc
	baseCtx    context.Context
	baseCancel context.CancelFunc
}

// Option configures a Controller
type Option func(*Controller)

// WithGreeting sets the canned entry shown on start and after a persona change
func WithGreeting(greeting string) Option {
	return func(c *Controller) {
		c.greeting = greeting
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPersona sets the initial persona selection
func WithPersona(persona string) Option {
	return func(c *Controller) {
		c.persona = persona
	}
}

// WithIDGenerator replaces the request id generator
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// New creates a controller in the Init lifecycle state
func New(client api.ChatClientInterface, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		greeting: models.DefaultGreeting,
		logger:   zerolog.Nop(),
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With().Str("session", uuid.NewString()).Logger()
	return c
}

// Start binds the controller to its hosting session. Requests derive their
// context from ctx, so cancelling ctx aborts anything in flight.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lifecycle != LifecycleInit {
		return fmt.Errorf("controller cannot start from %s", c.lifecycle)
	}

	c.baseCtx, c.baseCancel = context.WithCancel(ctx)
	c.lifecycle = LifecycleActive
	c.resetTranscriptLocked()

	c.logger.Debug().Str("persona", c.persona).Msg("chat widget started")
	return nil
}

// Close tears the controller down and aborts any in-flight request.
// Later submissions are ignored. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lifecycle == LifecycleTeardown {
		return
	}

	c.clearPendingLocked()
	if c.baseCancel != nil {
		c.baseCancel()
	}
	c.lifecycle = LifecycleTeardown
	c.logger.Debug().Msg("chat widget torn down")
}

// Submit accepts text for sending. It returns false, with no side effect,
// when the trimmed text is empty, a request is already in flight, or the
// controller is not active. On success the user entry is already in the
// transcript, the controller is Sending, and the host should clear its input
// and Dispatch the returned submission.
func (c *Controller) Submit(text, persona string) (*Submission, bool) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if text == "" || c.lifecycle != LifecycleActive || c.state != Idle {
		return nil, false
	}

	c.appendLocked(models.Message{Sender: models.SenderUser, Text: text})

	c.seq++
	id := c.newID()
	ctx, cancel := context.WithCancel(c.baseCtx)

	sub := &Submission{
		Seq:     c.seq,
		ID:      id,
		Request: models.ChatRequest{Message: text, Persona: persona},
		ctx:     api.WithRequestID(ctx, id),
	}

	c.pending = sub
	c.cancel = cancel
	c.state = Sending

	c.logger.Debug().
		Uint64("seq", sub.Seq).
		Str("request_id", id).
		Str("persona", persona).
		Msg("message submitted")

	return sub, true
}

// Dispatch performs the backend call for sub. It blocks, touches no
// controller state, and may run off the UI loop.
func (c *Controller) Dispatch(sub *Submission) Outcome {
	out := Outcome{Seq: sub.Seq, ID: sub.ID, Persona: sub.Request.Persona}

	ctx := sub.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.client.Send(ctx, sub.Request)
	switch {
	case err != nil:
		out.Err = err
	case resp == nil:
		out.Err = apierrors.NewMissingFieldError("response")
	default:
		out.Reply = resp.Response
	}

	return out
}

// Settle applies an outcome on the UI loop. Outcomes of a submission that is
// no longer in flight (cancelled by a persona change or teardown) are
// dropped and false is returned. Otherwise the reply or a failure entry is
// appended and the controller returns to Idle.
func (c *Controller) Settle(out Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.pending.Seq != out.Seq {
		c.logger.Debug().
			Uint64("seq", out.Seq).
			Str("request_id", out.ID).
			Msg("dropping stale response")
		return false
	}

	if out.Err != nil {
		c.logger.Error().
			Err(out.Err).
			Str("request_id", out.ID).
			Str("persona", out.Persona).
			Int("status", apierrors.GetHTTPStatus(out.Err)).
			Msg("failed to send message")
		c.appendLocked(models.Message{Sender: models.SenderBot, Text: FailureText(out.Err), Failed: true})
	} else {
		c.appendLocked(models.Message{Sender: models.SenderBot, Text: out.Reply})
	}

	c.clearPendingLocked()
	return true
}

// Exchange runs Submit, Dispatch and Settle in one call for hosts without an
// event loop. It returns the bot entry produced by the exchange together with
// the exchange error; on a backend failure the entry is the failure text.
// ErrNotAccepted means no entry was produced.
func (c *Controller) Exchange(text, persona string) (models.Message, error) {
	sub, ok := c.Submit(text, persona)
	if !ok {
		return models.Message{}, ErrNotAccepted
	}

	out := c.Dispatch(sub)
	if !c.Settle(out) {
		return models.Message{}, ErrNotAccepted
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript[len(c.transcript)-1], out.Err
}

// Cancel aborts the in-flight request. The dispatch then fails with a
// cancellation error and settles like any other failure.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

// ChangePersona selects a new persona and resets the transcript to the
// greeting alone. Prior entries are discarded. An in-flight request is
// cancelled and its late outcome will be dropped.
func (c *Controller) ChangePersona(persona string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.logger.Info().
			Str("request_id", c.pending.ID).
			Msg("persona changed while sending, discarding request")
		c.clearPendingLocked()
	}

	c.persona = persona
	c.resetTranscriptLocked()
}

// AppendMessage adds an entry to the transcript
func (c *Controller) AppendMessage(sender models.Sender, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(models.Message{Sender: sender, Text: text})
}

// appendLocked MUST be called with c.mu held
func (c *Controller) appendLocked(msg models.Message) {
	c.transcript = append(c.transcript, msg)
	c.revision++
}

// resetTranscriptLocked MUST be called with c.mu held
func (c *Controller) resetTranscriptLocked() {
	c.transcript = []models.Message{{Sender: models.SenderBot, Text: c.greeting}}
	c.revision++
}

// clearPendingLocked MUST be called with c.mu held
func (c *Controller) clearPendingLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.pending = nil
	c.cancel = nil
	c.state = Idle
}

// State returns the submission state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Lifecycle returns the lifecycle state
func (c *Controller) Lifecycle() Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifecycle
}

// Persona returns the current persona selection
func (c *Controller) Persona() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persona
}

// Transcript returns a copy of the transcript
func (c *Controller) Transcript() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Revision changes whenever the transcript changes; hosts scroll to the
// newest entry when it moves.
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Pending returns the in-flight submission, or nil
func (c *Controller) Pending() *Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// SendEnabled reports whether the send control accepts input
func (c *Controller) SendEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifecycle == LifecycleActive && c.state == Idle
}

// Loading reports whether the loading indicator is shown
func (c *Controller) Loading() bool {
	return c.State() == Sending
}

// InputFocused reports whether keyboard focus belongs to the input field
func (c *Controller) InputFocused() bool {
	return c.SendEnabled()
}

// LastBotMessage returns the newest bot entry
func (c *Controller) LastBotMessage() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.transcript) - 1; i >= 0; i-- {
		if c.transcript[i].Sender == models.SenderBot {
			return c.transcript[i].Text, true
		}
	}
	return "", false
}
