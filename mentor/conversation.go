// Package mentor holds the mentor chat and the AI weekly report.
package mentor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/internal/logging"
	"github.com/amonks/guidex/profile"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

var (
	// ErrEmptyPrompt indicates a blank chat message.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrSuperseded indicates a newer message replaced this turn before its
	// reply finished streaming.
	ErrSuperseded = errors.New("reply superseded by a newer message")
)

// Message is one chat bubble.
type Message struct {
	ID   string `json:"id"`
	Turn uint64 `json:"turn"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Greeting is the first message of every conversation.
func Greeting(name string) string {
	if strings.TrimSpace(name) == "" {
		name = profile.DefaultName
	}
	return fmt.Sprintf("Greetings, %s. I am your GuideX Mentor. Today, we focus on your growth. What's standing in your way?", name)
}

// ConversationOptions configures NewConversation.
type ConversationOptions struct {
	Name   string
	Logger *zap.Logger
}

// Conversation is a mentor chat. Each Send starts a new turn; chunks that
// arrive for an older turn are dropped.
type Conversation struct {
	service insight.Service
	logger  *zap.Logger

	mu       sync.Mutex
	messages []Message
	turn     uint64
	cancel   context.CancelFunc
}

// NewConversation starts a conversation with the greeting message.
func NewConversation(service insight.Service, opts ConversationOptions) *Conversation {
	return &Conversation{
		service: service,
		logger:  logging.OrNop(opts.Logger),
		messages: []Message{{
			ID:   uuid.NewString(),
			Role: RoleModel,
			Text: Greeting(opts.Name),
		}},
	}
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Turn returns the sequence number of the latest user message.
func (c *Conversation) Turn() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn
}

// Send appends prompt, streams the reply into a new model message and
// returns it. onChunk, if set, sees the reply after each fragment.
//
// A Send that is overtaken by a later Send stops streaming and returns the
// partial reply with ErrSuperseded.
func (c *Conversation) Send(ctx context.Context, prompt string, onChunk func(Message)) (Message, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Message{}, ErrEmptyPrompt
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.turn++
	turn := c.turn
	c.messages = append(c.messages, Message{ID: uuid.NewString(), Turn: turn, Role: RoleUser, Text: prompt})
	reply := Message{ID: uuid.NewString(), Turn: turn, Role: RoleModel}
	c.messages = append(c.messages, reply)
	index := len(c.messages) - 1
	c.mu.Unlock()

	for chunk := range c.service.StreamComplete(ctx, prompt) {
		current, ok := c.appendChunk(turn, index, chunk)
		if !ok {
			c.logger.Debug("mentor_chunk_discarded", zap.Uint64("turn", turn))
			return current, ErrSuperseded
		}
		if onChunk != nil {
			onChunk(current)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.turn != turn {
		return c.messages[index], ErrSuperseded
	}
	if c.messages[index].Text == "" {
		c.messages[index].Text = insight.FallbackEmpty
	}
	c.cancel = nil
	return c.messages[index], nil
}

func (c *Conversation) appendChunk(turn uint64, index int, chunk string) (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.turn != turn {
		return c.messages[index], false
	}
	c.messages[index].Text += chunk
	return c.messages[index], true
}

// Speak synthesizes the message with the given ID.
func (c *Conversation) Speak(ctx context.Context, messageID string) (insight.Audio, bool) {
	c.mu.Lock()
	var text string
	for _, msg := range c.messages {
		if msg.ID == messageID && msg.Role == RoleModel {
			text = msg.Text
		}
	}
	c.mu.Unlock()
	if text == "" {
		return insight.Audio{}, false
	}
	return c.service.SynthesizeSpeech(ctx, text)
}
