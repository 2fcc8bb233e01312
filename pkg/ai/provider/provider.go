package provider

import (
	"context"
	"sync"

	"github.com/nalssi/nalssi/pkg/ai/types"
)

// LanguageModel is the boundary to an LLM backend. The session consumes the
// model exclusively through this interface.
type LanguageModel interface {
	// Stream produces a streaming response. The returned stream's event
	// channel is closed when generation finishes; Err reports any terminal
	// failure after that.
	Stream(ctx context.Context, req GenerateRequest) (*Stream, error)

	// ID returns the unique identifier for this model.
	ID() string
}

// GenerateRequest contains all parameters for generating the next turn.
type GenerateRequest struct {
	// Messages is the conversation history, oldest first.
	Messages []types.Message `json:"messages"`

	// System is an optional system prompt.
	System string `json:"system,omitempty"`

	// Tools is the catalog of functions available to the model.
	Tools []types.Tool `json:"tools,omitempty"`
}

// Stream delivers generation events as they arrive. Events is closed by the
// producer; a terminal error, if any, is available from Err afterwards.
type Stream struct {
	Events <-chan types.StreamEvent

	mu  sync.RWMutex
	err error
}

func NewStream(events <-chan types.StreamEvent) *Stream {
	return &Stream{Events: events}
}

// SetError records the terminal stream error. Called by the producer before
// closing the event channel.
func (s *Stream) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Stream) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
