package types

import "time"

// StreamEvent is the base interface for all streaming events.
type StreamEvent interface {
	GetType() StreamEventType
	GetTimestamp() time.Time
}

// StreamEventType identifies the type of streaming event.
type StreamEventType string

const (
	// Lifecycle events
	EventTypeStreamStart StreamEventType = "stream-start"
	EventTypeStreamEnd   StreamEventType = "stream-end"

	// Content events
	EventTypeTextDelta    StreamEventType = "text-delta"
	EventTypeTextComplete StreamEventType = "text-complete"

	// Tool events
	EventTypeToolCall StreamEventType = "tool-call"

	// Metadata events
	EventTypeUsage StreamEventType = "usage"
)

type baseEvent struct {
	eventType StreamEventType
	timestamp time.Time
}

func (e *baseEvent) GetType() StreamEventType {
	return e.eventType
}

func (e *baseEvent) GetTimestamp() time.Time {
	return e.timestamp
}

func newBaseEvent(eventType StreamEventType) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// StreamStartEvent signals the beginning of a stream.
type StreamStartEvent struct {
	baseEvent
	Model string `json:"model"`
}

// StreamEndEvent signals the end of a stream with final metadata.
type StreamEndEvent struct {
	baseEvent
	FinishReason string `json:"finish_reason"`
	Usage        Usage  `json:"usage"`
}

// TextDeltaEvent contains an incremental text chunk, delivered in arrival
// order with no buffering.
type TextDeltaEvent struct {
	baseEvent
	Delta string `json:"delta"`
}

// TextCompleteEvent carries the full assembled text once generation is done.
type TextCompleteEvent struct {
	baseEvent
	FullText string `json:"full_text"`
}

// ToolCallEvent signals a complete tool call with full arguments.
type ToolCallEvent struct {
	baseEvent
	ToolCall ToolCall `json:"tool_call"`
	Index    int      `json:"index"`
}

// UsageEvent contains token usage information.
type UsageEvent struct {
	baseEvent
	Usage Usage `json:"usage"`
}

// Finish reasons reported on StreamEndEvent.
const (
	FinishReasonStop      = "stop"
	FinishReasonToolCalls = "tool_calls"
	FinishReasonLength    = "length"
	FinishReasonError     = "error"
)

func NewStreamStartEvent(model string) *StreamStartEvent {
	return &StreamStartEvent{baseEvent: newBaseEvent(EventTypeStreamStart), Model: model}
}

func NewStreamEndEvent(finishReason string, usage Usage) *StreamEndEvent {
	return &StreamEndEvent{baseEvent: newBaseEvent(EventTypeStreamEnd), FinishReason: finishReason, Usage: usage}
}

func NewTextDeltaEvent(delta string) *TextDeltaEvent {
	return &TextDeltaEvent{baseEvent: newBaseEvent(EventTypeTextDelta), Delta: delta}
}

func NewTextCompleteEvent(fullText string) *TextCompleteEvent {
	return &TextCompleteEvent{baseEvent: newBaseEvent(EventTypeTextComplete), FullText: fullText}
}

func NewToolCallEvent(toolCall ToolCall, index int) *ToolCallEvent {
	return &ToolCallEvent{baseEvent: newBaseEvent(EventTypeToolCall), ToolCall: toolCall, Index: index}
}

func NewUsageEvent(usage Usage) *UsageEvent {
	return &UsageEvent{baseEvent: newBaseEvent(EventTypeUsage), Usage: usage}
}
