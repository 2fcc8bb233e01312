package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/nalssi/nalssi/pkg/ai/provider"
	"github.com/nalssi/nalssi/pkg/ai/tool"
	"github.com/nalssi/nalssi/pkg/ai/types"
)

// exitTokens end the session, matched case-insensitively.
var exitTokens = map[string]struct{}{
	"quit": {},
	"exit": {},
	"q":    {},
}

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	subtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const defaultSystemPrompt = "You are a helpful weather assistant for Korean cities. " +
	"Use the available tools to save and look up user locations and to fetch " +
	"current weather. Answer in the language the user writes in."

// ToolExecutor runs one tool call and reports the outcome as data.
type ToolExecutor interface {
	Execute(ctx context.Context, call types.ToolCall) map[string]any
}

// SessionConfig wires a Session's collaborators.
type SessionConfig struct {
	Model    provider.LanguageModel
	Executor ToolExecutor
	Registry *tool.Registry

	Input  io.Reader
	Output io.Writer

	// Closer is released when the session ends (the location store handle).
	Closer io.Closer

	// SystemPrompt overrides the default instruction when non-empty.
	SystemPrompt string
}

// Session owns one interactive conversation: its history, the line loop,
// and the two-phase generate/execute/resume protocol. History lives for the
// process run only and is append-only.
type Session struct {
	model        provider.LanguageModel
	executor     ToolExecutor
	registry     *tool.Registry
	closer       io.Closer
	systemPrompt string

	in  *bufio.Scanner
	out io.Writer

	history []types.Message
}

func NewSession(cfg SessionConfig) *Session {
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	return &Session{
		model:        cfg.Model,
		executor:     cfg.Executor,
		registry:     cfg.Registry,
		closer:       cfg.Closer,
		systemPrompt: systemPrompt,
		in:           bufio.NewScanner(cfg.Input),
		out:          cfg.Output,
	}
}

// Run drives the session until an exit token or end of input. A failed turn
// is reported on one line and the loop continues; failures never terminate
// the session.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	s.printBanner()

	for {
		fmt.Fprint(s.out, promptStyle.Render("you:")+" ")

		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			// EOF behaves like an exit token.
			fmt.Fprintln(s.out)
			return nil
		}

		input := strings.TrimSpace(s.in.Text())

		if input == "" {
			fmt.Fprintln(s.out, subtextStyle.Render("please type a message"))
			continue
		}

		if _, exit := exitTokens[strings.ToLower(input)]; exit {
			fmt.Fprintln(s.out, "bye! 👋")
			return nil
		}

		if err := s.runTurn(ctx, input); err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Fprintln(s.out, errorStyle.Render("error: "+err.Error()))
			fmt.Fprintln(s.out)
		}
	}
}

// runTurn executes one full user turn: generate, optionally execute a tool
// and resume, then stream the answer. History is committed only when the
// whole turn succeeds, so a failed turn leaves no partial messages behind.
func (s *Session) runTurn(ctx context.Context, input string) error {
	turn := make([]types.Message, len(s.history), len(s.history)+4)
	copy(turn, s.history)

	turn = append(turn, types.Message{
		Role:      types.RoleUser,
		Content:   input,
		Timestamp: time.Now(),
	})

	text, toolCall, err := s.generate(ctx, turn, true)
	if err != nil {
		return err
	}

	if toolCall == nil {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out)

		turn = append(turn, types.Message{
			Role:      types.RoleAssistant,
			Content:   text,
			Timestamp: time.Now(),
		})
		s.history = turn
		return nil
	}

	s.announceToolCall(*toolCall)

	result := s.executor.Execute(ctx, *toolCall)

	turn = append(turn, types.Message{
		Role:      types.RoleAssistant,
		Content:   text,
		ToolCalls: []types.ToolCall{*toolCall},
		Timestamp: time.Now(),
	})
	turn = append(turn, types.Message{
		Role: types.RoleTool,
		ToolResults: []types.ToolResult{{
			ToolCallID: toolCall.ID,
			Name:       toolCall.Name,
			Response:   result,
		}},
		Timestamp: time.Now(),
	})

	// The resumption response is always treated as plain text.
	answer, _, err := s.generate(ctx, turn, false)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out)

	turn = append(turn, types.Message{
		Role:      types.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now(),
	})
	s.history = turn
	return nil
}

// generate issues one streaming request and writes text fragments to the
// output sink in arrival order. When honorToolCall is set, the first
// complete tool call is returned; any further calls in the same turn are
// dropped with a debug log.
func (s *Session) generate(ctx context.Context, messages []types.Message, honorToolCall bool) (string, *types.ToolCall, error) {
	stream, err := s.model.Stream(ctx, provider.GenerateRequest{
		Messages: messages,
		System:   s.systemPrompt,
		Tools:    s.registry.ToTypesTools(),
	})
	if err != nil {
		return "", nil, err
	}

	var text strings.Builder
	var firstCall *types.ToolCall
	labeled := false

	for event := range stream.Events {
		switch e := event.(type) {
		case *types.TextDeltaEvent:
			if !labeled {
				fmt.Fprint(s.out, answerStyle.Render("AI:")+" ")
				labeled = true
			}
			fmt.Fprint(s.out, e.Delta)
			text.WriteString(e.Delta)
		case *types.ToolCallEvent:
			if !honorToolCall {
				log.Debug().Str("tool", e.ToolCall.Name).Msg("ignoring tool call in resumption response")
				continue
			}
			if firstCall != nil {
				log.Debug().Str("tool", e.ToolCall.Name).Msg("ignoring additional tool call in the same turn")
				continue
			}
			call := e.ToolCall
			firstCall = &call
		case *types.UsageEvent:
			log.Debug().
				Int("prompt_tokens", e.Usage.PromptTokens).
				Int("completion_tokens", e.Usage.CompletionTokens).
				Msg("generation usage")
		}
	}

	if err := stream.Err(); err != nil {
		return "", nil, err
	}

	if !labeled && firstCall == nil {
		fmt.Fprint(s.out, answerStyle.Render("AI:")+" ")
	}

	return text.String(), firstCall, nil
}

func (s *Session) announceToolCall(call types.ToolCall) {
	args, err := json.Marshal(call.Arguments)
	if err != nil {
		args = []byte("{}")
	}

	fmt.Fprintln(s.out, toolStyle.Render(fmt.Sprintf("🔧 %s(%s)", call.Name, args)))
	log.Debug().Str("tool", call.Name).RawJSON("arguments", args).Msg("tool requested")
}

func (s *Session) printBanner() {
	fmt.Fprintln(s.out, bannerStyle.Render(strings.Repeat("=", 60)))
	fmt.Fprintln(s.out, bannerStyle.Render("🤖 nalssi weather chat agent"))
	fmt.Fprintln(s.out, bannerStyle.Render(strings.Repeat("=", 60)))
	fmt.Fprintln(s.out, subtextStyle.Render("type 'quit', 'exit' or 'q' to leave"))
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, subtextStyle.Render("try:"))
	fmt.Fprintln(s.out, subtextStyle.Render("  - 오형석은 대전에 살아"))
	fmt.Fprintln(s.out, subtextStyle.Render("  - 오형석 날씨 알려줘"))
	fmt.Fprintln(s.out, subtextStyle.Render("  - what's the weather in Seoul?"))
	fmt.Fprintln(s.out, subtextStyle.Render("  - who is registered?"))
	fmt.Fprintln(s.out)
}

func (s *Session) close() {
	if s.closer == nil {
		return
	}
	if err := s.closer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
}

// History exposes the committed conversation turns.
func (s *Session) History() []types.Message {
	return s.history
}
