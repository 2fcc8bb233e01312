package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nalssi/nalssi/internal/agent"
	"github.com/nalssi/nalssi/internal/config"
	"github.com/nalssi/nalssi/internal/store"
	"github.com/nalssi/nalssi/internal/userweather"
	"github.com/nalssi/nalssi/internal/weather"
	"github.com/nalssi/nalssi/pkg/ai/provider/gemini"
)

func NewChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long:  `Start the interactive conversation loop. Requires GOOGLE_AI_KEY and KMA_API_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}
}

func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	locations, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open location store: %w", err)
	}

	weatherClient := weather.NewClient(cfg.KMAAPIKey, weather.WithTimeout(cfg.HTTPTimeout))
	composer := userweather.NewComposer(locations, weatherClient)
	dispatcher := agent.NewDispatcher(locations, weatherClient, composer)

	model, err := gemini.New(ctx, cfg.GoogleAIKey, cfg.Model)
	if err != nil {
		locations.Close()
		return fmt.Errorf("failed to initialize model: %w", err)
	}

	log.Info().Str("model", model.ID()).Str("db_path", cfg.DBPath).Msg("starting chat session")

	session := agent.NewSession(agent.SessionConfig{
		Model:    model,
		Executor: dispatcher,
		Registry: agent.NewToolRegistry(),
		Input:    os.Stdin,
		Output:   os.Stdout,
		Closer:   locations,
	})

	return session.Run(ctx)
}
