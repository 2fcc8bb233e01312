package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nalssi/nalssi/internal/config"
	"github.com/nalssi/nalssi/internal/store"
)

var usersHeaderStyle = lipgloss.NewStyle().Bold(true)

func NewUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users and their locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(cmd)
		},
	}
}

func runUsers(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	locations, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open location store: %w", err)
	}
	defer locations.Close()

	users, err := locations.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("no registered users")
		return nil
	}

	fmt.Println(usersHeaderStyle.Render(fmt.Sprintf("%-20s %s", "NAME", "LOCATION")))
	for _, u := range users {
		fmt.Printf("%-20s %s\n", u.Name, u.Location)
	}

	return nil
}
