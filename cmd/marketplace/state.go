package main

import (
	"encoding/json"
	"fmt"
	"os"
	"ticketing-marketplace-backend/factory"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the persisted ledger as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := factory.NewFactory().Store(ctx)
		if err != nil {
			return fmt.Errorf("state: %w", err)
		}
		defer s.Close()

		state, err := s.Load(ctx)
		if err != nil {
			return fmt.Errorf("state: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state.Snapshot())
	},
}
