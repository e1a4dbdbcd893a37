package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all progress for the character",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset discards every unlock for %q; pass --yes to confirm", cfg.CharacterID)
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if !s.engine.ResetAll() {
			return fmt.Errorf("skill tree not loaded")
		}
		if err := s.engine.SaveProgressSync(cmd.Context()); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		fmt.Printf("progress for %q reset\n", cfg.CharacterID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
