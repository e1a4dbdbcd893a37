package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage game runs",
}

var runStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new run: deactivate non-core skills and grant skill points",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		if level < 1 {
			return fmt.Errorf("--level must be at least 1")
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		r, ok := s.engine.ResetActiveSkills(level)
		if !ok {
			return fmt.Errorf("skill tree not loaded")
		}
		fmt.Printf("run %s started at level %d with %d skill points\n", r.ID, r.CharacterLevel, r.SkillPoints)
		return nil
	},
}

var currencyCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant reputation or skill points",
}

var grantReputationCmd = &cobra.Command{
	Use:   "reputation <amount>",
	Short: "Add reputation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		source, _ := cmd.Flags().GetString("source")
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return report(fmt.Sprintf("add %d reputation", amount), s.engine.AddReputation(amount, source))
	},
}

var grantSkillPointsCmd = &cobra.Command{
	Use:   "skill-points <amount>",
	Short: "Add skill points to the current run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		source, _ := cmd.Flags().GetString("source")
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return report(fmt.Sprintf("add %d skill points", amount), s.engine.AddSkillPoints(amount, source))
	},
}

func init() {
	runStartCmd.Flags().Int("level", 1, "Character level for the new run")
	runCmd.AddCommand(runStartCmd)

	grantReputationCmd.Flags().String("source", "cli", "Source recorded on the event")
	grantSkillPointsCmd.Flags().String("source", "cli", "Source recorded on the event")
	currencyCmd.AddCommand(grantReputationCmd)
	currencyCmd.AddCommand(grantSkillPointsCmd)
}
