package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/store"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect saved progress and the event journal",
}

// openStore opens the database without loading an engine.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the character's saved progress document",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		doc, err := st.ProgressRepo().FetchProgress(cmd.Context(), cfg.CharacterID)
		if errors.Is(err, persistence.ErrNotFound) {
			fmt.Printf("no saved progress for %q\n", cfg.CharacterID)
			return nil
		}
		if err != nil {
			return err
		}
		return printJSONAsYAML(doc)
	},
}

var progressHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past saves, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		prune, _ := cmd.Flags().GetInt("prune")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.ProgressRepo()

		if prune > 0 {
			if err := repo.Prune(cmd.Context(), cfg.CharacterID, prune); err != nil {
				return fmt.Errorf("prune history: %w", err)
			}
		}

		entries, err := repo.History(cmd.Context(), cfg.CharacterID, limit)
		if err != nil {
			return err
		}
		fmt.Printf("%-6s  %-36s  %-20s  %6s  %8s  %6s\n", "ID", "Save", "Saved at", "Rep", "Unlocked", "Active")
		fmt.Println(strings.Repeat("─", 92))
		for _, e := range entries {
			fmt.Printf("%-6d  %-36s  %-20s  %6d  %8d  %6d\n",
				e.ID, e.SaveID, e.SavedAt.Local().Format(time.DateTime),
				e.Document.Reputation, len(e.Document.UnlockedSkills), len(e.Document.ActiveSkills))
		}
		fmt.Printf("\n%d saves\n", len(entries))
		return nil
	},
}

var progressCharactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List characters with saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ids, err := st.ProgressRepo().Characters(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var progressEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the event journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")
		if typ != "" && !events.Known(events.Type(typ)) {
			return fmt.Errorf("unknown event type %q", typ)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{
			CharacterID: cfg.CharacterID,
			Type:        events.Type(typ),
			Limit:       limit,
		}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		recs, err := st.EventRepo().Query(cmd.Context(), opts)
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Printf("%6d  %s  %-32s  %s\n", r.Sequence, r.Timestamp.Local().Format(time.DateTime), r.Event.Type, describeEvent(r.Event))
		}
		return nil
	},
}

func describeEvent(e events.Event) string {
	var parts []string
	if e.NodeID != "" {
		parts = append(parts, "node="+e.NodeID)
	}
	if e.Specialization != "" {
		parts = append(parts, "spec="+e.Specialization)
	}
	if e.Reason != "" {
		parts = append(parts, "reason="+e.Reason)
	}
	if e.Source != "" {
		parts = append(parts, "source="+e.Source)
	}
	if e.Delta != nil {
		parts = append(parts, fmt.Sprintf("%d→%d", e.Delta.Old, e.Delta.New))
	}
	if e.EffectType != "" {
		parts = append(parts, "effect="+e.EffectType)
	}
	if e.Error != "" {
		parts = append(parts, "error="+e.Error)
	}
	return strings.Join(parts, " ")
}

func init() {
	progressHistoryCmd.Flags().Int("limit", 20, "Number of saves to show (0 = all)")
	progressHistoryCmd.Flags().Int("prune", 0, "Keep only the newest N saves before listing")
	progressEventsCmd.Flags().String("type", "", "Only events of this type")
	progressEventsCmd.Flags().Int("limit", 50, "Number of events to show (0 = all)")
	progressEventsCmd.Flags().Duration("since", 0, "Only events newer than this (e.g. 24h)")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressHistoryCmd)
	progressCmd.AddCommand(progressCharactersCmd)
	progressCmd.AddCommand(progressEventsCmd)
}
