package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mimic/internal/config"
	"github.com/ayusman/mimic/internal/gesture"
	"github.com/ayusman/mimic/internal/store"
)

func newEventsCmd(cfg *config.Config) *cobra.Command {
	var (
		sessionID string
		limit     int
		stats     bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recorded gesture changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfg.DBPath()); err != nil {
				return fmt.Errorf("no history at %s: %w", cfg.DBPath(), err)
			}
			st, err := store.New(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer w.Flush()

			if stats {
				counts, err := st.Events().CountByLabel(sessionID)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "GESTURE\tCOUNT")
				for _, l := range gesture.Labels() {
					fmt.Fprintf(w, "%s\t%d\n", l, counts[l])
				}
				return nil
			}

			var events []*store.Event
			if sessionID != "" {
				events, err = st.Events().ListBySession(sessionID)
			} else {
				events, err = st.Events().Recent(limit)
			}
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(w, "No gesture changes recorded.")
				return nil
			}

			fmt.Fprintln(w, "ID\tSESSION\tFROM\tTO\tHAND\tFINGERS\tSCORE\tTIME")
			for _, e := range events {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
					e.ID, shortID(e.SessionID), e.Previous, e.Label, e.Handedness,
					e.Fingers, e.Score, e.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&sessionID, "session", "s", "", "only show this session")
	f.IntVarP(&limit, "limit", "n", 20, "number of recent changes to show")
	f.BoolVar(&stats, "stats", false, "count changes per gesture instead of listing them")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
