package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"finitefield.org/folio-web/internal/listview"
)

// newWalkCmd creates the 'walk' command.
func newWalkCmd(root *rootOptions) *cobra.Command {
	var (
		tag  string
		size int
		back int
	)
	cmd := &cobra.Command{
		Use:   "walk <entity>",
		Short: "Page through a whole list, then step back through history",
		Long: `Visit every page of a list in order, pushing each page onto an in-memory
history, then go back --back entries the way a browser back button would.

Examples:
  folioctl walk projects --tag Python
  folioctl walk certifications --back 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			name, ent, err := lookupEntity(args[0])
			if err != nil {
				return err
			}
			if size <= 0 {
				size = ent.pageSize(sizesFrom(e))
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			hist := listview.NewMemoryHistory(listview.Params{Page: 1, Tag: tag}.Encode())
			s := ent.session(e, hist, size)
			s.Mount(ctx)
			defer s.Unmount()

			for {
				if err := s.Wait(ctx); err != nil {
					return err
				}
				snap := s.Snapshot()
				_ = printSnapshot(out, snap, false)
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				if !snap.HasNext {
					break
				}
				s.SetPage(snap.Page + 1)
			}

			for i := 0; i < back; i++ {
				if _, ok := hist.Back(); !ok {
					break
				}
				if !s.SyncFromURL() {
					continue
				}
				if err := s.Wait(ctx); err != nil {
					return err
				}
				fmt.Fprint(out, "back: ")
				_ = printSnapshot(out, s.Snapshot(), false)
			}
			fmt.Fprintf(out, "history (%s):\n", name)
			for _, entry := range hist.Entries() {
				fmt.Fprintln(out, "  ?"+entry)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "tag filter (projects)")
	cmd.Flags().IntVar(&size, "page-size", 0, "items per page (default from config)")
	cmd.Flags().IntVar(&back, "back", 0, "history entries to go back after the walk")
	return cmd
}
