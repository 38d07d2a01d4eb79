package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"finitefield.org/folio-web/internal/listview"
)

// newListCmd creates the 'list' command.
func newListCmd(root *rootOptions) *cobra.Command {
	var (
		page       int
		tag        string
		size       int
		outputJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "Print one page of a list",
		Long: `Print one page of projects, experiences, certifications, achievements or publications.

Examples:
  # Second page of Python projects
  folioctl list projects --page 2 --tag Python

  # JSON output
  folioctl list publications --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			_, ent, err := lookupEntity(args[0])
			if err != nil {
				return err
			}
			if size <= 0 {
				size = ent.pageSize(sizesFrom(e))
			}
			ctx := cmd.Context()
			hist := listview.NewMemoryHistory(listview.Params{Page: page, Tag: tag}.Encode())
			s := ent.session(e, hist, size)
			s.Mount(ctx)
			defer s.Unmount()
			if err := s.Wait(ctx); err != nil {
				return err
			}
			snap := s.Snapshot()
			if err := printSnapshot(cmd.OutOrStdout(), snap, outputJSON); err != nil {
				return err
			}
			if snap.Error != "" {
				return errors.New(snap.Error)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "url: ?"+hist.Location())
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&tag, "tag", "", "tag filter (projects)")
	cmd.Flags().IntVar(&size, "page-size", 0, "items per page (default from config)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output JSON")
	return cmd
}
