package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsFilesCmd() *cobra.Command {
	var (
		opts          repo.ListOptions
		nulTerminated bool
	)

	cmd := &cobra.Command{
		Use:   "ls-files [-c] [-o] [-d] [-m] [-u] [-k] [-s] [-z]",
		Short: "Show information about files in the index and the working tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open("")
			if err != nil {
				return err
			}
			entries, err := r.ListFiles(opts)
			if err != nil {
				return err
			}

			term := byte('\n')
			if nulTerminated {
				term = 0
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if err := printEntry(out, e, term); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Cached, "cached", "c", false, "show tracked files")
	cmd.Flags().BoolVarP(&opts.Others, "others", "o", false, "show untracked files")
	cmd.Flags().BoolVarP(&opts.Deleted, "deleted", "d", false, "show deleted files")
	cmd.Flags().BoolVarP(&opts.Modified, "modified", "m", false, "show modified files")
	cmd.Flags().BoolVarP(&opts.Unmerged, "unmerged", "u", false, "show unmerged files")
	cmd.Flags().BoolVarP(&opts.Killed, "killed", "k", false, "show files blocking tracked paths")
	cmd.Flags().BoolVarP(&opts.StageInfo, "stage", "s", false, "show staged contents' mode, object name and stage")
	cmd.Flags().BoolVarP(&nulTerminated, "null", "z", false, "terminate entries with NUL")
	return cmd
}

func printEntry(w io.Writer, e repo.FileEntry, term byte) error {
	var err error
	if e.StageInfo {
		_, err = fmt.Fprintf(w, "%06o %s %d\t%s%c", uint32(e.Mode), e.ID, e.Stage, e.Path, term)
	} else {
		_, err = fmt.Fprintf(w, "%s%c", e.Path, term)
	}
	return err
}
