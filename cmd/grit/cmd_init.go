package main

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		initialBranch string
		bare          bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := repo.SetupOptions{
				InitialBranch: initialBranch,
				Bare:          bare,
			}
			if len(args) > 0 {
				opts.Name = args[0]
			}

			r, err := repo.Setup(opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty repository in %s\n",
				r.Name()+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVarP(&initialBranch, "initial-branch", "b", repo.DefaultBranch,
		"name of the initial branch")
	cmd.Flags().BoolVar(&bare, "bare", false, "create a bare repository")
	return cmd
}
