package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var (
		typeName  string
		write     bool
		useStdin  bool
		literally bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [-t <type>] [-w] [--stdin [--literally]] [<file>...]",
		Short: "Compute the object name of content, optionally storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !useStdin && len(args) == 0 {
				return fmt.Errorf("hash-object: no input given")
			}

			var store *object.Store
			if write {
				r, err := repo.Open("")
				if err != nil {
					return err
				}
				store = r.ObjectStore()
				if err := store.Setup(); err != nil {
					return err
				}
			}

			checkFormat := !literally

			if useStdin {
				name, err := object.HashObject(store, cmd.InOrStdin(), typeName, checkFormat, write)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				name, err := object.HashObject(store, f, typeName, checkFormat, write)
				f.Close()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "blob", "object type")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object store")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "read content from standard input")
	cmd.Flags().BoolVar(&literally, "literally", false, "skip the canonical format check")
	return cmd
}
