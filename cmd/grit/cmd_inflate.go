package main

import (
	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInflateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inflate <object>",
		Short: "Print the raw encoded form of an object, zlib-inflated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open("")
			if err != nil {
				return err
			}
			raw, err := object.ReadEncodedData(r.ObjectStore(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
