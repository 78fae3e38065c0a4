package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var (
		showType         bool
		showSize         bool
		checkExists      bool
		pretty           bool
		allowUnknownType bool
	)

	cmd := &cobra.Command{
		Use:   "cat-file (<type> <object> | -e <object> | -p <object> | (-t | -s) [--allow-unknown-type] <object>)",
		Short: "Provide content, type or size information for repository objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open("")
			if err != nil {
				return err
			}
			store := r.ObjectStore()
			out := cmd.OutOrStdout()

			switch {
			case showType || showSize:
				if len(args) != 1 {
					return fmt.Errorf("cat-file: expected exactly one object name")
				}
				typeName, size, err := object.ReadTypeAndSize(store, args[0], allowUnknownType)
				if err != nil {
					return err
				}
				if showType {
					fmt.Fprintln(out, typeName)
				} else {
					fmt.Fprintln(out, size)
				}
				return nil

			case checkExists:
				if len(args) != 1 {
					return fmt.Errorf("cat-file: expected exactly one object name")
				}
				if _, _, err := object.ReadTypeAndSize(store, args[0], false); err != nil {
					return err
				}
				return nil

			case pretty:
				if len(args) != 1 {
					return fmt.Errorf("cat-file: expected exactly one object name")
				}
				obj, err := object.ReadObject(store, args[0], "")
				if err != nil {
					return err
				}
				return object.Format(out, obj)

			default:
				if len(args) != 2 {
					return fmt.Errorf("cat-file: expected <type> <object>")
				}
				typ, err := object.ParseType(args[0])
				if err != nil {
					return err
				}
				obj, err := object.ReadObject(store, args[1], typ)
				if err != nil {
					return err
				}
				_, err = out.Write(obj.Marshal())
				return err
			}
		},
	}

	cmd.Flags().BoolVarP(&showType, "show-type", "t", false, "print the object's type")
	cmd.Flags().BoolVarP(&showSize, "show-size", "s", false, "print the object's size")
	cmd.Flags().BoolVarP(&checkExists, "exists", "e", false, "exit with zero status if the object exists")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object's content")
	cmd.Flags().BoolVar(&allowUnknownType, "allow-unknown-type", false, "tolerate objects of unknown type")
	return cmd
}
