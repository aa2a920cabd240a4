package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Work with tag layout files",
}

var specDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the layout in effect as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		spec := a.engine.Spec()
		set := tagspec.Set{Layout: spec.Layout}
		for _, f := range spec.Fields {
			set.Fields = append(set.Fields, f.Spec)
		}
		data, err := tagspec.Marshal(set)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var specInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the built-in layout to a file for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tagspec.WriteDefault(args[0]); err != nil {
			return err
		}
		errorf(cmd, "wrote %s", args[0])
		return nil
	},
}

var specCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate a layout file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := tagspec.Load(args[0])
		if err != nil {
			return err
		}
		names := make([]string, len(spec.Fields))
		for i, f := range spec.Fields {
			names[i] = f.Spec.Name
		}
		return output(cmd, map[string]any{"layout": spec.Layout, "fields": names, "valid": true})
	},
}

func init() {
	specCmd.AddCommand(specDumpCmd)
	specCmd.AddCommand(specInitCmd)
	specCmd.AddCommand(specCheckCmd)
}
