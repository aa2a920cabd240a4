package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

var (
	ledgerSets   []string
	ledgerScanID string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and export the inventory workbook",
}

var ledgerCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of committed tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		n, err := a.ledger().Count()
		if err != nil {
			return err
		}
		return output(cmd, map[string]any{"path": a.cfg.Ledger.Path, "count": n})
	},
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every committed tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		entries, err := a.ledger().List()
		if err != nil {
			return err
		}
		return output(cmd, entries)
	},
}

var ledgerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Commit a record typed in by hand",
	Long: `Commit a record typed in by hand, for tags that cannot be photographed.

Example:
  tagscan ledger add --set book=1940 --set tag=48490 --set quantity=30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		var rec tag.Record
		if err := applySets(&rec, ledgerSets); err != nil {
			return err
		}
		entry, err := a.ledger().Append(rec, ledgerScanID)
		if err != nil {
			return err
		}
		return output(cmd, entry)
	},
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export <dst.xlsx>",
	Short: "Copy the workbook to another file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if err := a.ledger().Export(args[0]); err != nil {
			return err
		}
		errorf(cmd, "exported %s to %s", a.cfg.Ledger.Path, args[0])
		return nil
	},
}

func init() {
	ledgerAddCmd.Flags().StringArrayVar(&ledgerSets, "set", nil, "field value, e.g. --set book=1940 (repeatable)")
	ledgerAddCmd.Flags().StringVar(&ledgerScanID, "scan-id", "", "scan id to record (default: a new id)")

	ledgerCmd.AddCommand(ledgerCountCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerAddCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
}

// applySets applies field=value overrides to rec.
func applySets(rec *tag.Record, sets []string) error {
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, want field=value", s)
		}
		if !rec.Set(strings.ToLower(strings.TrimSpace(name)), value) {
			return fmt.Errorf("unknown field %q, want one of %s", name, strings.Join(tag.Fields, ", "))
		}
	}
	return nil
}
