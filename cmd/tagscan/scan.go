package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/inventory-tag-scanner/internal/imaging"
	"github.com/ironsheep/inventory-tag-scanner/internal/ledger"
	"github.com/ironsheep/inventory-tag-scanner/internal/scan"
)

var (
	scanRegion   string
	scanAnnotate string
	scanCommit   bool
	scanSets     []string
)

// scanOutput is what the scan command prints.
type scanOutput struct {
	*scan.Result
	Committed *ledger.Entry `json:"committed,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Recognize a tag photo and extract its fields",
	Long: `Recognize a tag photo with Tesseract and print the extracted record.

The record is only written to the ledger with --commit. Use --set to
correct fields before committing, after checking them against the tag.

Examples:
  tagscan scan tag.jpg
  tagscan scan tag.jpg --region 120,80,980,600 --annotate boxes.png
  tagscan scan tag.jpg --set quantity=31 --commit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		region, err := parseRegion(scanRegion)
		if err != nil {
			return err
		}

		res, err := a.scanService().Scan(cmd.Context(), scan.Request{
			Path:     args[0],
			Region:   region,
			Annotate: scanAnnotate != "",
		})
		if err != nil {
			return err
		}
		if res.NoText {
			errorf(cmd, "no text recognized in %s", args[0])
		}
		if err := applySets(&res.Record, scanSets); err != nil {
			return err
		}

		if scanAnnotate != "" && res.Annotated != nil {
			data, err := base64.StdEncoding.DecodeString(res.Annotated.ImageBase64)
			if err != nil {
				return err
			}
			if err := os.WriteFile(scanAnnotate, data, 0o644); err != nil {
				return fmt.Errorf("failed to write annotated image: %w", err)
			}
			res.Annotated = nil
		}

		out := scanOutput{Result: res}
		if scanCommit {
			entry, err := a.ledger().Append(res.Record, res.ScanID)
			if err != nil {
				return err
			}
			out.Committed = &entry
		}
		return output(cmd, out)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanRegion, "region", "", "crop to x1,y1,x2,y2 before recognition")
	scanCmd.Flags().StringVar(&scanAnnotate, "annotate", "", "write the recognized image with word boxes to this PNG")
	scanCmd.Flags().BoolVar(&scanCommit, "commit", false, "append the record to the ledger")
	scanCmd.Flags().StringArrayVar(&scanSets, "set", nil, "override a field, e.g. --set quantity=31 (repeatable)")
}

func parseRegion(s string) (imaging.Region, error) {
	var r imaging.Region
	if s == "" {
		return r, nil
	}
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X1, &r.Y1, &r.X2, &r.Y2); err != nil {
		return r, fmt.Errorf("invalid region %q, want x1,y1,x2,y2: %w", s, err)
	}
	return r, nil
}
