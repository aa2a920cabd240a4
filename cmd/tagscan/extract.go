package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [fragment...]",
	Short: "Extract tag fields from recognized text",
	Long: `Extract tag fields from text fragments that were already recognized.
Fragments are taken from the arguments, or one per line from stdin when
no arguments are given.

Examples:
  tagscan extract "BOOK NO 1940" "QTY30" "TAGSRNO:48490"
  tesseract tag.png - | tagscan extract -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		fragments := args
		if len(fragments) == 0 {
			fragments, err = readLines(cmd)
			if err != nil {
				return err
			}
		}
		return output(cmd, a.engine.Extract(fragments))
	},
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fragments: %w", err)
	}
	return lines, nil
}
