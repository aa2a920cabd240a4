package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/inventory-tag-scanner/internal/extract"
	"github.com/ironsheep/inventory-tag-scanner/internal/server"
	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run the MCP server, reading JSON-RPC requests from stdin and writing
responses to stdout. Logs go to stderr.

With watch_spec enabled and a spec_file configured, edits to the layout
file take effect without a restart. A layout that fails to load is logged
and the previous one stays in effect.

Configure it in your MCP client, for example:

  {"command": "tagscan", "args": ["serve", "--config", "/etc/tagscan/config.yaml"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := loadApp()
		if err != nil {
			return err
		}
		svc := a.scanService()
		server.Version = Version

		if a.cfg.WatchSpec && a.cfg.SpecFile != "" {
			go func() {
				err := tagspec.Watch(ctx, a.cfg.SpecFile, a.logger, func(c *tagspec.Compiled) {
					e, err := extract.New(c)
					if err != nil {
						a.logger.Warn("tagspec.apply.failed", "error", err)
						return
					}
					svc.SetEngine(e)
				})
				if err != nil {
					a.logger.Error("tagspec.watch.failed", "path", a.cfg.SpecFile, "error", err)
				}
			}()
		}

		info := svc.Recognizer().Info()
		if !info.Available {
			a.logger.Warn("ocr.unavailable", "error", info.Error)
		}
		a.logger.Info("tagscan.serve",
			"version", Version,
			"layout", svc.Engine().Spec().Layout,
			"ledger", a.cfg.Ledger.Path,
			"ocr", info.Version,
		)

		srv := server.New(svc, a.ledger(), a.logger)
		return srv.Run(ctx, os.Stdin, os.Stdout)
	},
}
