// Package server implements the MCP (Model Context Protocol) server for
// inventory tag scanning.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line, so a
// counting assistant can photograph a tag, review the extracted fields with
// the user and commit the verified record to the inventory workbook.
//
// # Protocol
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Extraction:
//   - tag_scan: Recognize a tag photo and extract its fields
//   - tag_extract: Extract fields from already recognized text
//
// Ledger:
//   - tag_commit: Append a verified record to the workbook
//   - ledger_summary: Count committed tags and list recent ones
//   - ledger_download: Fetch the workbook as base64 XLSX
//
// Diagnostics:
//   - tag_specs: Show the tag layout in effect
//   - ocr_info: Report OCR engine availability
//
// Nothing reaches the workbook without an explicit tag_commit; tag_scan
// only proposes a record.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with code -32602 for bad
// tool arguments, -32601 for unknown methods and -32000 for tools that
// failed while running. The data member carries the Go error string.
//
// # Usage
//
//	srv := server.New(scans, led, logger)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
