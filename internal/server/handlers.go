package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/inventory-tag-scanner/internal/imaging"
	"github.com/ironsheep/inventory-tag-scanner/internal/ledger"
	"github.com/ironsheep/inventory-tag-scanner/internal/scan"
	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

// errInvalidParams marks tool arguments the client got wrong, as opposed
// to a tool that failed while running.
var errInvalidParams = errors.New("invalid params")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "tag_scan", "tag_commit").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return code -32602; other tool errors return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if errors.Is(err, errInvalidParams) {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if err != nil {
		s.logger.Warn("mcp.tool.failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Extraction
	case "tag_scan":
		return s.handleTagScan(ctx, args)
	case "tag_extract":
		return s.handleTagExtract(args)

	// Ledger
	case "tag_commit":
		return s.handleTagCommit(args)
	case "ledger_summary":
		return s.handleLedgerSummary(args)
	case "ledger_download":
		return s.handleLedgerDownload()

	// Diagnostics
	case "tag_specs":
		return s.handleTagSpecs(args)
	case "ocr_info":
		return s.scans.Recognizer().Info(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

// === Extraction Handlers ===

type tagScanArgs struct {
	Path        string          `json:"path"`
	ImageBase64 string          `json:"image_base64"`
	Region      *imaging.Region `json:"region"`
	Annotate    bool            `json:"annotate"`
}

func (s *Server) handleTagScan(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a tagScanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if (a.Path == "") == (a.ImageBase64 == "") {
		return nil, fmt.Errorf("%w: set exactly one of path or image_base64", errInvalidParams)
	}

	req := scan.Request{Path: a.Path, Annotate: a.Annotate}
	if a.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: image_base64: %v", errInvalidParams, err)
		}
		req.Image = data
	}
	if a.Region != nil {
		req.Region = *a.Region
	}
	return s.scans.Scan(ctx, req)
}

type tagExtractArgs struct {
	Fragments []string `json:"fragments"`
}

func (s *Server) handleTagExtract(args json.RawMessage) (interface{}, error) {
	var a tagExtractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Fragments == nil {
		return nil, fmt.Errorf("%w: fragments is required", errInvalidParams)
	}
	return s.scans.Engine().Extract(a.Fragments), nil
}

// === Ledger Handlers ===

type tagCommitArgs struct {
	Record *tag.Record `json:"record"`
	ScanID string      `json:"scan_id"`
}

type commitResult struct {
	Entry ledger.Entry `json:"entry"`
	Total int          `json:"total"`
}

func (s *Server) handleTagCommit(args json.RawMessage) (interface{}, error) {
	var a tagCommitArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Record == nil {
		return nil, fmt.Errorf("%w: record is required", errInvalidParams)
	}

	entry, err := s.ledger.Append(*a.Record, a.ScanID)
	if err != nil {
		return nil, err
	}
	total, err := s.ledger.Count()
	if err != nil {
		return nil, err
	}
	return commitResult{Entry: entry, Total: total}, nil
}

type ledgerSummaryArgs struct {
	Recent int `json:"recent"`
}

type ledgerSummary struct {
	Path   string         `json:"path"`
	Sheet  string         `json:"sheet"`
	Exists bool           `json:"exists"`
	Count  int            `json:"count"`
	Recent []ledger.Entry `json:"recent,omitempty"`
}

func (s *Server) handleLedgerSummary(args json.RawMessage) (interface{}, error) {
	var a ledgerSummaryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Recent < 0 {
		return nil, fmt.Errorf("%w: recent must not be negative", errInvalidParams)
	}

	out := ledgerSummary{Path: s.ledger.Path(), Sheet: s.ledger.Sheet()}
	entries, err := s.ledger.List()
	if errors.Is(err, ledger.ErrNoLedger) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Exists = true
	out.Count = len(entries)
	if a.Recent > 0 {
		from := len(entries) - a.Recent
		if from < 0 {
			from = 0
		}
		out.Recent = entries[from:]
	}
	return out, nil
}

type ledgerDownload struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	DataBase64 string `json:"data_base64"`
	Size       int    `json:"size"`
}

func (s *Server) handleLedgerDownload() (interface{}, error) {
	data, err := s.ledger.Bytes()
	if err != nil {
		return nil, err
	}
	return ledgerDownload{
		FileName:   ledger.DownloadName,
		MimeType:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		DataBase64: base64.StdEncoding.EncodeToString(data),
		Size:       len(data),
	}, nil
}

// === Diagnostic Handlers ===

type tagSpecsArgs struct {
	Format string `json:"format"`
}

type tagSpecsYAML struct {
	Layout string `json:"layout"`
	YAML   string `json:"yaml"`
}

func (s *Server) handleTagSpecs(args json.RawMessage) (interface{}, error) {
	var a tagSpecsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	spec := s.scans.Engine().Spec()
	set := tagspec.Set{Layout: spec.Layout}
	for _, f := range spec.Fields {
		set.Fields = append(set.Fields, f.Spec)
	}

	switch a.Format {
	case "", "json":
		return set, nil
	case "yaml":
		data, err := tagspec.Marshal(set)
		if err != nil {
			return nil, err
		}
		return tagSpecsYAML{Layout: set.Layout, YAML: string(data)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", errInvalidParams, a.Format)
	}
}
