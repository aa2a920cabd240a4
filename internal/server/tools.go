package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema describes an optional crop rectangle in pixel coordinates.
func regionSchema() map[string]interface{} {
	coord := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": "Crop to this rectangle before recognition. Omit to scan the whole photo.",
		"properties": map[string]interface{}{
			"x1": coord("Left edge X coordinate (0-based)"),
			"y1": coord("Top edge Y coordinate (0-based)"),
			"x2": coord("Right edge X coordinate (exclusive)"),
			"y2": coord("Bottom edge Y coordinate (exclusive)"),
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// recordSchema describes a tag record as the user verified it.
func recordSchema() map[string]interface{} {
	field := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": "The verified tag fields. Empty strings are allowed.",
		"properties": map[string]interface{}{
			"book":     field("Book number"),
			"tag":      field("Tag serial number"),
			"material": field("Material or part number"),
			"quantity": field("Counted quantity"),
			"location": field("Storage location code"),
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Extraction
		{
			Name:        "tag_scan",
			Description: "Recognize an inventory tag photo and extract its fields (book, tag, material, quantity, location). The photo is tried at several rotations and the most confident reading wins. Returns the record for the user to verify, how each field was found, and a scan_id to pass to tag_commit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the tag photo",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Tag photo as base64 (PNG, JPEG, GIF, BMP, TIFF or WebP). Use instead of path.",
					},
					"region": regionSchema(),
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the recognized image with word boxes drawn on it",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "tag_extract",
			Description: "Extract tag fields from text fragments that were already recognized, in reading order. Useful to re-run extraction after correcting OCR text by hand.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"fragments": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Recognized text fragments in emission order",
					},
				},
				"required": []string{"fragments"},
			},
		},

		// Ledger
		{
			Name:        "tag_commit",
			Description: "Append a verified tag record to the inventory workbook. Returns the written row and the number of tags counted so far.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"record": recordSchema(),
					"scan_id": map[string]interface{}{
						"type":        "string",
						"description": "scan_id returned by tag_scan. A new one is assigned when omitted.",
					},
				},
				"required": []string{"record"},
			},
		},
		{
			Name:        "ledger_summary",
			Description: "Report how many tags have been committed and, optionally, the most recent ones.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"recent": map[string]interface{}{
						"type":        "integer",
						"description": "Number of most recent entries to include",
						"default":     0,
						"minimum":     0,
					},
				},
			},
		},
		{
			Name:        "ledger_download",
			Description: "Return the inventory workbook as base64-encoded XLSX.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Diagnostics
		{
			Name:        "tag_specs",
			Description: "Show the tag layout in effect: field labels, value shapes and known location codes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"json", "yaml"},
						"description": "Encoding of the layout",
						"default":     "json",
					},
				},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report whether the OCR engine is available and which version and language it uses.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
