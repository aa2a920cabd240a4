package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expected := []string{
		"tag_scan", "tag_extract",
		"tag_commit", "ledger_summary", "ledger_download",
		"tag_specs", "ocr_info",
	}
	if len(tools) != len(expected) {
		t.Fatalf("Tool count: got %d, want %d", len(tools), len(expected))
	}

	names := make(map[string]bool)
	for _, tool := range tools {
		if names[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		names[tool.Name] = true
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("missing tool %s", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Description should not be empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema.type: got %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema.properties should be a map")
			}
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("tool does not marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"tag_extract", []string{"fragments"}},
		{"tag_commit", []string{"record"}},
		{"tag_scan", nil},
		{"ledger_summary", nil},
	}

	defs := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		defs[tool.Name] = tool
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			got, _ := defs[tt.tool].InputSchema["required"].([]string)
			if len(got) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", got, tt.required)
			}
			for i := range got {
				if got[i] != tt.required[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], tt.required[i])
				}
			}
		})
	}
}

func TestToolDefinitions_RecordFields(t *testing.T) {
	var commit Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "tag_commit" {
			commit = tool
		}
	}
	props := commit.InputSchema["properties"].(map[string]interface{})
	record := props["record"].(map[string]interface{})
	fields := record["properties"].(map[string]interface{})
	for _, name := range []string{"book", "tag", "material", "quantity", "location"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("record schema missing %s", name)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t, &fakeRecognizer{})
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
