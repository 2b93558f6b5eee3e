package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the extraction tools on an MCP server. The tools
// operate on the upload directory, same as the file-based HTTP routes.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerExtractTool(srv)
	s.registerListTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func errorResult(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Errorf("marshal: %w", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

type mcpExtractReq struct {
	Filename string `json:"filename"`
}

func (s *Service) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "marksight_extract",
		Description: "Extract structured marksheet data from an uploaded PDF by filename.",
		InputSchema: inputSchema(map[string]any{
			"filename": map[string]any{"type": "string", "description": "Name of a PDF in the upload directory"},
		}, []string{"filename"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r mcpExtractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return errorResult(fmt.Errorf("invalid arguments: %w", err)), nil
		}
		if err := validateFilename(r.Filename); err != nil {
			return errorResult(err), nil
		}

		data, err := os.ReadFile(filepath.Join(s.cfg.UploadDir, r.Filename))
		if err != nil {
			return errorResult(errors.New("file not found")), nil
		}
		result, _, err := s.extract(ctx, data, "mcp", r.Filename)
		if err != nil {
			return errorResult(errors.New(err.Error())), nil
		}
		return jsonResult(result)
	})
}

func (s *Service) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "marksight_list",
		Description: "List the PDF files available in the upload directory.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := os.ReadDir(s.cfg.UploadDir)
		if err != nil && !os.IsNotExist(err) {
			return errorResult(fmt.Errorf("list uploads: %w", err)), nil
		}
		names := []string{}
		for _, e := range entries {
			if !e.IsDir() && isAllowedFile(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		return jsonResult(map[string]any{"pdfs": names})
	})
}
