package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

const (
	tipsURI   = "daybrief://productivity-tips"
	schemaURI = "daybrief://schema"
)

type schemaResponse struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Priorities    []string `json:"priorities"`
	Statuses      []string `json:"statuses"`
}

func (s *Server) registerTipsResource() {
	s.mcpServer.Resource(tipsURI).
		Name(tipsURI).
		Description("Productivity tips included with every daily plan").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			return jsonResource(tipsURI, planning.ProductivityTips())
		})
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(schemaURI).
		Name(schemaURI).
		Description("MCP tool schema version and accepted enum values").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			resp := schemaResponse{
				SchemaVersion: SchemaVersion,
				ServerVersion: Version,
			}
			for _, p := range planning.AllItemPriorities() {
				resp.Priorities = append(resp.Priorities, p.String())
			}
			for _, st := range planning.AllItemStatuses() {
				resp.Statuses = append(resp.Statuses, st.String())
			}
			return jsonResource(schemaURI, resp)
		})
}

func jsonResource(uri string, v any) (*mcplib.ResourceContent, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcplib.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
