package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/sunspot/internal/contract"
	mcp_internal "github.com/huangsam/sunspot/internal/mcp"
	"github.com/huangsam/sunspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}
	return &contract.Config{
		Field:       schema.GHI,
		Granularity: schema.RawGranularity,
		TestKind:    schema.BothTests,
		Precision:   2,
		Output:      schema.TextOut,
		Sources: map[schema.Origin]string{
			schema.Benin: write("benin.csv", "Timestamp,GHI,DNI,Tamb,RH\n2021-08-09 10:00,500,450,39.5,60\n2021-08-09 10:30,520,470,41.2,62\n2021-08-09 11:00,610,480,40.1,58\n"),
			schema.Togo:  write("togo.csv", "Timestamp,GHI,DNI,Tamb,RH\n2021-08-09 10:00,300,200,30,78\n2021-08-09 10:30,320,220,30.5,80\n2021-08-09 11:00,340,210,31,81\n"),
		},
	}
}

func call(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "the MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	cfg := baseConfig(t)

	t.Run("summarize_metric", func(t *testing.T) {
		res := call(t, cfg, "summarize_metric", map[string]any{"metric": "dni"})
		require.False(t, res.IsError, text(res))
		var result schema.SummaryResult
		require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
		assert.Equal(t, schema.DNI, result.Field)
		assert.Len(t, result.Stats, 2)
	})

	t.Run("rank_origins", func(t *testing.T) {
		res := call(t, cfg, "rank_origins", map[string]any{"granularity": "hourly"})
		require.False(t, res.IsError, text(res))
		var entries []schema.RankEntry
		require.NoError(t, json.Unmarshal([]byte(text(res)), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, schema.Benin, entries[0].Origin)
	})

	t.Run("test_significance", func(t *testing.T) {
		res := call(t, cfg, "test_significance", map[string]any{"test": "kruskal"})
		require.False(t, res.IsError, text(res))
		var results []schema.TestResult
		require.NoError(t, json.Unmarshal([]byte(text(res)), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "Kruskal-Wallis", results[0].TestName)
	})

	t.Run("recommend_sites", func(t *testing.T) {
		res := call(t, cfg, "recommend_sites", nil)
		require.False(t, res.IsError, text(res))
		var rec schema.Recommendation
		require.NoError(t, json.Unmarshal([]byte(text(res)), &rec))
		require.NotNil(t, rec.PrimaryTarget)
		assert.Equal(t, schema.Benin, rec.PrimaryTarget.Origin)
		assert.Equal(t, schema.CSPTechnology, rec.Technology)
	})

	t.Run("base config is not modified", func(t *testing.T) {
		call(t, cfg, "summarize_metric", map[string]any{"metric": "RH", "origins": "togo"})
		assert.Equal(t, schema.GHI, cfg.Field)
		assert.Empty(t, cfg.Origins)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := baseConfig(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"unknown metric", "summarize_metric", map[string]any{"metric": "UV"}, "invalid parameters"},
		{"unknown origin", "rank_origins", map[string]any{"origins": "Ghana"}, "invalid parameters"},
		{"origin without source", "rank_origins", map[string]any{"origins": "Sierra Leone"}, "no source configured"},
		{"bad granularity", "summarize_metric", map[string]any{"granularity": "weekly"}, "invalid granularity"},
		{"bad test", "test_significance", map[string]any{"test": "t-test"}, "invalid test"},
		{"single origin", "test_significance", map[string]any{"origins": "Benin"}, "insufficient data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, cfg, tt.tool, tt.args)
			assert.True(t, res.IsError, "the response should indicate an error state")
			assert.Contains(t, text(res), tt.want)
		})
	}
}
