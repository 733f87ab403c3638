// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	fieldEnum  = []string{"GHI", "DNI", "DHI", "Tamb", "RH", "WS", "BP"}
	granEnum   = []string{"raw", "hourly", "daily", "monthly"}
	originDesc = "Comma-separated origins (Benin, Sierra Leone, Togo). Defaults to every configured origin."
)

// NewMCPServer initializes and configures the Sunspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Sunspot Solar Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: summarize_metric ---
	s.AddTool(mcp.NewTool("summarize_metric",
		mcp.WithDescription("Compute count, mean, median, std, min, max and coefficient of variation of a metric per origin."),
		mcp.WithString("metric", mcp.Description("Metric to summarize. Defaults to GHI."), mcp.Enum(fieldEnum...)),
		mcp.WithString("origins", mcp.Description(originDesc)),
		mcp.WithString("granularity", mcp.Description("Time aggregation applied before summarizing."), mcp.Enum(granEnum...)),
	), h.handleSummarizeMetric)

	// --- 2. Tool: rank_origins ---
	s.AddTool(mcp.NewTool("rank_origins",
		mcp.WithDescription("Rank origins by descending mean of a metric."),
		mcp.WithString("metric", mcp.Description("Metric to rank by. Defaults to GHI."), mcp.Enum(fieldEnum...)),
		mcp.WithString("origins", mcp.Description(originDesc)),
		mcp.WithString("granularity", mcp.Description("Time aggregation applied before ranking."), mcp.Enum(granEnum...)),
	), h.handleRankOrigins)

	// --- 3. Tool: test_significance ---
	s.AddTool(mcp.NewTool("test_significance",
		mcp.WithDescription("Test whether a metric differs between origins with one-way ANOVA and/or Kruskal-Wallis."),
		mcp.WithString("metric", mcp.Description("Metric to test. Defaults to GHI."), mcp.Enum(fieldEnum...)),
		mcp.WithString("test", mcp.Description("Which test to run. Defaults to both."), mcp.Enum("anova", "kruskal", "both")),
		mcp.WithString("origins", mcp.Description(originDesc)),
	), h.handleTestSignificance)

	// --- 4. Tool: recommend_sites ---
	s.AddTool(mcp.NewTool("recommend_sites",
		mcp.WithDescription("Recommend deployment targets, technology (CSP or PV) and operational risk flags."),
		mcp.WithString("origins", mcp.Description(originDesc)),
	), h.handleRecommendSites)

	return s
}

// StartMCPServer starts the Sunspot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
