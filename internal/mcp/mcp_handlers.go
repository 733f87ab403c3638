package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/sunspot/core"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig clones the base config and applies the common tool arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	if m := request.GetString("metric", ""); m != "" {
		f, err := schema.ParseField(m)
		if err != nil {
			return nil, err
		}
		cfg.Field = f
	}

	if o := request.GetString("origins", ""); o != "" {
		origins, err := schema.ParseOrigins(o)
		if err != nil {
			return nil, err
		}
		for _, origin := range origins {
			if _, ok := cfg.Sources[origin]; !ok {
				return nil, fmt.Errorf("no source configured for %s", origin)
			}
		}
		cfg.Origins = origins
	}

	if g := request.GetString("granularity", ""); g != "" {
		gran := schema.Granularity(strings.ToLower(g))
		if _, ok := schema.ValidGranularities[gran]; !ok {
			return nil, fmt.Errorf("invalid granularity '%s'. must be raw, hourly, daily, monthly", g)
		}
		cfg.Granularity = gran
	}

	if k := request.GetString("test", ""); k != "" {
		kind := schema.TestKind(strings.ToLower(k))
		if _, ok := schema.ValidTestKinds[kind]; !ok {
			return nil, fmt.Errorf("invalid test '%s'. must be anova, kruskal, both", k)
		}
		cfg.TestKind = kind
	}
	return cfg, nil
}

func (h *toolHandler) handleSummarizeMetric(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, err := core.GetSummaryResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleRankOrigins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	entries, err := core.GetRankResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(entries)
}

func (h *toolHandler) handleTestSignificance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	results, err := core.GetSignificanceResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("significance test failed: %v", err)), nil
	}
	return jsonResult(results)
}

func (h *toolHandler) handleRecommendSites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	rec, err := core.GetRecommendationResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}
	return jsonResult(rec)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
