package cmd

import (
	"github.com/huangsam/sunspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Sunspot MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents summarize, rank, test and
recommend origins through standard tools.

Tools:
  summarize_metric  - per-origin statistics of a metric
  rank_origins      - origins ordered by mean of a metric
  test_significance - ANOVA and/or Kruskal-Wallis across origins
  recommend_sites   - deployment targets, technology and risk flags`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
