package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over the indexed documents",
	Long: `Embeds the question, retrieves the nearest chunks from the vector
store and asks the configured completion provider for an answer grounded
in those chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (0 uses the configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if ragPipeline == nil {
		return errors.New("pipeline not configured")
	}

	ctx := context.Background()
	result, queryErr := ragPipeline.Query(ctx, args[0], queryTopK)
	if result == nil {
		return fmt.Errorf("query failed: %w", queryErr)
	}

	// A non-nil result alongside an error means retrieval succeeded but
	// answer generation did not; show the evidence either way.
	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return queryErr
	}

	if result.Answer != "" {
		cmd.Println(result.Answer)
		cmd.Println()
	}

	if len(result.Retrieved) > 0 {
		cmd.Println("Sources:")
		for i, r := range result.Retrieved {
			source, _ := r.Metadata[domain.MetaSource].(string)
			if source == "" {
				source = r.ID
			}
			cmd.Printf("  [%d] %s (distance %.4f)\n", i+1, source, r.Distance)
		}
	}

	return queryErr
}
