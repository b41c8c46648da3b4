package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	ingestName string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a document for retrieval",
	Long: `Chunks the document, embeds each chunk and stores both the vectors
and the chunk records locally. Pass "-" to read the document from stdin,
in which case --name is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "source name to index under (required with stdin)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ragPipeline == nil {
		return errors.New("pipeline not configured")
	}

	ctx := context.Background()
	path := args[0]

	var result *domain.IngestResult
	var err error

	if path == "-" {
		if ingestName == "" {
			return fmt.Errorf("%w: --name is required when reading from stdin", domain.ErrInvalidInput)
		}
		var text []byte
		text, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		result, err = ragPipeline.Ingest(ctx, string(text), ingestName)
	} else {
		result, err = ragPipeline.IngestFile(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Ingested document %d (%d chunks)\n", result.DocumentID, result.ChunkCount)
	return nil
}
