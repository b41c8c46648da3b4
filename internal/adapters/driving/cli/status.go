package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	Documents  int64 `json:"documents"`
	Chunks     int64 `json:"chunks"`
	Vectors    int   `json:"vectors"`
	Dimensions int   `json:"dimensions"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if recordStore == nil || vectorIndex == nil {
		return errors.New("stores not configured")
	}

	stats, err := recordStore.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("reading store stats: %w", err)
	}

	report := statusReport{
		Documents:  stats.Documents,
		Chunks:     stats.Chunks,
		Vectors:    vectorIndex.Ntotal(),
		Dimensions: vectorIndex.Dimensions(),
	}

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:  %d\n", report.Documents)
	cmd.Printf("Chunks:     %d\n", report.Chunks)
	cmd.Printf("Vectors:    %d\n", report.Vectors)
	cmd.Printf("Dimensions: %d\n", report.Dimensions)
	return nil
}
