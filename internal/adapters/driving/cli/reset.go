package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all indexed documents and vectors",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if ragPipeline == nil {
		return errors.New("pipeline not configured")
	}

	if !resetForce {
		cmd.Println("This deletes all indexed documents and vectors. Re-run with --force to confirm.")
		return nil
	}

	if err := ragPipeline.Reset(context.Background()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println("All indexed data deleted.")
	return nil
}
