// Package cli implements the askdoc command-line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/extract/plain"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/config"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile     string
	verboseMode bool
)

// Wired once per invocation in setupServices. Commands nil-check before use.
var (
	ragPipeline driving.Pipeline
	recordStore *sqlite.Store
	vectorIndex *flat.Index
	closers     []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Retrieval-augmented question answering over your documents",
	Long: `askdoc indexes your documents into a local vector store and answers
questions about them using a configured language model provider.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseMode)

		// Commands that never touch the data stores skip wiring.
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		if ragPipeline != nil {
			// Already wired by the caller.
			return nil
		}
		return setupServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		teardownServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.askdoc/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupServices loads configuration and wires the pipeline with its
// adapters. Embedding and completion providers are optional; commands
// needing them surface the unavailability errors from the core.
func setupServices() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	chunks, err := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	index, err := flat.New(cfg.VectorStoreDir(), cfg.VectorDim)
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	closers = append(closers, index)

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		teardownServices()
		return fmt.Errorf("opening record store: %w", err)
	}
	closers = append(closers, store)

	embedder, err := ai.CreateEmbeddingService(cfg.Embedding, cfg.VectorDim)
	if err != nil {
		teardownServices()
		return err
	}
	if embedder != nil {
		closers = append(closers, embedder)
	}

	completion, err := ai.CreateCompletionService(cfg.Completion)
	if err != nil {
		teardownServices()
		return err
	}
	if completion != nil {
		closers = append(closers, completion)
	}

	vectorIndex = index
	recordStore = store
	ragPipeline = services.NewRetrievalPipeline(
		chunks, embedder, completion, index, store, plain.New(), cfg.TopK,
	)
	return nil
}

func teardownServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
	ragPipeline = nil
	recordStore = nil
	vectorIndex = nil
}
