package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/semspace"
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCommand() *cobra.Command {
	var (
		configPath string
		outPath    string
		name       string
		storePath  string
	)
	flags := semspace.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "build <corpus>",
		Short: "Build a semantic space from a corpus directory or line file",
		Args:  cobra.ExactArgs(1),
		Example: `  # LSA over a directory of .txt/.html files, saved to a file
  semspace build corpus/ --rank 100 --out space.txt

  # HAL-style window space with PPMI, kept in the store
  semspace build docs.lines --context window --window 4 --transform ppmi --name hal

  # Settings from YAML, overridden by flags
  semspace build corpus/ --config semspace.yaml --rank 50 --out space.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" && name == "" {
				return fmt.Errorf("one of --out or --name is required")
			}
			cfg := semspace.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = semspace.LoadConfig(configPath); err != nil {
					return err
				}
			}
			applyFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			slog.Info("Building space", "corpus", args[0], "transform", cfg.Transform,
				"factorization", cfg.Factorization, "rank", cfg.Rank, "context", cfg.Context)
			start := time.Now()
			s, err := semspace.Build(cmd.Context(), args[0], &cfg)
			if err != nil {
				return err
			}
			info := s.Info()
			slog.Info("Space built", "terms", info.Terms, "documents", info.Documents,
				"k", info.K, "duration", time.Since(start))

			if outPath != "" {
				if err := s.Save(outPath); err != nil {
					return err
				}
				slog.Info("Space saved", "path", outPath)
			}
			if name != "" {
				path := storePathOr(storePath)
				if err := s.Store(path, name); err != nil {
					return err
				}
				slog.Info("Space stored", "name", name, "store", path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Build config YAML")
	f.StringVar(&outPath, "out", "", "Write the space to this file")
	f.StringVar(&name, "name", "", "Keep the space in the store under this name")
	f.StringVar(&storePath, "store-path", "", "Path to the space store (default ~/.semspace/spaces.db)")
	f.StringVar(&flags.Transform, "transform", flags.Transform, "Weighting: identity, tfidf, log-entropy, ppmi, row-normalize")
	f.StringVar(&flags.Factorization, "factorization", flags.Factorization, "Reduction: svd, svd-unscaled, none")
	f.IntVarP(&flags.Rank, "rank", "k", flags.Rank, "Number of dimensions")
	f.StringVar(&flags.Context, "context", flags.Context, "Matrix columns: document or window")
	f.IntVar(&flags.Window, "window", flags.Window, "Co-occurrence radius for window contexts (0 = whole document)")
	f.BoolVar(&flags.DistanceWeighting, "distance-weighting", flags.DistanceWeighting, "Weight window co-occurrences by 1/distance")
	f.IntVar(&flags.Workers, "workers", flags.Workers, "Accumulation workers (0 = GOMAXPROCS)")
	f.BoolVar(&flags.RetainDocuments, "documents", flags.RetainDocuments, "Keep document vectors")
	f.StringVar(&flags.Analyzer.StopWords, "stop-words", flags.Analyzer.StopWords, "Stop words: none or english")
	f.IntVar(&flags.Analyzer.MinLength, "min-length", flags.Analyzer.MinLength, "Drop tokens shorter than this")
	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *semspace.BuildConfig, flags semspace.BuildConfig) {
	set := cmd.Flags().Changed
	if set("transform") {
		cfg.Transform = flags.Transform
	}
	if set("factorization") {
		cfg.Factorization = flags.Factorization
	}
	if set("rank") {
		cfg.Rank = flags.Rank
	}
	if set("context") {
		cfg.Context = flags.Context
	}
	if set("window") {
		cfg.Window = flags.Window
	}
	if set("distance-weighting") {
		cfg.DistanceWeighting = flags.DistanceWeighting
	}
	if set("workers") {
		cfg.Workers = flags.Workers
	}
	if set("documents") {
		cfg.RetainDocuments = flags.RetainDocuments
	}
	if set("stop-words") {
		cfg.Analyzer.StopWords = flags.Analyzer.StopWords
	}
	if set("min-length") {
		cfg.Analyzer.MinLength = flags.Analyzer.MinLength
	}
}
