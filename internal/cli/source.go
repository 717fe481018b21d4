package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/happyhackingspace/semspace"
	"github.com/spf13/cobra"
)

// spaceSource selects a saved space: a file given with --space, or a name in
// the bbolt store.
type spaceSource struct {
	path       string
	name       string
	storePath  string
	configPath string
}

func (s *spaceSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.path, "space", "", "Path to a saved space file")
	cmd.Flags().StringVar(&s.name, "name", "", "Name of a space in the store")
	cmd.Flags().StringVar(&s.storePath, "store-path", "", "Path to the space store (default ~/.semspace/spaces.db)")
	cmd.Flags().StringVar(&s.configPath, "config", "", "Build config YAML used for tokenizing queries")
	cmd.MarkFlagsMutuallyExclusive("space", "name")
	cmd.MarkFlagsOneRequired("space", "name")
}

func (s *spaceSource) load() (*semspace.Space, error) {
	var cfg *semspace.BuildConfig
	if s.configPath != "" {
		c, err := semspace.LoadConfig(s.configPath)
		if err != nil {
			return nil, err
		}
		cfg = &c
	}
	if s.path != "" {
		slog.Debug("Loading space", "path", s.path)
		return semspace.Load(s.path, cfg)
	}
	storePath := s.storePath
	if storePath == "" {
		storePath = semspace.DefaultStorePath()
	}
	slog.Debug("Loading stored space", "name", s.name, "store", storePath)
	return semspace.LoadStored(storePath, s.name, cfg)
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func storePathOr(path string) string {
	if path != "" {
		return path
	}
	return semspace.DefaultStorePath()
}

var stdout io.Writer = os.Stdout
