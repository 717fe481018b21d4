package cli

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/semspace/internal/store"
	"github.com/spf13/cobra"
)

func (c *CLI) newStoreCommand() *cobra.Command {
	var storePath string
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage spaces kept in the store",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&storePath, "store-path", "", "Path to the space store (default ~/.semspace/spaces.db)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(storePathOr(storePath), slog.Default())
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			names, err := st.List()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(stdout, n)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(storePathOr(storePath), slog.Default())
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.Delete(args[0]); err != nil {
				return err
			}
			slog.Info("Space deleted", "name", args[0])
			return nil
		},
	})
	return cmd
}
