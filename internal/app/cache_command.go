package app

import (
	"github.com/spf13/cobra"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

type cacheLocation struct {
	Dir      string `json:"dir"`
	LockPath string `json:"lock_path,omitempty"`
	Offline  bool   `json:"offline"`
}

func (s *runtimeState) newCacheCommand() *cobra.Command {
	root := newGroupCommand("cache", "Inspect the local dataset cache")

	root.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.emitSuccess(cmd, cacheLocation{
				Dir:      s.store.Dir(),
				LockPath: s.settings.CacheLockPath,
				Offline:  s.settings.Offline,
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List cached datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := s.store.List()
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "list cache", err)
			}
			return s.emitSuccess(cmd, entries)
		},
	})

	return root
}
