package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/wordvec/engine"
	"github.com/viant/wordvec/store"
)

// openStore resolves the database path from the flag or config and opens it.
// The returned func closes the database.
func (a *app) openStore(ctx context.Context, dbPath string) (*store.Store, func(), error) {
	if dbPath == "" {
		dbPath = a.cfg.Store.Path
	}
	if dbPath == "" {
		return nil, nil, fmt.Errorf("no database: pass --db or set store.path in config")
	}
	db, err := engine.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(ctx, db, a.logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, func() { _ = db.Close() }, nil
}

func newImportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import <src>",
		Short: "Load a table file into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.decode(args[0])
			if err != nil {
				return err
			}
			s, closeDB, err := a.openStore(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := s.Save(cmd.Context(), t); err != nil {
				return err
			}
			a.logger.Info("imported table", "path", args[0], "size", t.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default store.path)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export <dst>",
		Short: "Write the table stored in a SQLite database to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeDB, err := a.openStore(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer closeDB()
			t, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			return a.encode(args[0], t)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default store.path)")
	return cmd
}

func newSimilarityCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "similarity <token> <token>",
		Short: "Print the cosine similarity of two stored tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeDB, err := a.openStore(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer closeDB()
			sim, err := s.Similarity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", sim)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default store.path)")
	return cmd
}
