package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/wordvec/index"
)

func newNeighborsCmd(a *app) *cobra.Command {
	var (
		k    int
		kind string
	)
	cmd := &cobra.Command{
		Use:   "neighbors <src> <token>",
		Short: "List the tokens closest to <token> by cosine similarity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("k") {
				k = a.cfg.Neighbors.K
			}
			if !cmd.Flags().Changed("index") {
				kind = a.cfg.Index.Kind
			}
			t, err := a.decode(args[0])
			if err != nil {
				return err
			}
			ix, err := index.New(kind, t.Len())
			if err != nil {
				return err
			}
			if err := ix.Build(t); err != nil {
				return err
			}
			a.logger.Debug("built index", "kind", fmt.Sprintf("%T", ix), "size", t.Len())
			matches, err := index.Neighbors(ix, t, args[1], k)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range matches {
				fmt.Fprintf(out, "%s\t%.6f\n", m.Name, m.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of neighbours (default neighbors.k)")
	cmd.Flags().StringVar(&kind, "index", "", "index kind: auto, brute, vptree (default index.kind)")
	return cmd
}
