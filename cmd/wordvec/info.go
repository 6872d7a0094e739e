package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/wordvec/embedding"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <src>",
		Short: "Print the header and decoded entry count of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := a.readHeader(args[0])
			if err != nil {
				return err
			}
			t, err := a.decode(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "size:    %d\n", header.Size)
			fmt.Fprintf(out, "dims:    %d\n", header.Dims)
			fmt.Fprintf(out, "entries: %d\n", t.Len())
			return nil
		},
	}
}

func (a *app) readHeader(path string) (embedding.Header, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return embedding.Header{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return embedding.ReadHeader(bufio.NewReader(f))
}
