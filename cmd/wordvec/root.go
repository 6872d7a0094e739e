package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/viant/wordvec/config"
	"github.com/viant/wordvec/embedding"
)

// app carries what subcommands share once flags are parsed.
type app struct {
	fs      afero.Fs
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

func newApp(fs afero.Fs) *app {
	return &app{fs: fs, cfg: config.Default(), logger: slog.New(slog.DiscardHandler)}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wordvec <src> <dst>",
		Short: "Decode a word2vec binary embedding table and write it back out",
		Long: `wordvec reads an embedding table in the word2vec binary layout
("<size> <dims>" header, then "<name> <float32 x dims>" records) and writes
it to another file in the same layout. Subcommands inspect tables, move them
in and out of SQLite, and run nearest-neighbour queries.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.copy(args[0], args[1])
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInfoCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newNeighborsCmd(a),
		newSimilarityCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	a.logger = setupLogger(stderr, a.verbose)
	if a.cfgFile == "" {
		return nil
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("loaded config", "path", a.cfgFile)
	return nil
}

func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func (a *app) decodeOptions() []embedding.Option {
	opts := []embedding.Option{embedding.WithLogger(a.logger)}
	if a.cfg.Decode.StrictNames {
		opts = append(opts, embedding.WithStrictNames())
	}
	return opts
}

func (a *app) decode(path string) (*embedding.Table, error) {
	t, err := embedding.DecodeFile(a.fs, path, a.decodeOptions()...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("decoded table", "path", path, "size", t.Len(), "dims", t.Dims())
	return t, nil
}

func (a *app) encode(path string, t *embedding.Table) error {
	if err := embedding.EncodeFile(a.fs, path, t); err != nil {
		return err
	}
	a.logger.Info("encoded table", "path", path, "size", t.Len(), "dims", t.Dims())
	return nil
}

// copy is the two-argument driver: decode src, encode to dst.
func (a *app) copy(src, dst string) error {
	t, err := a.decode(src)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}
	if err := a.encode(dst, t); err != nil {
		return fmt.Errorf("encoding %s: %w", dst, err)
	}
	return nil
}
