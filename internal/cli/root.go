package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpcf/listfiles/config"
	"github.com/cpcf/listfiles/engine"
	"github.com/cpcf/listfiles/expand"
	"github.com/cpcf/listfiles/handlers"
	"github.com/cpcf/listfiles/write"
)

var errNoSources = errors.New("no source files: pass files or directories, or run under go generate")

// NewRootCmd constructs the listfiles command. Generated files go to disk,
// or to stdout with --stdout; logs go to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		toStdout   bool
	)

	rootCmd := &cobra.Command{
		Use:   "listfiles [files or dirs...]",
		Short: "Expand //listfiles: directives into fixed-size Go arrays",
		Long: `listfiles scans Go source files for directives such as

  //listfiles:var Files = listfiles("./files/*.json")
  //listfiles:var Contents = listfiles(embedString, "./files/*.json")

and writes, next to each source, a generated file declaring every variable
as an array with one element per glob match. Patterns starting with "." are
relative to the source file. Without arguments the file named by $GOFILE is
processed, so the command can be used directly from go generate.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := applyFlags(cfg, cmd.Flags()); err != nil {
				return err
			}

			if len(args) == 0 {
				gofile := os.Getenv("GOFILE")
				if gofile == "" {
					return errNoSources
				}
				args = []string{gofile}
			}

			logger, err := newLogger(stderr, cfg)
			if err != nil {
				return err
			}

			var writer write.Writer = write.NewFileWriter()
			if toStdout {
				writer = write.NewStreamWriter(stdout)
			}

			eng := engine.New(engineOptions(cfg, logger, writer)...)
			_, err = eng.Generate(cmd.Context(), args...)
			return err
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML config file (default "+config.DefaultFile+" when present)")
	flags.BoolVar(&toStdout, "stdout", false, "print generated files instead of writing them")
	flags.String("suffix", engine.DefaultSuffix, "fragment inserted before .go in output names")
	flags.Bool("fail-at-end", false, "process every file before reporting failures")
	flags.Bool("no-goimports", false, "format with gofmt only, without fixing imports")
	flags.Bool("files-only", false, "drop directories from match sets")
	flags.Bool("no-follow", false, "do not follow symlinked directories while expanding **")
	flags.IntP("jobs", "j", 0, "source files processed concurrently (0 = GOMAXPROCS)")
	flags.BoolP("verbose", "v", false, "log every expanded pattern")

	rootCmd.AddCommand(newBuiltinsCmd(stdout))

	return rootCmd
}

func newBuiltinsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List handlers evaluated while generating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := handlers.Default()
			for _, name := range r.Names() {
				b, _ := r.Lookup(name)
				if _, err := fmt.Fprintf(stdout, "%-12s %-8s %s\n", b.Name, b.ElemType, b.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func engineOptions(cfg *config.Config, logger *slog.Logger, writer write.Writer) []engine.Option {
	mode := engine.FailFast
	if cfg.FailureMode == config.FailAtEnd {
		mode = engine.FailAtEnd
	}
	return []engine.Option{
		engine.WithLogger(logger),
		engine.WithFailureMode(mode),
		engine.WithJobs(cfg.Jobs),
		engine.WithSuffix(cfg.Suffix),
		engine.WithGoImports(cfg.GoImports),
		engine.WithExpandOptions(expand.Options{FilesOnly: cfg.FilesOnly, NoFollow: cfg.NoFollow}),
		engine.WithWriter(writer),
	}
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
