package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/adcheck/api/v1beta1/configs"
	"github.com/macropower/adcheck/internal/telemetry"
	"github.com/macropower/adcheck/pkg/config"
	"github.com/macropower/adcheck/pkg/directive"
	"github.com/macropower/adcheck/pkg/engine"
	"github.com/macropower/adcheck/pkg/log"
)

var ErrNoDirectives = errors.New("no directive files: set --directives or the directives config key")

var tracer = telemetry.Tracer("adcheck")

func addDirectivesFlag(cmd *cobra.Command, p *[]string) {
	cmd.Flags().StringSliceVarP(p, "directives", "d", nil, "Directive definition files (JSON or YAML)")

	err := cmd.MarkFlagFilename("directives", "json", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark directives flag: %w", err))
	}
}

func loadConfig(cmd *cobra.Command, ra *RootArgs) (*configs.Config, error) {
	path := configPath(ra)

	cfg, err := config.LoadFile(path, configs.New, configs.DefaultValidator,
		config.WithColor(isTerminal(cmd.ErrOrStderr())),
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped with the path.
	}

	log.WithContext(cmd.Context()).DebugContext(cmd.Context(), "loaded config", slog.String("path", path))

	return cfg, nil
}

// directivePaths returns the flag paths, falling back to the configured ones.
func directivePaths(flagPaths []string, cfg *configs.Config) ([]string, error) {
	paths := flagPaths
	if len(paths) == 0 {
		paths = cfg.Directives
	}

	if len(paths) == 0 {
		return nil, ErrNoDirectives
	}

	return paths, nil
}

func newDirectiveLoader(paths []string, colored bool) (*directive.Loader, error) {
	l, err := directive.NewLoaderFromFiles(paths, directive.WithColor(colored))
	if err != nil {
		return nil, fmt.Errorf("load directives: %w", err)
	}

	return l, nil
}

// loadEngine creates an [engine.Engine] holding the directives from paths.
func loadEngine(ctx context.Context, paths []string, colored bool) (*engine.Engine, error) {
	ctx, span := tracer.Start(ctx, "load-directives")
	defer span.End()

	eng := engine.MustNew()

	err := reloadEngine(ctx, eng, paths, colored)
	if err != nil {
		return nil, err
	}

	return eng, nil
}

func reloadEngine(ctx context.Context, eng *engine.Engine, paths []string, colored bool) error {
	l, err := newDirectiveLoader(paths, colored)
	if err != nil {
		return err
	}

	err = eng.Load(l)
	if err != nil {
		return err //nolint:wrapcheck // Load already names the operation.
	}

	log.WithContext(ctx).DebugContext(ctx, "loaded directives",
		slog.Int("count", len(eng.Directives())),
		slog.Any("paths", paths),
	)

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile returns the color profile for w, which is [termenv.Ascii]
// unless w is a terminal.
func colorProfile(w io.Writer) termenv.Profile {
	if !isTerminal(w) {
		return termenv.Ascii
	}

	return termenv.NewOutput(w).EnvColorProfile()
}
