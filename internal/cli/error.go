package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/adcheck/pkg/directive"
	"github.com/macropower/adcheck/pkg/engine"
)

// ErrorHandler prints err with fang's styles, followed by a hint when the
// error has a known remedy.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	switch {
	case isUsageError(err):
		mustN(fmt.Fprintln(w, hint(styles, "Try", "--help", "for usage.")))
		mustN(fmt.Fprintln(w))

	case errors.Is(err, ErrNoDirectives):
		mustN(fmt.Fprintln(w, hint(styles, "Try", "adcheck config init", "to create a configuration file.")))
		mustN(fmt.Fprintln(w))

	case errors.Is(err, directive.ErrInvalidDirective):
		mustN(fmt.Fprintln(w, hint(styles, "Run", "adcheck schema", "to see the directive format.")))
		mustN(fmt.Fprintln(w))

	case errors.Is(err, engine.ErrNotFound):
		mustN(fmt.Fprintln(w, hint(styles, "Run", "adcheck directives", "to list the loaded directive IDs.")))
		mustN(fmt.Fprintln(w))
	}
}

func hint(styles fang.Styles, verb, command, rest string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render(verb),
		styles.Program.Flag.Render(command),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(rest),
	)
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"required flag(s)",
		"accepts ",
		"requires at least",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
