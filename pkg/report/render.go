package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"

	"github.com/macropower/adcheck/pkg/engine"
)

// NoModifications is shown in place of an empty modification list.
const NoModifications = "None"

// RendererOpt configures a [Renderer].
type RendererOpt func(*Renderer)

// WithFormat sets the output format. The default is [FormatTable].
func WithFormat(f Format) RendererOpt {
	return func(r *Renderer) {
		r.format = f
	}
}

// WithColorProfile sets the terminal color profile used for status colors
// and syntax highlighting. The default, [termenv.Ascii], disables colors.
func WithColorProfile(p termenv.Profile) RendererOpt {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithReasons enables the detailed reasoning section of table output.
func WithReasons(enabled bool) RendererOpt {
	return func(r *Renderer) {
		r.reasons = enabled
	}
}

// WithSummary enables the summary statistics section of table output.
func WithSummary(enabled bool) RendererOpt {
	return func(r *Renderer) {
		r.summary = enabled
	}
}

// Renderer writes fleet results in a [Format].
type Renderer struct {
	format  Format
	profile termenv.Profile
	reasons bool
	summary bool
}

// NewRenderer creates a new [Renderer].
func NewRenderer(opts ...RendererOpt) *Renderer {
	r := &Renderer{
		format:  FormatTable,
		profile: termenv.Ascii,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewRendererFromConfig creates a [Renderer] from a validated [Config].
func NewRendererFromConfig(c *Config, opts ...RendererOpt) (*Renderer, error) {
	format, err := ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}

	base := []RendererOpt{
		WithFormat(format),
		WithReasons(c.Reasons != nil && *c.Reasons),
		WithSummary(c.Summary != nil && *c.Summary),
	}

	return NewRenderer(append(base, opts...)...), nil
}

// Render writes the fleet to w.
func (r *Renderer) Render(w io.Writer, fleet *engine.Fleet) error {
	switch r.format {
	case FormatJSON:
		b, err := MarshalJSON(fleet)
		if err != nil {
			return err
		}

		return r.highlight(w, b, "json")

	case FormatYAML:
		b, err := MarshalYAML(fleet)
		if err != nil {
			return err
		}

		return r.highlight(w, b, "yaml")

	case FormatCSV:
		_, err := io.WriteString(w, r.statusTable(fleet, false).RenderCSV()+"\n")
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}

		return nil

	case FormatMarkdown:
		return r.renderMarkdown(w, fleet)

	case FormatTable:
		return r.renderTable(w, fleet)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
}

func (r *Renderer) renderTable(w io.Writer, fleet *engine.Fleet) error {
	sections := []string{r.statusTable(fleet, true).Render()}

	if r.summary {
		sections = append(sections, r.summaryTable(fleet).Render())
	}

	if r.reasons {
		sections = append(sections, r.renderReasons(fleet))
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func (r *Renderer) renderMarkdown(w io.Writer, fleet *engine.Fleet) error {
	sections := []string{r.statusTable(fleet, false).RenderMarkdown()}

	if r.summary {
		sections = append(sections, r.summaryTable(fleet).RenderMarkdown())
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	if err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

// statusTable has one row per aircraft and one status column per directive.
func (r *Renderer) statusTable(fleet *engine.Fleet, styled bool) table.Writer {
	st := newStatusStyles(r.profile)

	t := newTable()

	header := table.Row{"Aircraft Model", "MSN", "Modifications"}
	for _, id := range fleet.DirectiveIDs() {
		header = append(header, id)
	}

	t.AppendHeader(header)

	for _, e := range fleet.Entries() {
		row := table.Row{
			e.Aircraft.Model,
			strconv.Itoa(e.Aircraft.Serial),
			formatModifications(e.Aircraft.Modifications),
		}

		for _, res := range e.Results {
			if styled {
				row = append(row, st.render(res.Status))
			} else {
				row = append(row, res.Status.String())
			}
		}

		t.AppendRow(row)
	}

	return t
}

func (r *Renderer) summaryTable(fleet *engine.Fleet) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Directive", "Affected", "Excluded", "Not Applicable"})

	for _, s := range Summarize(fleet) {
		t.AppendRow(table.Row{
			s.DirectiveID,
			s.Ratio(s.Affected),
			s.Ratio(s.NotAffected),
			s.Ratio(s.NotApplicable),
		})
	}

	return t
}

// renderReasons lists the reasoning behind every result, grouped by
// aircraft.
func (r *Renderer) renderReasons(fleet *engine.Fleet) string {
	st := newStatusStyles(r.profile)

	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedLight)

	for _, e := range fleet.Entries() {
		l.AppendItem(st.heading.Render(fmt.Sprintf("%s | MSN %d", e.Aircraft.Model, e.Aircraft.Serial)))
		l.Indent()
		l.AppendItem("Modifications: " + formatModifications(e.Aircraft.Modifications))

		for _, res := range e.Results {
			l.AppendItem(fmt.Sprintf("%s: %s", res.DirectiveID, st.render(res.Status)))
			l.Indent()
			l.AppendItems(toItems(res.Checks))
			l.UnIndent()
		}

		l.UnIndent()
	}

	return l.Render()
}

// highlight writes src to w, syntax highlighted when colors are enabled.
func (r *Renderer) highlight(w io.Writer, src []byte, language string) error {
	formatterName := ""

	switch r.profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"
	case termenv.ANSI256:
		formatterName = "terminal256"
	case termenv.ANSI:
		formatterName = "terminal8"
	case termenv.Ascii:
	}

	if formatterName == "" {
		_, err := w.Write(src)
		if err != nil {
			return fmt.Errorf("write %s: %w", language, err)
		}

		return nil
	}

	iterator, err := chroma.Coalesce(lexers.Get(language)).Tokenise(nil, string(src))
	if err != nil {
		return fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = formatters.Get(formatterName).Format(buf, styles.Get("monokai"), iterator)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}

	_, err = buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write %s: %w", language, err)
	}

	return nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	return t
}

func formatModifications(mods []string) string {
	if len(mods) == 0 {
		return NoModifications
	}

	return strings.Join(mods, ", ")
}

func toItems(ss []string) []any {
	items := make([]any, len(ss))
	for i, s := range ss {
		items[i] = s
	}

	return items
}

type statusStyles struct {
	heading  lipgloss.Style
	statuses map[engine.Status]lipgloss.Style
}

func newStatusStyles(profile termenv.Profile) statusStyles {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(profile)

	if profile == termenv.Ascii {
		plain := lr.NewStyle()

		return statusStyles{
			heading: plain,
			statuses: map[engine.Status]lipgloss.Style{
				engine.StatusAffected:      plain,
				engine.StatusNotAffected:   plain,
				engine.StatusNotApplicable: plain,
			},
		}
	}

	return statusStyles{
		heading: lr.NewStyle().Bold(true),
		statuses: map[engine.Status]lipgloss.Style{
			engine.StatusAffected:      lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			engine.StatusNotAffected:   lr.NewStyle().Foreground(lipgloss.Color("11")),
			engine.StatusNotApplicable: lr.NewStyle().Faint(true),
		},
	}
}

func (s statusStyles) render(status engine.Status) string {
	return s.statuses[status].Render(status.String())
}
