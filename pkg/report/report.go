// Package report renders analysis results for terminals and pipes.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/analytics"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

// maxListedMembers caps the member column of the communities table.
const maxListedMembers = 5

// Writer renders results as styled tables. Colors are only emitted when the
// destination is a terminal.
type Writer struct {
	w      io.Writer
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
}

// NewWriter creates a Writer for w.
func NewWriter(w io.Writer) *Writer {
	re := lipgloss.NewRenderer(w)
	return &Writer{
		w: w,
		title: re.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1),
		header: re.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1),
		cell:   re.NewStyle().Padding(0, 1),
		border: re.NewStyle().Foreground(lipgloss.Color("#666666")),
		muted:  re.NewStyle().Foreground(lipgloss.Color("#888888")),
		warn:   re.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
	}
}

func (w *Writer) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(w.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return w.header
			}
			return w.cell
		}).
		String()
}

func (w *Writer) section(title, body string) error {
	_, err := fmt.Fprintln(w.w, w.title.Render(title)+"\n"+body)
	return err
}

// Influence renders a ranked influence list.
func (w *Writer) Influence(scores []algorithms.InfluenceScore) error {
	if len(scores) == 0 {
		return w.section("Influence", w.muted.Render("no nodes"))
	}
	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{
			strconv.Itoa(s.Rank),
			s.NodeID,
			s.Name,
			formatFloat(s.Score),
			formatFloat(s.Factors.Degree),
			formatFloat(s.Factors.Betweenness),
			formatFloat(s.Factors.Clustering),
			formatFloat(s.Factors.Eigenvector),
		}
	}
	headers := []string{"Rank", "Node", "Name", "Score", "Degree", "Betweenness", "Clustering", "Eigenvector"}
	return w.section("Influence", w.table(headers, rows))
}

// Communities renders reconciled communities and the propagation outcome.
func (w *Writer) Communities(result *algorithms.CommunityDetectionResult) error {
	if result == nil || len(result.Communities) == 0 {
		return w.section("Communities", w.muted.Render("no communities"))
	}
	rows := make([][]string, len(result.Communities))
	for i, c := range result.Communities {
		rows[i] = []string{
			c.ID,
			string(c.Type),
			c.Label,
			strconv.Itoa(c.Size),
			formatFloat(c.Density),
			summarizeMembers(c.Members),
		}
	}
	body := w.table([]string{"ID", "Type", "Label", "Size", "Density", "Members"}, rows)

	p := result.Propagation
	status := fmt.Sprintf("label propagation: %d passes, %d moves", p.Passes, p.Moves)
	if p.Converged {
		body += "\n" + w.muted.Render(status+", converged")
	} else {
		body += "\n" + w.warn.Render(status+", not converged")
	}
	return w.section("Communities", body)
}

// Summary renders whole-network statistics.
func (w *Writer) Summary(s algorithms.NetworkSummary) error {
	rows := [][]string{
		{"Nodes", strconv.Itoa(s.Nodes)},
		{"Edges", strconv.Itoa(s.Edges)},
		{"Density", formatFloat(s.Density)},
		{"Average degree", formatFloat(s.AverageDegree)},
		{"Average clustering", formatFloat(s.AverageClustering)},
		{"Triangles", strconv.Itoa(s.Triangles)},
		{"Components", strconv.Itoa(s.Components)},
		{"Largest component", strconv.Itoa(s.LargestComponentSize)},
		{"Isolated nodes", strconv.Itoa(s.IsolatedNodes)},
	}
	return w.section("Network", w.table([]string{"Metric", "Value"}, rows))
}

// Report renders a full analysis run.
func (w *Writer) Report(r *analytics.Report) error {
	header := w.muted.Render(fmt.Sprintf("run %s at %s (%s)",
		r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05Z07:00"), r.Duration.Round(1e6)))
	if _, err := fmt.Fprintln(w.w, header); err != nil {
		return err
	}
	if err := w.Summary(r.Summary); err != nil {
		return err
	}
	if err := w.Influence(r.Influence); err != nil {
		return err
	}
	return w.Communities(r.Communities)
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func summarizeMembers(members []string) string {
	if len(members) <= maxListedMembers {
		return strings.Join(members, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(members[:maxListedMembers], ", "), len(members)-maxListedMembers)
}
