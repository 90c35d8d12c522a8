// Package render formats solver results for terminal output.
// All scores and prices are shown to two decimals.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorMuted  = lipgloss.Color("#2C4A54")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	okStyle     = lipgloss.NewStyle().Foreground(colorAccent)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Number formats v to the display precision.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DisplayPrecision, 64)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Trajectory writes one row per iteration with all seven scores and the
// largest delta.
func Trajectory(w io.Writer, res network.SimulationResult) error {
	nodes := network.Nodes()
	headers := make([]string, 0, len(nodes)+2)
	headers = append(headers, "iter")
	for _, n := range nodes {
		headers = append(headers, string(n)+"_s")
	}
	headers = append(headers, "max delta")

	t := newTable(headers...)
	for _, rec := range res.Trajectory {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(rec.Iteration))
		for _, n := range nodes {
			row = append(row, Number(rec.Scores.Get(n)))
		}
		t.Row(append(row, Number(rec.Deltas.Max()))...)
	}
	_, err := fmt.Fprintln(w, titleStyle.Render("Trajectory")+"\n"+t.String())
	return err
}

// Summary writes the termination status, final scores and token prices.
func Summary(w io.Writer, res network.SimulationResult) error {
	var status string
	if res.Converged {
		status = okStyle.Render(fmt.Sprintf("converged after %d iterations", res.Iterations))
	} else {
		status = warnStyle.Render(fmt.Sprintf("did not converge within %d iterations", res.Iterations))
	}

	nodes := network.Nodes()
	headers := make([]string, 0, len(nodes)+1)
	headers = append(headers, "")
	for _, n := range nodes {
		headers = append(headers, string(n))
	}

	scores := make([]string, 0, len(nodes)+1)
	prices := make([]string, 0, len(nodes)+1)
	scores = append(scores, "score")
	prices = append(prices, "price")
	for _, n := range nodes {
		scores = append(scores, Number(res.Final.Get(n)))
		prices = append(prices, Number(res.Prices.Get(n)))
	}

	t := newTable(headers...).Row(scores...).Row(prices...)

	_, err := fmt.Fprintf(w, "%s %s\n%s\n%s\n",
		titleStyle.Render("Result"),
		mutedStyle.Render(res.RunID),
		status,
		t.String(),
	)
	return err
}

// Explore writes the breakdown of a single score function evaluation.
func Explore(w io.Writer, res network.ExploreResult) error {
	t := newTable("term", "value").
		Row("x_s", Number(res.XS)).
		Row("x_b", Number(res.XBonus)).
		Row("x_penalty", Number(res.XPenalty)).
		Row("influence_on_q", Number(res.InfluenceQ)).
		Row("q_s", Number(res.QS))

	_, err := fmt.Fprintln(w, titleStyle.Render("Score of q")+"\n"+t.String())
	return err
}
