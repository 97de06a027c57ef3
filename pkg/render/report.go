package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Padding(0, 1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// Outcome of a body's predicted trajectory.
const (
	OutcomeFree     = "free"
	OutcomeContact  = "contact"
	OutcomeCollided = "collided"
)

// BodySummary describes one body's predicted trajectory.
type BodySummary struct {
	Index   int
	Name    string
	Radius  float64
	Mass    float64
	Start   physics.Vector3
	End     physics.Vector3
	Steps   int
	Outcome string
	// ContactStep is the step of a predicted contact, or -1.
	ContactStep int
}

// Report is a headless summary of the current predicted trajectories.
type Report struct {
	Parameters engine.Parameters
	Bodies     []BodySummary
	// Separation is the smallest distance between any two bodies at each
	// step while at least two bodies are still moving.
	Separation []float64
}

// BuildReport summarises sim's current trajectories. Call it after a
// recompute.
func BuildReport(sim *engine.Simulation) *Report {
	bodies := sim.Registry.Bodies()
	paths := make([][]physics.Vector3, len(bodies))
	summaries := make([]BodySummary, len(bodies))

	for i, b := range bodies {
		path := sim.Engine.Path(i)
		paths[i] = path

		s := BodySummary{
			Index:       i,
			Name:        b.Name(),
			Radius:      b.Radius(),
			Mass:        b.Mass(),
			Start:       b.Position(),
			End:         b.Position(),
			Outcome:     OutcomeFree,
			ContactStep: -1,
		}
		if len(path) > 0 {
			s.Start = path[0]
			s.End = path[len(path)-1]
			s.Steps = len(path) - 1
		}
		switch {
		case b.HasCollided():
			s.Outcome = OutcomeCollided
		case sim.Engine.Latched(i):
			s.Outcome = OutcomeContact
			s.ContactStep = s.Steps
		}
		summaries[i] = s
	}

	return &Report{
		Parameters: sim.Engine.Parameters(),
		Bodies:     summaries,
		Separation: MinSeparation(paths),
	}
}

// MinSeparation returns, per step, the smallest distance between any two
// paths that reach that step. It stops at the first step reached by fewer
// than two paths.
func MinSeparation(paths [][]physics.Vector3) []float64 {
	var out []float64
	for step := 0; ; step++ {
		best := math.Inf(1)
		active := 0
		for i, a := range paths {
			if step >= len(a) {
				continue
			}
			active++
			for _, b := range paths[i+1:] {
				if step >= len(b) {
					continue
				}
				if d := physics.Distance(a[step], b[step]); d < best {
					best = d
				}
			}
		}
		if active < 2 {
			return out
		}
		out = append(out, best)
	}
}

// ClosestApproach returns the smallest separation and its step, or -1 when
// there is no pair to measure.
func (r *Report) ClosestApproach() (float64, int) {
	best, at := math.Inf(1), -1
	for step, d := range r.Separation {
		if d < best {
			best, at = d, step
		}
	}
	return best, at
}

// Render formats the report for a terminal of the given width.
func (r *Report) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("TRAJECTORY PREVIEW") + "\n")

	param := func(label, value string) {
		sb.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	param("Gravity", strconv.FormatFloat(r.Parameters.Gravity, 'g', -1, 64))
	param("Horizon", strconv.Itoa(r.Parameters.Horizon))
	param("Time step", strconv.FormatFloat(r.Parameters.TimeStep, 'g', -1, 64))
	param("Mass coefficient", strconv.FormatFloat(r.Parameters.MassCoefficient, 'g', -1, 64))
	sb.WriteString("\n")

	if len(r.Bodies) == 0 {
		sb.WriteString(valueStyle.Render("No bodies.") + "\n")
		return sb.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("#", "NAME", "RADIUS", "MASS", "START", "END", "STEPS", "OUTCOME").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 7 && row >= 0 && row < len(r.Bodies) && r.Bodies[row].Outcome != OutcomeFree {
				return alertStyle
			}
			return cellStyle
		})
	for _, b := range r.Bodies {
		outcome := b.Outcome
		if b.ContactStep >= 0 {
			outcome = fmt.Sprintf("%s at step %d", b.Outcome, b.ContactStep)
		}
		t.Row(
			strconv.Itoa(b.Index),
			b.Name,
			strconv.FormatFloat(b.Radius, 'f', 2, 64),
			strconv.FormatFloat(b.Mass, 'f', 3, 64),
			logging.FormatVector(b.Start),
			logging.FormatVector(b.End),
			strconv.Itoa(b.Steps),
			outcome,
		)
	}
	sb.WriteString(t.Render() + "\n")

	if len(r.Separation) > 1 {
		opts := []asciigraph.Option{
			asciigraph.Height(10),
			asciigraph.LowerBound(0),
			asciigraph.Caption("minimum separation per step"),
		}
		if width > 20 {
			opts = append(opts, asciigraph.Width(width-12))
		}
		sb.WriteString(graphStyle.Render(asciigraph.Plot(r.Separation, opts...)) + "\n")

		d, step := r.ClosestApproach()
		param("Closest approach", fmt.Sprintf("%.4g at step %d", d, step))
	}
	return sb.String()
}
