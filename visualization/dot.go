package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/crossway"
)

// DOTGenerator generates Graphviz DOT representations of a run's schedule
type DOTGenerator struct {
	state   crossway.SimulationState
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowCounts     bool
	ShowCursor     bool
	RankDirection  string // "TB", "LR", "BT", "RL"
	NodeShape      string
	EmergencyShape string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowCounts:     true,
		ShowCursor:     true,
		RankDirection:  "LR",
		NodeShape:      "box",
		EmergencyShape: "octagon",
	}
}

// NewDOTGenerator creates a new DOT generator for a snapshot of a run
func NewDOTGenerator(state crossway.SimulationState, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		state:   state.Clone(),
		options: opts,
	}
}

// Generate creates a DOT representation of the schedule
func (g *DOTGenerator) Generate() (string, error) {
	if len(g.state.Schedule) == 0 {
		return "", fmt.Errorf("no schedule to render: start a run first")
	}

	var dot strings.Builder

	dot.WriteString("digraph Intersection {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s style=filled];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateLanes(&dot)
	g.generateOrder(&dot)
	g.generateEmergency(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateLanes generates one node per scheduled lane
func (g *DOTGenerator) generateLanes(dot *strings.Builder) {
	dot.WriteString("  // Lanes\n")

	current := g.state.Current()
	for i, lane := range g.state.Schedule {
		label := fmt.Sprintf("%d. %s", i+1, lane)
		if g.options.ShowCounts {
			label += fmt.Sprintf("\\n%d vehicles", g.state.Counts[lane])
		}
		if g.options.ShowCursor && lane == current && g.state.Running && !g.state.Emergency.Active {
			label += fmt.Sprintf("\\n%ds left", g.state.Cursor.Remaining)
		}
		attrs := ""
		if i < g.state.Cursor.Index {
			attrs = " fontcolor=gray40"
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" [fillcolor=%s label=\"%s\"%s];\n",
			lane, fillColor(g.state.Lights.Get(lane)), label, attrs))
	}
}

// generateOrder generates the edges of the service order
func (g *DOTGenerator) generateOrder(dot *strings.Builder) {
	dot.WriteString("  // Order\n")

	for i := 1; i < len(g.state.Schedule); i++ {
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%ds\"];\n",
			g.state.Schedule[i-1], g.state.Schedule[i], crossway.GreenSeconds+1))
	}
}

// generateEmergency marks the lane an emergency is clearing
func (g *DOTGenerator) generateEmergency(dot *strings.Builder) {
	if !g.state.Emergency.Active {
		return
	}
	dot.WriteString("  // Emergency\n")
	dot.WriteString(fmt.Sprintf("  \"emergency\" [shape=%s fillcolor=orangered label=\"EMERGENCY\"];\n", g.options.EmergencyShape))
	dot.WriteString(fmt.Sprintf("  \"emergency\" -> \"%s\" [style=dashed color=orangered];\n", g.state.Emergency.Lane))
}

func fillColor(c crossway.LightColor) string {
	switch c {
	case crossway.Green:
		return "palegreen"
	case crossway.Yellow:
		return "lightyellow"
	default:
		return "lightcoral"
	}
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG renders the schedule to SVG through the Graphviz dot command
func (g *DOTGenerator) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
