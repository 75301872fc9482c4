package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette follows the default scene: dark green ground, light grey bodies.
const (
	colorBorder = lipgloss.Color("#2f4f3a")
	colorText   = lipgloss.Color("#e6efe9")
	colorDim    = lipgloss.Color("#6f8a78")
	colorAccent = lipgloss.Color("#7fd1a0")
	colorWarn   = lipgloss.Color("#e8b04a")
	colorBusy   = lipgloss.Color("#6cc4e0")
	colorBad    = lipgloss.Color("#e06c6c")
)

var (
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorBorder)

	Subtle = lipgloss.NewStyle().Foreground(colorDim)

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	StatusLoading = lipgloss.NewStyle().Bold(true).Foreground(colorBusy)

	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(colorBusy)
	MetricLabel = lipgloss.NewStyle().Foreground(colorDim)
	KeyHint     = lipgloss.NewStyle().Italic(true).Foreground(colorDim)

	ConsoleLine  = lipgloss.NewStyle().Foreground(colorText)
	ConsoleInput = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	SparkHigh = lipgloss.NewStyle().Foreground(colorAccent)
	SparkMid  = lipgloss.NewStyle().Foreground(colorWarn)
	SparkLow  = lipgloss.NewStyle().Foreground(colorBad)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// AnimatedSpinner returns the spinner glyph for tick n.
func AnimatedSpinner(n int) string {
	return spinnerFrames[n%len(spinnerFrames)]
}

// ProgressBar renders the playback position as a bar.
func ProgressBar(percent float64, width int) string {
	filled := max(0, min(int(percent*float64(width)), width))
	return SparkHigh.Render(strings.Repeat("█", filled)) + Subtle.Render(strings.Repeat("░", width-filled))
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// SparklineChart draws values as one bar glyph per column, sampling evenly
// when there are more values than columns.
func SparklineChart(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return Subtle.Render(strings.Repeat("─", width))
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	cols := min(width, len(values))
	var sb strings.Builder
	for c := 0; c < cols; c++ {
		norm := (values[c*len(values)/cols] - lo) / span
		glyph := string(sparkLevels[int(norm*float64(len(sparkLevels)-1))])
		switch {
		case norm > 0.7:
			sb.WriteString(SparkHigh.Render(glyph))
		case norm > 0.3:
			sb.WriteString(SparkMid.Render(glyph))
		default:
			sb.WriteString(SparkLow.Render(glyph))
		}
	}
	return sb.String()
}

// Separator is a horizontal rule with a centered mark.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	left := width/2 - 3
	return Subtle.Render(strings.Repeat("─", left) + " ◆ " + strings.Repeat("─", width-left-6))
}
