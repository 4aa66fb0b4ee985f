package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/temirov/treestatus/internal/syncstate"
	"github.com/temirov/treestatus/internal/walker"
)

// ColorMode selects how color capability is resolved for the output writer.
type ColorMode string

// Supported color modes.
const (
	ColorModeAuto   ColorMode = "auto"
	ColorModeAlways ColorMode = "always"
	ColorModeNever  ColorMode = "never"
)

const (
	repositoryMarkerConstant          = "•"
	nonRepositoryMarkerConstant       = "◦"
	indentUnitConstant                = "  "
	lineSeparatorConstant             = "\n"
	branchSegmentTemplateConstant     = " [%s]"
	annotationSegmentTemplateConstant = " %s"
	notARepoAnnotationConstant        = "not a git repository"

	neutralColorConstant = "2"
	warningColorConstant = "3"
	alertColorConstant   = "1"
	dimColorConstant     = "8"
)

// Palette maps synchronization states to display styles. It is built once per
// run against a concrete output writer and never mutated afterwards.
type Palette struct {
	neutralStyle lipgloss.Style
	warningStyle lipgloss.Style
	alertStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	plainStyle   lipgloss.Style
}

// NewPalette builds the palette for the provided writer and color mode.
//
// ColorModeAlways forces the ANSI profile, ColorModeNever strips all escape
// sequences, and ColorModeAuto defers to terminal capability detection so that
// redirected output stays plain.
func NewPalette(outputWriter io.Writer, colorMode ColorMode) Palette {
	styleRenderer := lipgloss.NewRenderer(outputWriter)
	switch colorMode {
	case ColorModeAlways:
		styleRenderer.SetColorProfile(termenv.ANSI)
	case ColorModeNever:
		styleRenderer.SetColorProfile(termenv.Ascii)
	}

	return Palette{
		neutralStyle: styleRenderer.NewStyle().Foreground(lipgloss.Color(neutralColorConstant)),
		warningStyle: styleRenderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		alertStyle:   styleRenderer.NewStyle().Foreground(lipgloss.Color(alertColorConstant)),
		dimStyle:     styleRenderer.NewStyle().Foreground(lipgloss.Color(dimColorConstant)).Faint(true),
		plainStyle:   styleRenderer.NewStyle(),
	}
}

// StyleFor returns the style associated with a synchronization state.
func (palette Palette) StyleFor(state syncstate.SyncState) lipgloss.Style {
	switch state {
	case syncstate.StateUpToDate:
		return palette.neutralStyle
	case syncstate.StateNeedsPull, syncstate.StateNeedsPush, syncstate.StateStagedChanges, syncstate.StateNoUpstream:
		return palette.warningStyle
	case syncstate.StateDiverged, syncstate.StateUncommittedChanges, syncstate.StateResolutionError:
		return palette.alertStyle
	case syncstate.StateNotARepo:
		return palette.dimStyle
	default:
		return palette.plainStyle
	}
}

// TreeRenderer renders a discovery report tree as indented text lines.
type TreeRenderer struct {
	palette Palette
}

// NewTreeRenderer constructs a renderer using the provided palette.
func NewTreeRenderer(palette Palette) *TreeRenderer {
	return &TreeRenderer{palette: palette}
}

// Render produces the textual report for the tree rooted at reportNode.
// Every line is terminated by a newline, including the last one.
func (treeRenderer *TreeRenderer) Render(reportNode walker.ReportNode) string {
	lineBuilder := strings.Builder{}
	treeRenderer.renderNode(&lineBuilder, reportNode)
	return lineBuilder.String()
}

func (treeRenderer *TreeRenderer) renderNode(lineBuilder *strings.Builder, reportNode walker.ReportNode) {
	lineBuilder.WriteString(strings.Repeat(indentUnitConstant, reportNode.Depth))
	lineBuilder.WriteString(treeRenderer.formatLine(reportNode))
	lineBuilder.WriteString(lineSeparatorConstant)
	for _, childNode := range reportNode.Children {
		treeRenderer.renderNode(lineBuilder, childNode)
	}
}

func (treeRenderer *TreeRenderer) formatLine(reportNode walker.ReportNode) string {
	lineMarker := repositoryMarkerConstant
	lineAnnotation := reportNode.Annotation
	if reportNode.State == syncstate.StateNotARepo {
		lineMarker = nonRepositoryMarkerConstant
		if len(lineAnnotation) == 0 {
			lineAnnotation = notARepoAnnotationConstant
		}
	}

	lineText := fmt.Sprintf("%s %s", lineMarker, reportNode.Path)
	if len(reportNode.Branch) > 0 {
		lineText += fmt.Sprintf(branchSegmentTemplateConstant, reportNode.Branch)
	}
	if len(lineAnnotation) > 0 {
		lineText += fmt.Sprintf(annotationSegmentTemplateConstant, lineAnnotation)
	}

	return treeRenderer.palette.StyleFor(reportNode.State).Render(lineText)
}
