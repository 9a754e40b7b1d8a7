package ingest

import (
	"regexp"
	"strings"

	"github.com/lograca/lograca/internal/model"
)

// Section marker phrases used by the analyzer's report format. Matching
// is substring-level, not anchored, because heading styles drifted across
// report generations.
const (
	markerSummary   = "异常概述"
	markerDetail    = "详细分析"
	markerCauses    = "可能的异常原因"
	markerSolutions = "解决方案建议"

	markerShortTerm = "短期"
	markerLongTerm  = "长期"

	causeTitle       = "异常原因"
	fallbackSolution = "需要进一步分析"
)

var (
	bulletRe    = regexp.MustCompile(`^- |^  - `)
	boldLabelRe = regexp.MustCompile(`^\*\*(.+)\*\*：`)
)

// section is the current position of the line scanner inside a document.
type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionCauses
	sectionSolutions
)

// markerSection reports whether line is a section heading and, if so,
// which section it opens. Heading lines are never treated as bullets.
func markerSection(line string) (section, bool) {
	switch {
	case strings.Contains(line, markerSummary):
		return sectionSummary, true
	case strings.Contains(line, markerDetail), strings.Contains(line, markerCauses):
		return sectionCauses, true
	case strings.Contains(line, markerSolutions):
		return sectionSolutions, true
	}
	return sectionNone, false
}

// isBullet reports whether line is a list item the segmenter should consume.
func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "  -")
}

// stripBullet removes the list prefix and rewrites a leading bold
// markdown label (**label**：) to a plain "label:" prefix.
func stripBullet(line string) string {
	s := bulletRe.ReplaceAllString(line, "")
	return boldLabelRe.ReplaceAllString(s, "$1:")
}

// classifySolution picks the solution kind from the line's phrasing.
func classifySolution(line string) model.SolutionKind {
	switch {
	case strings.Contains(line, markerShortTerm):
		return model.SolutionShortTerm
	case strings.Contains(line, markerLongTerm):
		return model.SolutionLongTerm
	}
	return model.SolutionGeneral
}

// SegmentAnalysis splits a free-text analysis document into its summary,
// root causes and solutions. The returned analysis always carries at
// least one solution: a synthetic "needs further analysis" entry is
// appended when the document yields none.
func SegmentAnalysis(doc string) model.Analysis {
	a := model.Analysis{
		RootCauses: []model.RootCause{},
		Solutions:  []model.Solution{},
		RawText:    doc,
	}

	lines := strings.Split(doc, "\n")
	cur := sectionNone
	for _, line := range lines {
		if s, ok := markerSection(line); ok {
			cur = s
			continue
		}
		if !isBullet(line) {
			continue
		}
		text := stripBullet(line)
		switch cur {
		case sectionSummary:
			if a.Summary == "" {
				a.Summary = text
			}
		case sectionCauses:
			if strings.TrimSpace(text) != "" {
				a.RootCauses = append(a.RootCauses, model.RootCause{
					Title:       causeTitle,
					Description: text,
				})
			}
		case sectionSolutions:
			if strings.TrimSpace(text) != "" {
				a.Solutions = append(a.Solutions, model.Solution{
					Kind:        classifySolution(line),
					Description: text,
				})
			}
		}
	}

	if a.Summary == "" && len(lines) > 0 {
		a.Summary = strings.TrimPrefix(lines[0], "# ")
	}

	if len(a.Solutions) == 0 {
		a.Solutions = append(a.Solutions, model.Solution{
			Kind:        model.SolutionGeneral,
			Description: fallbackSolution,
		})
	}

	return a
}
