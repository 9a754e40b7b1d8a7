package ingest

import (
	"testing"

	"github.com/lograca/lograca/internal/model"
)

const sampleDoc = "# Summary\n异常概述\n- disk at 95%\n可能的异常原因\n- low free space\n解决方案建议\n- 短期: free up disk"

func TestSegmentAnalysisSections(t *testing.T) {
	a := SegmentAnalysis(sampleDoc)

	if a.Summary != "disk at 95%" {
		t.Fatalf("summary = %q", a.Summary)
	}
	if len(a.RootCauses) != 1 {
		t.Fatalf("rootCauses = %+v", a.RootCauses)
	}
	if a.RootCauses[0].Description != "low free space" {
		t.Fatalf("cause description = %q", a.RootCauses[0].Description)
	}
	if a.RootCauses[0].Title != causeTitle {
		t.Fatalf("cause title = %q", a.RootCauses[0].Title)
	}
	if len(a.Solutions) != 1 {
		t.Fatalf("solutions = %+v", a.Solutions)
	}
	if a.Solutions[0].Kind != model.SolutionShortTerm {
		t.Fatalf("solution kind = %q, want shortTerm", a.Solutions[0].Kind)
	}
	if a.Solutions[0].Description != "短期: free up disk" {
		t.Fatalf("solution description = %q", a.Solutions[0].Description)
	}
	if a.RawText != sampleDoc {
		t.Fatalf("rawText not preserved")
	}
}

func TestSegmentAnalysisSolutionKinds(t *testing.T) {
	doc := "解决方案建议\n- 短期: restart\n- 长期: add capacity\n- document the incident"
	a := SegmentAnalysis(doc)

	if len(a.Solutions) != 3 {
		t.Fatalf("solutions = %+v", a.Solutions)
	}
	wantKinds := []model.SolutionKind{model.SolutionShortTerm, model.SolutionLongTerm, model.SolutionGeneral}
	for i, want := range wantKinds {
		if a.Solutions[i].Kind != want {
			t.Fatalf("solution %d kind = %q, want %q", i, a.Solutions[i].Kind, want)
		}
	}
}

func TestSegmentAnalysisSolutionsNeverEmpty(t *testing.T) {
	docs := []string{
		"",
		"just prose with no sections",
		"异常概述\n- something odd",
		"解决方案建议\nno bullets here",
	}
	for _, doc := range docs {
		a := SegmentAnalysis(doc)
		if len(a.Solutions) == 0 {
			t.Fatalf("solutions empty for doc %q", doc)
		}
	}

	a := SegmentAnalysis("no solutions at all")
	if a.Solutions[0].Kind != model.SolutionGeneral || a.Solutions[0].Description != fallbackSolution {
		t.Fatalf("fallback solution = %+v", a.Solutions[0])
	}
}

func TestSegmentAnalysisSummaryFallback(t *testing.T) {
	a := SegmentAnalysis("# 磁盘空间不足\nsome detail")
	if a.Summary != "磁盘空间不足" {
		t.Fatalf("summary = %q, want heading without marker", a.Summary)
	}
}

func TestSegmentAnalysisBoldLabel(t *testing.T) {
	doc := "可能的异常原因\n- **配置错误**：参数未生效"
	a := SegmentAnalysis(doc)
	if len(a.RootCauses) != 1 {
		t.Fatalf("rootCauses = %+v", a.RootCauses)
	}
	if a.RootCauses[0].Description != "配置错误:参数未生效" {
		t.Fatalf("description = %q", a.RootCauses[0].Description)
	}
}

func TestSegmentAnalysisIndentedBullets(t *testing.T) {
	doc := "详细分析\n  - nested cause"
	a := SegmentAnalysis(doc)
	if len(a.RootCauses) != 1 || a.RootCauses[0].Description != "nested cause" {
		t.Fatalf("rootCauses = %+v", a.RootCauses)
	}
}

func TestSegmentAnalysisMarkerMidLine(t *testing.T) {
	// Section markers match anywhere in the line, not just at the start.
	doc := "## 二、可能的异常原因分析\n- cause one"
	a := SegmentAnalysis(doc)
	if len(a.RootCauses) != 1 {
		t.Fatalf("rootCauses = %+v", a.RootCauses)
	}
}

func TestSegmentAnalysisFirstSummaryBulletWins(t *testing.T) {
	doc := "异常概述\n- first\n- second"
	a := SegmentAnalysis(doc)
	if a.Summary != "first" {
		t.Fatalf("summary = %q, want first bullet", a.Summary)
	}
}
