package model

import (
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a log record.
type Level string

const (
	LevelError    Level = "ERROR"
	LevelWarn     Level = "WARN"
	LevelInfo     Level = "INFO"
	LevelCritical Level = "CRITICAL"
	LevelDebug    Level = "DEBUG"
)

// Levels lists every valid severity value.
func Levels() []Level {
	return []Level{LevelError, LevelWarn, LevelInfo, LevelCritical, LevelDebug}
}

// Valid reports whether l is one of the fixed severity values.
func (l Level) Valid() bool {
	switch l {
	case LevelError, LevelWarn, LevelInfo, LevelCritical, LevelDebug:
		return true
	}
	return false
}

// SolutionKind classifies a proposed solution by time horizon.
type SolutionKind string

const (
	SolutionShortTerm SolutionKind = "shortTerm"
	SolutionLongTerm  SolutionKind = "longTerm"
	SolutionGeneral   SolutionKind = "general"
)

// RootCause is one probable cause inside an analysis.
type RootCause struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Solution is one suggested remediation inside an analysis.
type Solution struct {
	Kind        SolutionKind `json:"type"`
	Description string       `json:"description"`
}

// Analysis is the structured root-cause analysis attached to a record.
// RawText holds the untouched source document; older records lack it.
type Analysis struct {
	Summary    string      `json:"summary"`
	RootCauses []RootCause `json:"rootCauses"`
	Solutions  []Solution  `json:"solutions"`
	RawText    string      `json:"rawText,omitempty"`
}

// Metadata keys stamped by the ingestion pipeline.
const (
	MetaSource          = "source"
	MetaVMID            = "vm_id"
	MetaOriginalService = "originalService"
)

const (
	// SentinelService is used when no service can be recovered from a raw log.
	SentinelService = "test"
	// CatchAllService is the fixed catch-all service identifier. The
	// distinct-services listing always includes it, even with zero records.
	CatchAllService = "openstack-service"
	// DefaultSourceTag marks records ingested by the analysis pipeline.
	DefaultSourceTag = "LogRCA"
)

// LogRecord is the canonical persisted entity: one anomalous log line
// plus its (possibly absent) root-cause analysis.
type LogRecord struct {
	ID         uuid.UUID      `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Service    string         `json:"service"`
	Level      Level          `json:"level"`
	Message    string         `json:"message"`
	StackTrace string         `json:"stackTrace,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	VMID       string         `json:"vmId,omitempty"`
	Analysis   *Analysis      `json:"analysis,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt,omitempty"`
}

// Source returns the provenance tag stamped by ingestion, or "".
func (r *LogRecord) Source() string {
	if r.Metadata == nil {
		return ""
	}
	s, _ := r.Metadata[MetaSource].(string)
	return s
}
