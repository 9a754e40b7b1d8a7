// Package ingest implements the report ingestion and normalization
// pipeline: field extraction from raw anomaly logs, section-tagged
// segmentation of analysis prose, and batch import with generation
// replace semantics.
package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/lograca/lograca/internal/model"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
	serviceRe   = regexp.MustCompile(`nova-[a-zA-Z]+`)
)

// levelMarkers are checked in this fixed order; the first hit wins.
var levelMarkers = []struct {
	marker string
	level  model.Level
}{
	{" INFO ", model.LevelInfo},
	{" WARN ", model.LevelWarn},
	{" DEBUG ", model.LevelDebug},
	{" CRITICAL ", model.LevelCritical},
}

// Fields holds the atomic fields recovered from one raw anomaly log line.
type Fields struct {
	Timestamp time.Time
	Level     model.Level
	Service   string
	Message   string
}

// ExtractFields pulls timestamp, level, service and message out of a raw
// anomaly log line. Every rule is best-effort: a pattern miss resolves to
// a documented default, never an error. now is used when no timestamp can
// be recovered.
func ExtractFields(raw string, now time.Time) Fields {
	f := Fields{
		Timestamp: now,
		Level:     model.LevelError,
		Service:   model.SentinelService,
		Message:   raw,
	}

	if m := timestampRe.FindString(raw); m != "" {
		if ts, err := time.ParseInLocation(timestampLayout, m, time.Local); err == nil {
			f.Timestamp = ts
		}
	}

	for _, lm := range levelMarkers {
		if strings.Contains(raw, lm.marker) {
			f.Level = lm.level
			break
		}
	}

	if m := serviceRe.FindString(raw); m != "" {
		f.Service = m
	}

	// The message is whatever follows the request-id bracket; without the
	// marker the whole line is the message.
	if i := strings.Index(raw, "] "); i != -1 {
		f.Message = raw[i+2:]
	}

	return f
}
