package model

// ReportEntry is one raw unit of ingestion input: an anomalous log line
// paired with free-text analysis prose produced by the analyzer.
type ReportEntry struct {
	AnomalyLog string `json:"anomaly_log"`
	Analysis   string `json:"analysis"`
	VMID       string `json:"vm_id"`
}
