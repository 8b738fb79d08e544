package output

// CheckDiagnostic is the JSON form of one diagnostic.
type CheckDiagnostic struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	EndLine  int    `json:"end_line"`
	EndCol   int    `json:"end_column"`
	URL      string `json:"url,omitempty"`
}

// CheckFileResult groups the diagnostics of one file.
type CheckFileResult struct {
	Path        string            `json:"path"`
	Diagnostics []CheckDiagnostic `json:"diagnostics"`
}

// CheckSummary counts the diagnostics of a run.
type CheckSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesWithIssues int `json:"files_with_issues"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
}

// CheckOutput is the JSON document written by check --format json.
type CheckOutput struct {
	RunID      string            `json:"run_id"`
	Summary    CheckSummary      `json:"summary"`
	Files      []CheckFileResult `json:"files"`
	Advisories []string          `json:"advisories,omitempty"`
}

// CacheRun is the JSON form of one recorded check run.
type CacheRun struct {
	ID         string `json:"id"`
	StartedAt  string `json:"started_at"`
	DurationMS int64  `json:"duration_ms"`
	Files      int    `json:"files"`
	Cached     int    `json:"cached"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
}
