package types

type AnalysisStatus string

const (
	AnalysisStatusNotStarted AnalysisStatus = "not_started"
	AnalysisStatusStarting   AnalysisStatus = "starting"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusError      AnalysisStatus = "error"
)

type ScoreStatus string

const (
	ScoreStatusGreen  ScoreStatus = "green"
	ScoreStatusYellow ScoreStatus = "yellow"
	ScoreStatusRed    ScoreStatus = "red"
	ScoreStatusError  ScoreStatus = "error"
)

// FileResult is immutable once appended to an AnalysisState.
type FileResult struct {
	Filename string      `json:"filename"`
	FileType FileType    `json:"file_type"`
	Content  string      `json:"content"`
	Score    float64     `json:"score"`
	Status   ScoreStatus `json:"status"`
	Error    string      `json:"error,omitempty"`
}

// AnalysisState is the full per-session analysis snapshot. A new run replaces
// it wholesale; progress and message are the only fields mutated mid-run.
type AnalysisState struct {
	SessionID    string         `json:"session_id"`
	Status       AnalysisStatus `json:"status"`
	Progress     int            `json:"progress"`
	Message      string         `json:"message"`
	Results      []FileResult   `json:"results"`
	OverallScore float64        `json:"overall_score"`
	AllContent   string         `json:"all_content"`
	Error        string         `json:"error,omitempty"`
}
