package domain

import "time"

// ExportSchemaVersion identifies the export document layout for round-trip
// compatibility across releases.
const ExportSchemaVersion = 1

// AnalyticsExport はユーザーがダウンロードする JSON ドキュメント。
// participant / evaluationData / visitPatterns / insights の並びと入れ子は
// StudyAnalytics の形をそのまま写す。
type AnalyticsExport struct {
	SchemaVersion  int                `json:"schemaVersion"`
	ExportID       string             `json:"exportId"`
	GeneratedAt    time.Time          `json:"generatedAt"`
	Participant    ParticipantSummary `json:"participant"`
	EvaluationData EvaluationData     `json:"evaluationData"`
	VisitPatterns  VisitPatterns      `json:"visitPatterns"`
	Insights       Insights           `json:"insights"`
}

// NewAnalyticsExport wraps a computed analytics result into the export shape.
func NewAnalyticsExport(exportID string, generatedAt time.Time, analytics StudyAnalytics) AnalyticsExport {
	return AnalyticsExport{
		SchemaVersion:  ExportSchemaVersion,
		ExportID:       exportID,
		GeneratedAt:    generatedAt,
		Participant:    analytics.Participant,
		EvaluationData: analytics.EvaluationData,
		VisitPatterns:  analytics.VisitPatterns,
		Insights:       analytics.Insights,
	}
}
