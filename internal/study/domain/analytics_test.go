package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enrolledAt = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func consentedParticipant() *StudyParticipant {
	participant, err := NewStudyParticipant("p-1", "user-1", true, enrolledAt)
	if err != nil {
		panic(err)
	}
	return participant
}

func studyVisit(id, destination string, date time.Time) ScheduledVisit {
	return ScheduledVisit{
		ID:              id,
		DestinationID:   destination,
		VisitDate:       date,
		Status:          VisitStatusScheduled,
		EnrolledInStudy: true,
	}
}

func TestComputeAnalyticsConsentGate(t *testing.T) {
	assert.Nil(t, ComputeAnalytics(nil, nil, nil))

	participant := consentedParticipant()
	participant.ConsentGiven = false
	assert.Nil(t, ComputeAnalytics(participant, nil, nil))
}

func TestComputeAnalyticsPhaseBreakdownAndScoping(t *testing.T) {
	participant := consentedParticipant()
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}
	evaluations := []EvaluationEntry{
		{ID: "e1", VisitID: "v1", Phase: PhasePreVisit},
		{ID: "e2", VisitID: "v1", Phase: PhasePostVisit},
		// 別ユーザーの訪問に紐づく評価は集計対象外。
		{ID: "e3", VisitID: "other", Phase: PhaseAfter24h},
	}

	analytics := ComputeAnalytics(participant, visits, evaluations)
	require.NotNil(t, analytics)

	assert.Equal(t, 2, analytics.EvaluationData.TotalCount)
	assert.Equal(t, 1, analytics.EvaluationData.PhaseBreakdown[PhasePreVisit])
	assert.Equal(t, 1, analytics.EvaluationData.PhaseBreakdown[PhasePostVisit])
	assert.Equal(t, 0, analytics.EvaluationData.PhaseBreakdown[PhaseAfter24h])
}

func TestComputeAnalyticsAveragesSkipMissingKeys(t *testing.T) {
	participant := consentedParticipant()
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}
	evaluations := []EvaluationEntry{
		{
			ID: "e1", VisitID: "v1", Phase: PhasePostVisit,
			UEQSResponses: map[string]int{"easy": 6, "clear": 4},
			EmotionWheel:  map[string]int{"joy": 4},
		},
		{
			ID: "e2", VisitID: "v1", Phase: PhaseAfter24h,
			// "clear" を未回答。0点扱いではなく平均から除外される。
			UEQSResponses: map[string]int{"easy": 2},
			EmotionWheel:  map[string]int{"joy": 2, "interest": 5},
		},
	}

	analytics := ComputeAnalytics(participant, visits, evaluations)
	require.NotNil(t, analytics)

	assert.InDelta(t, 4.0, analytics.EvaluationData.UEQSAverages["easy"], 1e-9)
	assert.InDelta(t, 4.0, analytics.EvaluationData.UEQSAverages["clear"], 1e-9)
	assert.InDelta(t, 3.0, analytics.EvaluationData.EmotionTrends["joy"], 1e-9)
	assert.InDelta(t, 5.0, analytics.EvaluationData.EmotionTrends["interest"], 1e-9)
}

func TestComputeAnalyticsCommonThemes(t *testing.T) {
	participant := consentedParticipant()
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}
	evaluations := []EvaluationEntry{
		{ID: "e1", VisitID: "v1", Phase: PhasePostVisit, Comments: "Beautiful ARCHITECTURE, very beautiful and peaceful."},
		{ID: "e2", VisitID: "v1", Phase: PhaseAfter24h, Comments: "The architecture felt authentic. A bit crowded."},
	}

	analytics := ComputeAnalytics(participant, visits, evaluations)
	require.NotNil(t, analytics)

	// beautiful=2, architecture=2 (同数は固定表の並びで architecture が先), 残りは1件ずつ。
	assert.Equal(t, []string{"architecture", "beautiful", "crowded", "authentic", "peaceful"}, analytics.Insights.CommonThemes)
}

func TestComputeAnalyticsVisitPatterns(t *testing.T) {
	participant := consentedParticipant()
	base := enrolledAt
	visits := []ScheduledVisit{
		studyVisit("v1", "acropolis", base),
		studyVisit("v2", "alhambra", base.Add(2*24*time.Hour)),
		studyVisit("v3", "acropolis", base.Add(6*24*time.Hour)),
	}

	analytics := ComputeAnalytics(participant, visits, nil)
	require.NotNil(t, analytics)

	assert.Equal(t, 3, analytics.VisitPatterns.TotalVisits)
	assert.Equal(t, []string{"acropolis", "alhambra"}, analytics.VisitPatterns.PreferredSites)
	// 間隔は 2日 と 4日 の平均で 3日。
	assert.InDelta(t, 3.0, analytics.VisitPatterns.AvgDaysBetweenVisits, 1e-9)
}

func TestComputeAnalyticsSingleVisitHasZeroInterval(t *testing.T) {
	participant := consentedParticipant()
	analytics := ComputeAnalytics(participant, []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}, nil)
	require.NotNil(t, analytics)
	assert.Zero(t, analytics.VisitPatterns.AvgDaysBetweenVisits)
}

func TestComputeAnalyticsCompletionAndEngagement(t *testing.T) {
	participant := consentedParticipant()
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}

	tests := []struct {
		name      string
		evals     int
		wantRate  int
		wantLevel string
	}{
		{"未回答", 0, 0, "low"},
		{"3分の2で medium", 2, 67, "medium"},
		{"全回答で high", 3, 100, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluations := make([]EvaluationEntry, 0, tt.evals)
			phases := AllPhases()
			for i := 0; i < tt.evals; i++ {
				evaluations = append(evaluations, EvaluationEntry{ID: PhaseKey("v1", phases[i]), VisitID: "v1", Phase: phases[i]})
			}

			analytics := ComputeAnalytics(participant, visits, evaluations)
			require.NotNil(t, analytics)
			assert.Equal(t, tt.wantRate, analytics.Insights.CompletionRate)
			assert.Equal(t, tt.wantLevel, analytics.Insights.EngagementLevel)
		})
	}
}

func TestComputeAnalyticsAlignmentDefaultsToNeutral(t *testing.T) {
	participant := consentedParticipant()
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}

	// パーソナリティ未計算 → 中立の50。
	analytics := ComputeAnalytics(participant, visits, nil)
	require.NotNil(t, analytics)
	assert.Equal(t, 50, analytics.Insights.PersonalityAlignment)

	// パーソナリティ有りでも UEQ-S 平均が無ければ 50 のまま。
	acux := NewACUXPersonality(10, 4, 3, 2)
	participant.ACUX = &acux
	analytics = ComputeAnalytics(participant, visits, nil)
	require.NotNil(t, analytics)
	assert.Equal(t, 50, analytics.Insights.PersonalityAlignment)
}

func TestComputeAnalyticsAlignmentMapsScale(t *testing.T) {
	participant := consentedParticipant()
	acux := NewACUXPersonality(10, 4, 3, 2)
	participant.ACUX = &acux
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"スケール最小は0", 1, 0},
		{"中央値4は60", 4, 60},
		{"6以上で飽和", 7, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluations := []EvaluationEntry{{
				ID: "e1", VisitID: "v1", Phase: PhasePostVisit,
				UEQSResponses: map[string]int{"easy": tt.score},
			}}
			analytics := ComputeAnalytics(participant, visits, evaluations)
			require.NotNil(t, analytics)
			assert.Equal(t, tt.want, analytics.Insights.PersonalityAlignment)
		})
	}
}

func TestComputeAnalyticsRecommendationWeights(t *testing.T) {
	participant := consentedParticipant()
	visits := []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}
	evaluations := []EvaluationEntry{{
		ID: "e1", VisitID: "v1", Phase: PhasePostVisit,
		EmotionWheel: map[string]int{"joy": 3, "pride": 4},
	}}

	analytics := ComputeAnalytics(participant, visits, evaluations)
	require.NotNil(t, analytics)

	// rate=1/3: 33.33*0.4 + 50*0.3 + 1*10 + 2*5 = 48.33 → 48
	assert.Equal(t, 48, analytics.Insights.RecommendationScore)
}

func TestComputeAnalyticsRecommendationCappedAt100(t *testing.T) {
	participant := consentedParticipant()
	visits := make([]ScheduledVisit, 0, 12)
	for i := 0; i < 12; i++ {
		visits = append(visits, studyVisit(fmt.Sprintf("v%02d", i), "acropolis", enrolledAt.Add(time.Duration(i)*24*time.Hour)))
	}

	analytics := ComputeAnalytics(participant, visits, nil)
	require.NotNil(t, analytics)
	assert.Equal(t, 100, analytics.Insights.RecommendationScore)
}

func TestNewAnalyticsExportMirrorsShape(t *testing.T) {
	participant := consentedParticipant()
	analytics := ComputeAnalytics(participant, []ScheduledVisit{studyVisit("v1", "acropolis", enrolledAt)}, nil)
	require.NotNil(t, analytics)

	generated := enrolledAt.Add(48 * time.Hour)
	export := NewAnalyticsExport("export-1", generated, *analytics)

	assert.Equal(t, ExportSchemaVersion, export.SchemaVersion)
	assert.Equal(t, "export-1", export.ExportID)
	assert.Equal(t, generated, export.GeneratedAt)
	assert.Equal(t, analytics.Participant, export.Participant)
	assert.Equal(t, analytics.EvaluationData, export.EvaluationData)
	assert.Equal(t, analytics.VisitPatterns, export.VisitPatterns)
	assert.Equal(t, analytics.Insights, export.Insights)
}
