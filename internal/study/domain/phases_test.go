package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var visitDate = time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)

func enrolledVisit() ScheduledVisit {
	return ScheduledVisit{
		ID:              "visit-1",
		DestinationID:   "site-1",
		VisitDate:       visitDate,
		Status:          VisitStatusScheduled,
		EnrolledInStudy: true,
		StudyPhases:     map[EvaluationPhase]PhaseProgress{},
	}
}

func TestCurrentEligiblePhaseNotEnrolled(t *testing.T) {
	visit := enrolledVisit()
	visit.EnrolledInStudy = false

	for _, offset := range []time.Duration{-72 * time.Hour, 0, 10 * time.Hour, 30 * time.Hour} {
		assert.Nil(t, CurrentEligiblePhase(visit, visitDate.Add(offset)))
	}
}

func TestCurrentEligiblePhasePreVisit(t *testing.T) {
	visit := enrolledVisit()

	phase := CurrentEligiblePhase(visit, visitDate.Add(-3*24*time.Hour))
	require.NotNil(t, phase)
	assert.Equal(t, PhasePreVisit, *phase)
}

func TestCurrentEligiblePhasePostVisit(t *testing.T) {
	visit := enrolledVisit()

	// 訪問10時間後。pre-visit ウィンドウは完了有無に関わらず閉じている。
	phase := CurrentEligiblePhase(visit, visitDate.Add(10*time.Hour))
	require.NotNil(t, phase)
	assert.Equal(t, PhasePostVisit, *phase)
}

func TestCurrentEligiblePhaseMissedPostVisitIsSkipped(t *testing.T) {
	visit := enrolledVisit()

	// post-visit 未完了のまま30時間経過。巻き返しはなく 24h-after に進む。
	phase := CurrentEligiblePhase(visit, visitDate.Add(30*time.Hour))
	require.NotNil(t, phase)
	assert.Equal(t, PhaseAfter24h, *phase)
}

func TestCurrentEligiblePhaseWindowBoundaries(t *testing.T) {
	visit := enrolledVisit()

	tests := []struct {
		name   string
		offset time.Duration
		expect *EvaluationPhase
	}{
		{"8日前はウィンドウ外", -8 * 24 * time.Hour, nil},
		{"7日前ちょうどは pre-visit", -PreVisitWindow, phasePtr(PhasePreVisit)},
		{"1時間前は pre-visit", -time.Hour, phasePtr(PhasePreVisit)},
		{"訪問時刻ちょうどは post-visit", 0, phasePtr(PhasePostVisit)},
		{"24時間後ちょうどは post-visit", PostVisitWindow, phasePtr(PhasePostVisit)},
		{"24時間を過ぎたら 24h-after", PostVisitWindow + time.Minute, phasePtr(PhaseAfter24h)},
		{"72時間後ちょうどは 24h-after", After24hWindow, phasePtr(PhaseAfter24h)},
		{"72時間を超えたら対象なし", After24hWindow + time.Minute, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentEligiblePhase(visit, visitDate.Add(tt.offset))
			if tt.expect == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expect, *got)
		})
	}
}

func TestCurrentEligiblePhaseNeverReturnsCompleted(t *testing.T) {
	visit := enrolledVisit()
	now := visitDate.Add(10 * time.Hour)
	require.NoError(t, visit.RecordPhaseCompletion(PhasePostVisit, "eval-1", now))

	assert.Nil(t, CurrentEligiblePhase(visit, now))

	// 24h-after ウィンドウへ入れば、そのフェーズが返る。
	phase := CurrentEligiblePhase(visit, visitDate.Add(30*time.Hour))
	require.NotNil(t, phase)
	assert.Equal(t, PhaseAfter24h, *phase)
}

func TestRecordPhaseCompletionRejectsDuplicate(t *testing.T) {
	visit := enrolledVisit()
	first := visitDate.Add(2 * time.Hour)

	require.NoError(t, visit.RecordPhaseCompletion(PhasePostVisit, "eval-1", first))

	err := visit.RecordPhaseCompletion(PhasePostVisit, "eval-2", first.Add(time.Hour))
	assert.ErrorIs(t, err, ErrPhaseAlreadyCompleted)

	// 2回目の呼び出しで CompletedAt も EvaluationID も変わらない。
	progress := visit.StudyPhases[PhasePostVisit]
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, first, *progress.CompletedAt)
	assert.Equal(t, "eval-1", progress.EvaluationID)
}

func TestRecordPhaseCompletionRequiresEnrollment(t *testing.T) {
	visit := enrolledVisit()
	visit.EnrolledInStudy = false

	err := visit.RecordPhaseCompletion(PhasePreVisit, "eval-1", visitDate)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestRecordPhaseCompletionInitializesPhaseMap(t *testing.T) {
	visit := enrolledVisit()
	visit.StudyPhases = nil

	require.NoError(t, visit.RecordPhaseCompletion(PhasePreVisit, "eval-1", visitDate.Add(-time.Hour)))
	assert.True(t, visit.HasCompletedPhase(PhasePreVisit))
}

func TestRecomputeAllPendingPhases(t *testing.T) {
	now := visitDate.Add(10 * time.Hour)

	completed := enrolledVisit()
	completed.ID = "visit-done"
	require.NoError(t, completed.RecordPhaseCompletion(PhasePostVisit, "eval-1", now))

	notEnrolled := enrolledVisit()
	notEnrolled.ID = "visit-out"
	notEnrolled.EnrolledInStudy = false

	pending := enrolledVisit()
	pending.ID = "visit-open"

	visits := RecomputeAllPendingPhases([]ScheduledVisit{completed, notEnrolled, pending}, now)
	require.Len(t, visits, 3)

	assert.Nil(t, visits[0].NextPendingPhase)
	assert.Nil(t, visits[1].NextPendingPhase)
	require.NotNil(t, visits[2].NextPendingPhase)
	assert.Equal(t, PhasePostVisit, *visits[2].NextPendingPhase)
}

func TestVisitStatusTransitions(t *testing.T) {
	visit := enrolledVisit()
	require.NoError(t, visit.MarkCompleted())
	assert.Equal(t, VisitStatusCompleted, visit.Status)

	require.NoError(t, visit.Cancel())
	assert.Equal(t, VisitStatusCancelled, visit.Status)

	// キャンセルは一方通行。
	assert.ErrorIs(t, visit.MarkCompleted(), ErrVisitCancelled)
	assert.ErrorIs(t, visit.Cancel(), ErrVisitCancelled)
}

func phasePtr(phase EvaluationPhase) *EvaluationPhase {
	return &phase
}
