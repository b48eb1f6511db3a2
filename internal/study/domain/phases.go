package domain

import "time"

// 各フェーズの受付ウィンドウ。訪問時刻からの相対時間で固定。
const (
	PreVisitWindow  = 168 * time.Hour
	PostVisitWindow = 24 * time.Hour
	After24hWindow  = 72 * time.Hour
)

// phaseWindow pairs a phase with its eligibility predicate. The slice order is
// the evaluation order: the first open, not-yet-completed phase wins.
type phaseWindow struct {
	Phase EvaluationPhase
	Open  func(visitDate, now time.Time) bool
}

// phaseWindows はウィンドウ判定を優先順のデータとして持つ。
// 閉じたウィンドウのフェーズは恒久的にスキップされ、再試行の機会はない。
var phaseWindows = []phaseWindow{
	{
		Phase: PhasePreVisit,
		Open: func(visitDate, now time.Time) bool {
			until := visitDate.Sub(now)
			return until > 0 && until <= PreVisitWindow
		},
	},
	{
		Phase: PhasePostVisit,
		Open: func(visitDate, now time.Time) bool {
			after := now.Sub(visitDate)
			return after >= 0 && after <= PostVisitWindow
		},
	},
	{
		Phase: PhaseAfter24h,
		Open: func(visitDate, now time.Time) bool {
			after := now.Sub(visitDate)
			return after > PostVisitWindow && after <= After24hWindow
		},
	},
}

// CurrentEligiblePhase は「いま回答を受け付けているフェーズ」を返す純粋関数。
// 状態はどこにも保存せず、問い合わせのたびに visitDate と now から計算し直す。
// 調査未参加の訪問には常に nil を返す。
func CurrentEligiblePhase(visit ScheduledVisit, now time.Time) *EvaluationPhase {
	if !visit.EnrolledInStudy {
		return nil
	}
	for _, window := range phaseWindows {
		if !window.Open(visit.VisitDate, now) {
			continue
		}
		if visit.HasCompletedPhase(window.Phase) {
			continue
		}
		phase := window.Phase
		return &phase
	}
	return nil
}

// RecomputeAllPendingPhases refreshes the cached NextPendingPhase on every
// enrolled visit. It is pure: the caller receives updated copies to persist.
// Intended for the polling refresh while the study view is open.
func RecomputeAllPendingPhases(visits []ScheduledVisit, now time.Time) []ScheduledVisit {
	result := make([]ScheduledVisit, len(visits))
	for i, visit := range visits {
		visit.NextPendingPhase = CurrentEligiblePhase(visit, now)
		result[i] = visit
	}
	return result
}
