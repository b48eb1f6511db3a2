package domain

import (
	"errors"
	"time"
)

// VisitStatus is the lifecycle state of a scheduled visit.
type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "scheduled"
	VisitStatusCompleted VisitStatus = "completed"
	VisitStatusCancelled VisitStatus = "cancelled"
)

var (
	// ErrVisitCancelled はキャンセル済み訪問に対する状態遷移で返す。キャンセルは一方通行。
	ErrVisitCancelled = errors.New("visit already cancelled")
	// ErrPhaseAlreadyCompleted は同一フェーズの二重完了を拒否する際に返す。
	// 通常のバリデーションエラーと呼び出し側で区別できるようにしている。
	ErrPhaseAlreadyCompleted = errors.New("evaluation phase already completed")
	// ErrNotEnrolled は調査未参加の訪問に評価を記録しようとした場合に返す。
	ErrNotEnrolled = errors.New("visit not enrolled in study")
)

// PhaseProgress tracks completion of one evaluation phase on a visit.
// Completed flips false→true exactly once and never reverses.
type PhaseProgress struct {
	Completed    bool
	CompletedAt  *time.Time
	EvaluationID string
}

// ScheduledVisit is a user-planned visit to a heritage site.
type ScheduledVisit struct {
	ID               string
	UserID           string
	DestinationID    string
	DestinationName  string
	Country          string
	City             string
	VisitDate        time.Time
	DateScheduled    time.Time
	Status           VisitStatus
	EnrolledInStudy  bool
	StudyPhases      map[EvaluationPhase]PhaseProgress
	NextPendingPhase *EvaluationPhase
}

// MarkCompleted transitions the visit to completed. Cancelled visits stay cancelled.
func (v *ScheduledVisit) MarkCompleted() error {
	if v.Status == VisitStatusCancelled {
		return ErrVisitCancelled
	}
	v.Status = VisitStatusCompleted
	return nil
}

// Cancel transitions the visit to cancelled. The transition is one-way.
func (v *ScheduledVisit) Cancel() error {
	if v.Status == VisitStatusCancelled {
		return ErrVisitCancelled
	}
	v.Status = VisitStatusCancelled
	return nil
}

// HasCompletedPhase reports whether the given phase is already recorded on the visit.
func (v ScheduledVisit) HasCompletedPhase(phase EvaluationPhase) bool {
	progress, ok := v.StudyPhases[phase]
	return ok && progress.Completed
}

// RecordPhaseCompletion はフェーズ完了を訪問へ記録する。
// 既に完了済みの場合は一切の変更を行わず ErrPhaseAlreadyCompleted を返すため、
// 最初の CompletedAt が後続の呼び出しで上書きされることはない。
func (v *ScheduledVisit) RecordPhaseCompletion(phase EvaluationPhase, evaluationID string, now time.Time) error {
	if !v.EnrolledInStudy {
		return ErrNotEnrolled
	}
	if v.HasCompletedPhase(phase) {
		return ErrPhaseAlreadyCompleted
	}
	if v.StudyPhases == nil {
		v.StudyPhases = make(map[EvaluationPhase]PhaseProgress, len(AllPhases()))
	}
	completedAt := now
	v.StudyPhases[phase] = PhaseProgress{
		Completed:    true,
		CompletedAt:  &completedAt,
		EvaluationID: evaluationID,
	}
	return nil
}
