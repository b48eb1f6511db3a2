package application

import (
	"context"
	"errors"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

var (
	// ErrWindowClosed は受付ウィンドウ外のフェーズ提出を拒否する際に返す。
	ErrWindowClosed = errors.New("evaluation window is not open for this phase")
	// ErrAlreadyEnrolled は重複参加登録を拒否する際に返す。
	ErrAlreadyEnrolled = errors.New("user already enrolled in study")
	// ErrVisitNotFound は訪問が存在しない、または他ユーザー所有の場合に返す。
	ErrVisitNotFound = errors.New("visit not found")
)

// VisitRepository persists scheduled visits.
// VisitRepository は訪問集約を永続化するポート。
type VisitRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.ScheduledVisit, error)
	FindByID(ctx context.Context, id string) (*domain.ScheduledVisit, error)
	Create(ctx context.Context, visit *domain.ScheduledVisit) error
	Update(ctx context.Context, visit *domain.ScheduledVisit) error
}

// EvaluationRepository persists diary entries. Append-only.
type EvaluationRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.EvaluationEntry, error)
	FindByVisit(ctx context.Context, visitID string) ([]domain.EvaluationEntry, error)
	FindByVisitAndPhase(ctx context.Context, visitID string, phase domain.EvaluationPhase) (*domain.EvaluationEntry, error)
	Create(ctx context.Context, entry *domain.EvaluationEntry) error
}

// ParticipantRepository persists study enrollment records.
type ParticipantRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.StudyParticipant, error)
	Create(ctx context.Context, participant *domain.StudyParticipant) error
	Update(ctx context.Context, participant *domain.StudyParticipant) error
}

// ErrNotFound is the repository-level absence signal shared by the Mongo and
// in-memory implementations, so services stay storage-agnostic.
var ErrNotFound = errors.New("record not found")

// ScheduleVisitCommand captures visit creation input.
type ScheduleVisitCommand struct {
	UserID          string
	DestinationID   string
	DestinationName string
	Country         string
	City            string
	VisitDate       time.Time
	EnrollInStudy   bool
}

// SubmitEvaluationCommand captures one diary submission.
type SubmitEvaluationCommand struct {
	UserID       string
	VisitID      string
	Phase        domain.EvaluationPhase
	Feeling      string
	Behavior     string
	EmotionWheel map[string]int
	UEQS         map[string]int
	Comments     string
}

// EnrollCommand captures study enrollment input.
type EnrollCommand struct {
	UserID         string
	ConsentGiven   bool
	AgeGroup       string
	Gender         string
	Nationality    string
	EducationLevel string
	ACUXScores     *ACUXScores
}

// ACUXScores carries the four questionnaire dimension totals.
type ACUXScores struct {
	Aesthetic  int
	Cognitive  int
	Behavioral int
	Affective  int
}

// VisitService describes visit lifecycle use-cases.
// VisitService は訪問のスケジューリングと状態遷移のユースケースを提供する。
type VisitService interface {
	Schedule(ctx context.Context, cmd ScheduleVisitCommand) (*domain.ScheduledVisit, error)
	Complete(ctx context.Context, userID, visitID string) (*domain.ScheduledVisit, error)
	Cancel(ctx context.Context, userID, visitID string) (*domain.ScheduledVisit, error)
	RefreshPendingPhases(ctx context.Context, userID string, now time.Time) ([]domain.ScheduledVisit, error)
}

// EvaluationService describes the diary submission use-cases.
type EvaluationService interface {
	Submit(ctx context.Context, cmd SubmitEvaluationCommand, now time.Time) (*domain.EvaluationEntry, error)
	ListForUser(ctx context.Context, userID string) ([]domain.EvaluationEntry, error)
	ListForVisit(ctx context.Context, userID, visitID string) ([]domain.EvaluationEntry, error)
}

// StudyService describes enrollment and analytics use-cases.
type StudyService interface {
	Enroll(ctx context.Context, cmd EnrollCommand, now time.Time) (*domain.StudyParticipant, error)
	Participant(ctx context.Context, userID string) (*domain.StudyParticipant, error)
	Analytics(ctx context.Context, userID string) (*domain.StudyAnalytics, error)
	Export(ctx context.Context, userID string, now time.Time) (*domain.AnalyticsExport, error)
}

// IDGenerator mints new aggregate identifiers. The Mongo implementation hands
// out ObjectID hex strings; tests can substitute a sequence.
type IDGenerator func() string
