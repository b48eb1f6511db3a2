package application

import (
	"context"
	"errors"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
	"github.com/google/uuid"
)

// studyService is the concrete implementation of StudyService.
type studyService struct {
	participants ParticipantRepository
	visits       VisitRepository
	evaluations  EvaluationRepository
	newID        IDGenerator
}

// NewStudyService creates a new study service.
func NewStudyService(
	participants ParticipantRepository,
	visits VisitRepository,
	evaluations EvaluationRepository,
	newID IDGenerator,
) StudyService {
	return &studyService{
		participants: participants,
		visits:       visits,
		evaluations:  evaluations,
		newID:        newID,
	}
}

// Enroll は調査参加を登録する。ACUX タイプ判定は登録時の一度きりで、
// 以後の再計算は行わない。
func (s *studyService) Enroll(ctx context.Context, cmd EnrollCommand, now time.Time) (*domain.StudyParticipant, error) {
	existing, err := s.participants.FindByUser(ctx, cmd.UserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	participant, err := domain.NewStudyParticipant(s.newID(), cmd.UserID, cmd.ConsentGiven, now)
	if err != nil {
		return nil, err
	}
	participant.AgeGroup = cmd.AgeGroup
	participant.Gender = cmd.Gender
	participant.Nationality = cmd.Nationality
	participant.EducationLevel = cmd.EducationLevel
	if cmd.ACUXScores != nil {
		acux := domain.NewACUXPersonality(
			cmd.ACUXScores.Aesthetic,
			cmd.ACUXScores.Cognitive,
			cmd.ACUXScores.Behavioral,
			cmd.ACUXScores.Affective,
		)
		participant.ACUX = &acux
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *studyService) Participant(ctx context.Context, userID string) (*domain.StudyParticipant, error) {
	participant, err := s.participants.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return participant, nil
}

// Analytics は参加者の集計結果を返す。未参加または同意なしの場合は nil を返し、
// 呼び出し側が null レスポンスとして扱う。
func (s *studyService) Analytics(ctx context.Context, userID string) (*domain.StudyAnalytics, error) {
	participant, visits, evaluations, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ComputeAnalytics(participant, visits, evaluations), nil
}

// Export wraps the analytics snapshot with a fresh export ID and timestamp.
func (s *studyService) Export(ctx context.Context, userID string, now time.Time) (*domain.AnalyticsExport, error) {
	participant, visits, evaluations, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	analytics := domain.ComputeAnalytics(participant, visits, evaluations)
	if analytics == nil {
		return nil, nil
	}
	// エクスポート ID はストレージの ID 体系と切り離した UUID を使う。
	export := domain.NewAnalyticsExport(uuid.NewString(), now, *analytics)
	return &export, nil
}

func (s *studyService) load(ctx context.Context, userID string) (*domain.StudyParticipant, []domain.ScheduledVisit, []domain.EvaluationEntry, error) {
	participant, err := s.participants.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, nil, nil
		}
		return nil, nil, nil, err
	}
	visits, err := s.visits.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	evaluations, err := s.evaluations.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return participant, visits, evaluations, nil
}
