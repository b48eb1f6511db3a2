package application

import (
	"context"
	"errors"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

// evaluationService is the concrete implementation of EvaluationService.
type evaluationService struct {
	visits       VisitRepository
	evaluations  EvaluationRepository
	participants ParticipantRepository
	newID        IDGenerator
}

// NewEvaluationService creates a new evaluation service.
func NewEvaluationService(
	visits VisitRepository,
	evaluations EvaluationRepository,
	participants ParticipantRepository,
	newID IDGenerator,
) EvaluationService {
	return &evaluationService{
		visits:       visits,
		evaluations:  evaluations,
		participants: participants,
		newID:        newID,
	}
}

// Submit は日記エントリを1件受け付ける。検証順は
// 所有者 → 参加登録 → ウィンドウ → 重複 → フィールド検証 の固定順で、
// 保存は全ゲート通過後にのみ行う。
func (s *evaluationService) Submit(ctx context.Context, cmd SubmitEvaluationCommand, now time.Time) (*domain.EvaluationEntry, error) {
	visit, err := s.visits.FindByID(ctx, cmd.VisitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	if visit.UserID != cmd.UserID {
		return nil, ErrVisitNotFound
	}
	if !visit.EnrolledInStudy {
		return nil, domain.ErrNotEnrolled
	}

	eligible := domain.CurrentEligiblePhase(*visit, now)
	if eligible == nil || *eligible != cmd.Phase {
		// 同一フェーズの既提出は期限切れではなく重複として報告する。
		if visit.HasCompletedPhase(cmd.Phase) {
			return nil, domain.ErrPhaseAlreadyCompleted
		}
		return nil, ErrWindowClosed
	}

	if existing, err := s.evaluations.FindByVisitAndPhase(ctx, cmd.VisitID, cmd.Phase); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	} else if existing != nil {
		return nil, domain.ErrPhaseAlreadyCompleted
	}

	entry := &domain.EvaluationEntry{
		ID:      s.newID(),
		VisitID: visit.ID,
		SiteID:  visit.DestinationID,
		UserID:  cmd.UserID,
		Phase:   cmd.Phase,
		Responses: domain.QuestionResponses{
			Feeling:  cmd.Feeling,
			Behavior: cmd.Behavior,
		},
		EmotionWheel:  cmd.EmotionWheel,
		UEQSResponses: cmd.UEQS,
		Comments:      cmd.Comments,
		CreatedAt:     now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.evaluations.Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := visit.RecordPhaseCompletion(cmd.Phase, entry.ID, now); err != nil {
		return nil, err
	}
	visit.NextPendingPhase = domain.CurrentEligiblePhase(*visit, now)
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, err
	}

	participant, err := s.participants.FindByUser(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return entry, nil
		}
		return nil, err
	}
	participant.MarkPhaseCompleted(visit.ID, cmd.Phase)
	if err := s.participants.Update(ctx, participant); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *evaluationService) ListForUser(ctx context.Context, userID string) ([]domain.EvaluationEntry, error) {
	return s.evaluations.FindByUser(ctx, userID)
}

func (s *evaluationService) ListForVisit(ctx context.Context, userID, visitID string) ([]domain.EvaluationEntry, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	if visit.UserID != userID {
		return nil, ErrVisitNotFound
	}
	return s.evaluations.FindByVisit(ctx, visitID)
}
