package application

import (
	"context"
	"errors"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

// visitService is the concrete implementation of VisitService.
type visitService struct {
	visits       VisitRepository
	participants ParticipantRepository
	newID        IDGenerator
}

// NewVisitService creates a new visit service.
func NewVisitService(visits VisitRepository, participants ParticipantRepository, newID IDGenerator) VisitService {
	return &visitService{visits: visits, participants: participants, newID: newID}
}

func (s *visitService) Schedule(ctx context.Context, cmd ScheduleVisitCommand) (*domain.ScheduledVisit, error) {
	enrolled := false
	if cmd.EnrollInStudy {
		participant, err := s.participants.FindByUser(ctx, cmd.UserID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		enrolled = participant != nil && participant.ConsentGiven
	}

	now := time.Now().UTC()
	visit := &domain.ScheduledVisit{
		ID:              s.newID(),
		UserID:          cmd.UserID,
		DestinationID:   cmd.DestinationID,
		DestinationName: cmd.DestinationName,
		Country:         cmd.Country,
		City:            cmd.City,
		VisitDate:       cmd.VisitDate.UTC(),
		DateScheduled:   now,
		Status:          domain.VisitStatusScheduled,
		EnrolledInStudy: enrolled,
		StudyPhases:     map[domain.EvaluationPhase]domain.PhaseProgress{},
	}
	visit.NextPendingPhase = domain.CurrentEligiblePhase(*visit, now)

	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *visitService) Complete(ctx context.Context, userID, visitID string) (*domain.ScheduledVisit, error) {
	visit, err := s.ownedVisit(ctx, userID, visitID)
	if err != nil {
		return nil, err
	}
	if err := visit.MarkCompleted(); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *visitService) Cancel(ctx context.Context, userID, visitID string) (*domain.ScheduledVisit, error) {
	visit, err := s.ownedVisit(ctx, userID, visitID)
	if err != nil {
		return nil, err
	}
	if err := visit.Cancel(); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// RefreshPendingPhases recomputes and persists NextPendingPhase for every
// visit of the user. Called lazily on list access rather than by a scheduler.
func (s *visitService) RefreshPendingPhases(ctx context.Context, userID string, now time.Time) ([]domain.ScheduledVisit, error) {
	visits, err := s.visits.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	refreshed := domain.RecomputeAllPendingPhases(visits, now)
	for i := range refreshed {
		if !pendingPhaseEqual(visits[i].NextPendingPhase, refreshed[i].NextPendingPhase) {
			if err := s.visits.Update(ctx, &refreshed[i]); err != nil {
				return nil, err
			}
		}
	}
	return refreshed, nil
}

func (s *visitService) ownedVisit(ctx context.Context, userID, visitID string) (*domain.ScheduledVisit, error) {
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
	return visit, nil
}

func pendingPhaseEqual(a, b *domain.EvaluationPhase) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
