package application

import (
	"context"

	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
)

// evaluationQueryService implements EvaluationQueryService.
type evaluationQueryService struct {
	evaluations   EvaluationRepository
	notifications NotificationRepository
}

func NewEvaluationQueryService(evaluations EvaluationRepository, notifications NotificationRepository) EvaluationQueryService {
	return &evaluationQueryService{evaluations: evaluations, notifications: notifications}
}

func (s *evaluationQueryService) List(ctx context.Context, filter EvaluationFilter, paging Paging) ([]admindomain.Evaluation, error) {
	return s.evaluations.Find(ctx, filter, paging)
}

func (s *evaluationQueryService) Detail(ctx context.Context, id string) (*admindomain.Evaluation, error) {
	return s.evaluations.FindByID(ctx, id)
}

func (s *evaluationQueryService) FailedNotifications(ctx context.Context, paging Paging) ([]admindomain.FailedNotification, error) {
	return s.notifications.List(ctx, paging)
}

func (s *evaluationQueryService) DismissNotification(ctx context.Context, id string) error {
	return s.notifications.Delete(ctx, id)
}
