package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes ----

type memVisitRepo struct {
	visits map[string]*domain.ScheduledVisit
}

func newMemVisitRepo() *memVisitRepo {
	return &memVisitRepo{visits: make(map[string]*domain.ScheduledVisit)}
}

func (r *memVisitRepo) FindByUser(_ context.Context, userID string) ([]domain.ScheduledVisit, error) {
	var out []domain.ScheduledVisit
	for _, v := range r.visits {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *memVisitRepo) FindByID(_ context.Context, id string) (*domain.ScheduledVisit, error) {
	v, ok := r.visits[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *memVisitRepo) Create(_ context.Context, visit *domain.ScheduledVisit) error {
	copied := *visit
	r.visits[visit.ID] = &copied
	return nil
}

func (r *memVisitRepo) Update(_ context.Context, visit *domain.ScheduledVisit) error {
	if _, ok := r.visits[visit.ID]; !ok {
		return ErrNotFound
	}
	copied := *visit
	r.visits[visit.ID] = &copied
	return nil
}

type memEvaluationRepo struct {
	entries []domain.EvaluationEntry
}

func (r *memEvaluationRepo) FindByUser(_ context.Context, userID string) ([]domain.EvaluationEntry, error) {
	var out []domain.EvaluationEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEvaluationRepo) FindByVisit(_ context.Context, visitID string) ([]domain.EvaluationEntry, error) {
	var out []domain.EvaluationEntry
	for _, e := range r.entries {
		if e.VisitID == visitID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEvaluationRepo) FindByVisitAndPhase(_ context.Context, visitID string, phase domain.EvaluationPhase) (*domain.EvaluationEntry, error) {
	for _, e := range r.entries {
		if e.VisitID == visitID && e.Phase == phase {
			copied := e
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memEvaluationRepo) Create(_ context.Context, entry *domain.EvaluationEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

type memParticipantRepo struct {
	byUser map[string]*domain.StudyParticipant
}

func newMemParticipantRepo() *memParticipantRepo {
	return &memParticipantRepo{byUser: make(map[string]*domain.StudyParticipant)}
}

func (r *memParticipantRepo) FindByUser(_ context.Context, userID string) (*domain.StudyParticipant, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memParticipantRepo) Create(_ context.Context, participant *domain.StudyParticipant) error {
	copied := *participant
	r.byUser[participant.UserID] = &copied
	return nil
}

func (r *memParticipantRepo) Update(_ context.Context, participant *domain.StudyParticipant) error {
	if _, ok := r.byUser[participant.UserID]; !ok {
		return ErrNotFound
	}
	copied := *participant
	r.byUser[participant.UserID] = &copied
	return nil
}

func sequenceIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// ---- fixtures ----

func enrolledVisit(id, userID string, visitDate time.Time) *domain.ScheduledVisit {
	return &domain.ScheduledVisit{
		ID:              id,
		UserID:          userID,
		DestinationID:   "site-acropolis",
		DestinationName: "Acropolis of Athens",
		Country:         "Greece",
		City:            "Athens",
		VisitDate:       visitDate,
		Status:          domain.VisitStatusScheduled,
		EnrolledInStudy: true,
		StudyPhases:     map[domain.EvaluationPhase]domain.PhaseProgress{},
	}
}

func validSubmission(userID, visitID string, phase domain.EvaluationPhase) SubmitEvaluationCommand {
	cmd := SubmitEvaluationCommand{
		UserID:   userID,
		VisitID:  visitID,
		Phase:    phase,
		Feeling:  "curious and excited",
		Behavior: "read about the site's history beforehand",
		EmotionWheel: map[string]int{
			"joy":          4,
			"anticipation": 5,
		},
	}
	if phase != domain.PhasePreVisit {
		cmd.UEQS = map[string]int{
			"supportive": 5, "easy": 6, "efficient": 5, "clear": 6,
			"exciting": 7, "interesting": 7, "inventive": 4, "leading_edge": 4,
		}
	}
	return cmd
}

// ---- evaluation submission ----

func TestEvaluationService_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("pre-visit submission inside window succeeds", func(t *testing.T) {
		visits := newMemVisitRepo()
		evals := &memEvaluationRepo{}
		participants := newMemParticipantRepo()
		p, err := domain.NewStudyParticipant("p1", "user-1", true, now)
		require.NoError(t, err)
		require.NoError(t, participants.Create(ctx, p))
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(48*time.Hour))))

		svc := NewEvaluationService(visits, evals, participants, sequenceIDs("e"))
		entry, err := svc.Submit(ctx, validSubmission("user-1", "v1", domain.PhasePreVisit), now)
		require.NoError(t, err)
		assert.Equal(t, "e-1", entry.ID)
		assert.Equal(t, "site-acropolis", entry.SiteID)

		stored, err := visits.FindByID(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, stored.HasCompletedPhase(domain.PhasePreVisit))
		assert.Nil(t, stored.NextPendingPhase)

		updated, err := participants.FindByUser(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, updated.CompletedPhases["v1-pre-visit"])
	})

	t.Run("second submission for same phase is rejected and first record kept", func(t *testing.T) {
		visits := newMemVisitRepo()
		evals := &memEvaluationRepo{}
		participants := newMemParticipantRepo()
		p, err := domain.NewStudyParticipant("p1", "user-1", true, now)
		require.NoError(t, err)
		require.NoError(t, participants.Create(ctx, p))
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(-2*time.Hour))))

		svc := NewEvaluationService(visits, evals, participants, sequenceIDs("e"))
		first, err := svc.Submit(ctx, validSubmission("user-1", "v1", domain.PhasePostVisit), now)
		require.NoError(t, err)

		before, err := visits.FindByID(ctx, "v1")
		require.NoError(t, err)
		firstCompletedAt := before.StudyPhases[domain.PhasePostVisit].CompletedAt

		later := now.Add(30 * time.Minute)
		_, err = svc.Submit(ctx, validSubmission("user-1", "v1", domain.PhasePostVisit), later)
		assert.ErrorIs(t, err, domain.ErrPhaseAlreadyCompleted)

		after, err := visits.FindByID(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, firstCompletedAt, after.StudyPhases[domain.PhasePostVisit].CompletedAt)
		assert.Equal(t, first.ID, after.StudyPhases[domain.PhasePostVisit].EvaluationID)
		assert.Len(t, evals.entries, 1)
	})

	t.Run("submission outside window is rejected", func(t *testing.T) {
		visits := newMemVisitRepo()
		participants := newMemParticipantRepo()
		// 訪問の10日前は事前フェーズ開始（168時間前）より早い。
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(240*time.Hour))))

		svc := NewEvaluationService(visits, &memEvaluationRepo{}, participants, sequenceIDs("e"))
		_, err := svc.Submit(ctx, validSubmission("user-1", "v1", domain.PhasePreVisit), now)
		assert.ErrorIs(t, err, ErrWindowClosed)
	})

	t.Run("visit not enrolled in study is rejected", func(t *testing.T) {
		visits := newMemVisitRepo()
		visit := enrolledVisit("v1", "user-1", now.Add(-2*time.Hour))
		visit.EnrolledInStudy = false
		require.NoError(t, visits.Create(ctx, visit))

		svc := NewEvaluationService(visits, &memEvaluationRepo{}, newMemParticipantRepo(), sequenceIDs("e"))
		_, err := svc.Submit(ctx, validSubmission("user-1", "v1", domain.PhasePostVisit), now)
		assert.ErrorIs(t, err, domain.ErrNotEnrolled)
	})

	t.Run("visit owned by another user is not found", func(t *testing.T) {
		visits := newMemVisitRepo()
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(-2*time.Hour))))

		svc := NewEvaluationService(visits, &memEvaluationRepo{}, newMemParticipantRepo(), sequenceIDs("e"))
		_, err := svc.Submit(ctx, validSubmission("user-2", "v1", domain.PhasePostVisit), now)
		assert.ErrorIs(t, err, ErrVisitNotFound)
	})

	t.Run("validation failure leaves no record behind", func(t *testing.T) {
		visits := newMemVisitRepo()
		evals := &memEvaluationRepo{}
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(-2*time.Hour))))

		svc := NewEvaluationService(visits, evals, newMemParticipantRepo(), sequenceIDs("e"))
		cmd := validSubmission("user-1", "v1", domain.PhasePostVisit)
		cmd.Feeling = "  "
		_, err := svc.Submit(ctx, cmd, now)

		var fieldErr domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "feeling", fieldErr.Field)
		assert.Empty(t, evals.entries)

		stored, err := visits.FindByID(ctx, "v1")
		require.NoError(t, err)
		assert.False(t, stored.HasCompletedPhase(domain.PhasePostVisit))
	})
}

// ---- visit lifecycle ----

func TestVisitService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("schedule marks enrollment only for consenting participants", func(t *testing.T) {
		visits := newMemVisitRepo()
		participants := newMemParticipantRepo()
		p, err := domain.NewStudyParticipant("p1", "user-1", true, now)
		require.NoError(t, err)
		require.NoError(t, participants.Create(ctx, p))

		svc := NewVisitService(visits, participants, sequenceIDs("v"))
		visit, err := svc.Schedule(ctx, ScheduleVisitCommand{
			UserID:        "user-1",
			DestinationID: "site-alhambra",
			VisitDate:     now.Add(24 * time.Hour),
			EnrollInStudy: true,
		})
		require.NoError(t, err)
		assert.True(t, visit.EnrolledInStudy)
		require.NotNil(t, visit.NextPendingPhase)
		assert.Equal(t, domain.PhasePreVisit, *visit.NextPendingPhase)

		other, err := svc.Schedule(ctx, ScheduleVisitCommand{
			UserID:        "user-2",
			DestinationID: "site-alhambra",
			VisitDate:     now.Add(24 * time.Hour),
			EnrollInStudy: true,
		})
		require.NoError(t, err)
		assert.False(t, other.EnrolledInStudy, "user without enrollment record cannot opt in")
	})

	t.Run("cancel is one-way", func(t *testing.T) {
		visits := newMemVisitRepo()
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(24*time.Hour))))

		svc := NewVisitService(visits, newMemParticipantRepo(), sequenceIDs("v"))
		cancelled, err := svc.Cancel(ctx, "user-1", "v1")
		require.NoError(t, err)
		assert.Equal(t, domain.VisitStatusCancelled, cancelled.Status)

		_, err = svc.Complete(ctx, "user-1", "v1")
		assert.ErrorIs(t, err, domain.ErrVisitCancelled)
	})

	t.Run("complete rejects foreign visits", func(t *testing.T) {
		visits := newMemVisitRepo()
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(24*time.Hour))))

		svc := NewVisitService(visits, newMemParticipantRepo(), sequenceIDs("v"))
		_, err := svc.Complete(ctx, "user-2", "v1")
		assert.ErrorIs(t, err, ErrVisitNotFound)
	})

	t.Run("refresh persists changed pending phases", func(t *testing.T) {
		visits := newMemVisitRepo()
		visit := enrolledVisit("v1", "user-1", now.Add(-2*time.Hour))
		stale := domain.PhasePreVisit
		visit.NextPendingPhase = &stale
		require.NoError(t, visits.Create(ctx, visit))

		svc := NewVisitService(visits, newMemParticipantRepo(), sequenceIDs("v"))
		refreshed, err := svc.RefreshPendingPhases(ctx, "user-1", now)
		require.NoError(t, err)
		require.Len(t, refreshed, 1)
		require.NotNil(t, refreshed[0].NextPendingPhase)
		assert.Equal(t, domain.PhasePostVisit, *refreshed[0].NextPendingPhase)

		stored, err := visits.FindByID(ctx, "v1")
		require.NoError(t, err)
		require.NotNil(t, stored.NextPendingPhase)
		assert.Equal(t, domain.PhasePostVisit, *stored.NextPendingPhase)
	})
}

// ---- enrollment and analytics ----

func TestStudyService_Enroll(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("enrollment without consent is rejected", func(t *testing.T) {
		svc := NewStudyService(newMemParticipantRepo(), newMemVisitRepo(), &memEvaluationRepo{}, sequenceIDs("p"))
		_, err := svc.Enroll(ctx, EnrollCommand{UserID: "user-1", ConsentGiven: false}, now)
		assert.ErrorIs(t, err, domain.ErrConsentRequired)
	})

	t.Run("enrollment computes ACUX type once", func(t *testing.T) {
		participants := newMemParticipantRepo()
		svc := NewStudyService(participants, newMemVisitRepo(), &memEvaluationRepo{}, sequenceIDs("p"))

		participant, err := svc.Enroll(ctx, EnrollCommand{
			UserID:       "user-1",
			ConsentGiven: true,
			AgeGroup:     "25-34",
			ACUXScores:   &ACUXScores{Aesthetic: 12, Cognitive: 18, Behavioral: 9, Affective: 14},
		}, now)
		require.NoError(t, err)
		require.NotNil(t, participant.ACUX)
		assert.Equal(t, "cognitive", participant.ACUX.DominantType)
		assert.Equal(t, now, participant.EnrolledAt)
	})

	t.Run("duplicate enrollment is rejected", func(t *testing.T) {
		participants := newMemParticipantRepo()
		svc := NewStudyService(participants, newMemVisitRepo(), &memEvaluationRepo{}, sequenceIDs("p"))

		_, err := svc.Enroll(ctx, EnrollCommand{UserID: "user-1", ConsentGiven: true}, now)
		require.NoError(t, err)
		_, err = svc.Enroll(ctx, EnrollCommand{UserID: "user-1", ConsentGiven: true}, now)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})
}

func TestStudyService_Analytics(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("non-participant gets nil analytics and nil export", func(t *testing.T) {
		svc := NewStudyService(newMemParticipantRepo(), newMemVisitRepo(), &memEvaluationRepo{}, sequenceIDs("p"))

		analytics, err := svc.Analytics(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, analytics)

		export, err := svc.Export(ctx, "user-1", now)
		require.NoError(t, err)
		assert.Nil(t, export)
	})

	t.Run("export mirrors the analytics snapshot", func(t *testing.T) {
		participants := newMemParticipantRepo()
		visits := newMemVisitRepo()
		evals := &memEvaluationRepo{}
		p, err := domain.NewStudyParticipant("p1", "user-1", true, now.Add(-72*time.Hour))
		require.NoError(t, err)
		require.NoError(t, participants.Create(ctx, p))
		require.NoError(t, visits.Create(ctx, enrolledVisit("v1", "user-1", now.Add(-24*time.Hour))))

		svc := NewStudyService(participants, visits, evals, sequenceIDs("p"))
		export, err := svc.Export(ctx, "user-1", now)
		require.NoError(t, err)
		require.NotNil(t, export)
		assert.Equal(t, domain.ExportSchemaVersion, export.SchemaVersion)
		assert.NotEmpty(t, export.ExportID)
		assert.Equal(t, now, export.GeneratedAt)
		assert.Equal(t, 1, export.VisitPatterns.TotalVisits)
	})
}
