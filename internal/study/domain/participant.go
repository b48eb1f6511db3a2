package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrConsentRequired は同意のない参加登録を拒否する際に返す。
var ErrConsentRequired = errors.New("study consent is required")

// ACUXDimensions は4次元の固定順。最高得点が同点の場合はこの順で勝者が決まる。
var ACUXDimensions = []string{"aesthetic", "cognitive", "behavioral", "affective"}

// ACUXPersonality holds the four visitor-typology dimension scores and the
// dominant type derived from them. Computed once at enrollment, then stored.
type ACUXPersonality struct {
	Aesthetic    int
	Cognitive    int
	Behavioral   int
	Affective    int
	DominantType string
}

// NewACUXPersonality derives the dominant type from the dimension scores.
func NewACUXPersonality(aesthetic, cognitive, behavioral, affective int) ACUXPersonality {
	p := ACUXPersonality{
		Aesthetic:  aesthetic,
		Cognitive:  cognitive,
		Behavioral: behavioral,
		Affective:  affective,
	}
	best := -1
	for _, dim := range ACUXDimensions {
		if score := p.score(dim); score > best {
			best = score
			p.DominantType = dim
		}
	}
	return p
}

func (p ACUXPersonality) score(dimension string) int {
	switch dimension {
	case "aesthetic":
		return p.Aesthetic
	case "cognitive":
		return p.Cognitive
	case "behavioral":
		return p.Behavioral
	case "affective":
		return p.Affective
	}
	return 0
}

// StudyParticipant is the per-user research-study record.
type StudyParticipant struct {
	ID              string
	UserID          string
	EnrolledAt      time.Time
	ConsentGiven    bool
	AgeGroup        string
	Gender          string
	Nationality     string
	EducationLevel  string
	ACUX            *ACUXPersonality
	CompletedPhases map[string]bool
}

// NewStudyParticipant creates an enrollment record. Consent is mandatory and
// only ever flips false→true, so enrollment without it is rejected outright.
func NewStudyParticipant(id, userID string, consent bool, now time.Time) (*StudyParticipant, error) {
	if !consent {
		return nil, ErrConsentRequired
	}
	return &StudyParticipant{
		ID:              id,
		UserID:          userID,
		EnrolledAt:      now,
		ConsentGiven:    true,
		CompletedPhases: make(map[string]bool),
	}, nil
}

// PhaseKey builds the composite "visitId-phase" key used in CompletedPhases.
func PhaseKey(visitID string, phase EvaluationPhase) string {
	return fmt.Sprintf("%s-%s", visitID, phase)
}

// MarkPhaseCompleted records a completed phase on the participant ledger.
func (p *StudyParticipant) MarkPhaseCompleted(visitID string, phase EvaluationPhase) {
	if p.CompletedPhases == nil {
		p.CompletedPhases = make(map[string]bool)
	}
	p.CompletedPhases[PhaseKey(visitID, phase)] = true
}
