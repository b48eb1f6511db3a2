package domain

import (
	"fmt"
	"strings"
	"time"
)

// EvaluationPhase identifies one of the three fixed study checkpoints.
type EvaluationPhase string

const (
	PhasePreVisit  EvaluationPhase = "pre-visit"
	PhasePostVisit EvaluationPhase = "post-visit"
	PhaseAfter24h  EvaluationPhase = "24h-after"
)

// AllPhases returns the phases in protocol order.
func AllPhases() []EvaluationPhase {
	return []EvaluationPhase{PhasePreVisit, PhasePostVisit, PhaseAfter24h}
}

// ParsePhase validates a raw phase string.
func ParsePhase(raw string) (EvaluationPhase, error) {
	phase := EvaluationPhase(strings.TrimSpace(raw))
	for _, known := range AllPhases() {
		if phase == known {
			return phase, nil
		}
	}
	return "", FieldError{Field: "phase", Reason: fmt.Sprintf("unknown phase %q", raw)}
}

// UEQSItems は UEQ-S 短縮版の8項目キー。post 系フェーズでは全項目必須。
var UEQSItems = []string{
	"supportive",
	"easy",
	"efficient",
	"clear",
	"exciting",
	"interesting",
	"inventive",
	"leading_edge",
}

const (
	ueqsMin = 1
	ueqsMax = 7

	emotionMin = 1
	emotionMax = 5
)

// FieldError is a field-level validation failure. Distinct from the
// already-completed sentinel so callers can map them to different responses.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// QuestionResponses holds the two required diary prompts.
type QuestionResponses struct {
	Feeling  string
	Behavior string
}

// EvaluationEntry is one submitted diary entry, append-only.
// At most one entry may exist per (VisitID, Phase) pair; the submission
// flow enforces that before insertion.
type EvaluationEntry struct {
	ID            string
	VisitID       string
	SiteID        string
	UserID        string
	Phase         EvaluationPhase
	Responses     QuestionResponses
	EmotionWheel  map[string]int
	UEQSResponses map[string]int
	Comments      string
	CreatedAt     time.Time
}

// Validate はフィールド単位の検証を行う。欠けている必須項目は FieldError として返し、
// 部分的な保存は行わせない。EmotionWheel と UEQSResponses の「キーが無い」は
// 「0 を回答した」とは別物で、集計側がその区別に依存している。
func (e EvaluationEntry) Validate() error {
	if _, err := ParsePhase(string(e.Phase)); err != nil {
		return err
	}
	if strings.TrimSpace(e.Responses.Feeling) == "" {
		return FieldError{Field: "feeling", Reason: "response is required"}
	}
	if strings.TrimSpace(e.Responses.Behavior) == "" {
		return FieldError{Field: "behavior", Reason: "response is required"}
	}

	for item, value := range e.UEQSResponses {
		if !isKnownUEQSItem(item) {
			return FieldError{Field: "ueqsResponses", Reason: fmt.Sprintf("unknown item %q", item)}
		}
		if value < ueqsMin || value > ueqsMax {
			return FieldError{Field: "ueqsResponses", Reason: fmt.Sprintf("item %q must be between %d and %d", item, ueqsMin, ueqsMax)}
		}
	}

	// 体験後の2フェーズは UEQ-S 全8項目の回答が必須。
	if e.Phase == PhasePostVisit || e.Phase == PhaseAfter24h {
		for _, item := range UEQSItems {
			if _, ok := e.UEQSResponses[item]; !ok {
				return FieldError{Field: "ueqsResponses", Reason: fmt.Sprintf("item %q is required for phase %s", item, e.Phase)}
			}
		}
	}

	for emotion, intensity := range e.EmotionWheel {
		if strings.TrimSpace(emotion) == "" {
			return FieldError{Field: "emotionWheel", Reason: "emotion key must not be empty"}
		}
		if intensity < emotionMin || intensity > emotionMax {
			return FieldError{Field: "emotionWheel", Reason: fmt.Sprintf("emotion %q intensity must be between %d and %d", emotion, emotionMin, emotionMax)}
		}
	}

	return nil
}

func isKnownUEQSItem(item string) bool {
	for _, known := range UEQSItems {
		if item == known {
			return true
		}
	}
	return false
}
