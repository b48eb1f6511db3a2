package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudyParticipantRequiresConsent(t *testing.T) {
	_, err := NewStudyParticipant("p-1", "user-1", false, time.Now())
	assert.ErrorIs(t, err, ErrConsentRequired)
}

func TestNewACUXPersonalityDominantType(t *testing.T) {
	tests := []struct {
		name   string
		scores [4]int
		want   string
	}{
		{"cognitive 最高", [4]int{2, 9, 4, 1}, "cognitive"},
		{"affective 最高", [4]int{0, 1, 2, 8}, "affective"},
		// 同点は aesthetic → cognitive → behavioral → affective の固定順で決まる。
		{"同点は先勝ち", [4]int{5, 5, 5, 5}, "aesthetic"},
		{"後方同点", [4]int{1, 6, 6, 3}, "cognitive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewACUXPersonality(tt.scores[0], tt.scores[1], tt.scores[2], tt.scores[3])
			assert.Equal(t, tt.want, p.DominantType)
		})
	}
}

func TestMarkPhaseCompleted(t *testing.T) {
	participant, err := NewStudyParticipant("p-1", "user-1", true, time.Now())
	require.NoError(t, err)

	participant.MarkPhaseCompleted("visit-1", PhasePreVisit)
	assert.True(t, participant.CompletedPhases[PhaseKey("visit-1", PhasePreVisit)])

	// nil マップでも落ちない。
	participant.CompletedPhases = nil
	participant.MarkPhaseCompleted("visit-2", PhasePostVisit)
	assert.True(t, participant.CompletedPhases["visit-2-post-visit"])
}

func TestEvaluationEntryValidate(t *testing.T) {
	valid := EvaluationEntry{
		VisitID: "v1",
		Phase:   PhasePreVisit,
		Responses: QuestionResponses{
			Feeling:  "期待と少しの緊張",
			Behavior: "ガイドブックで下調べをした",
		},
	}
	assert.NoError(t, valid.Validate())

	missingFeeling := valid
	missingFeeling.Responses.Feeling = "  "
	var fieldErr FieldError
	require.ErrorAs(t, missingFeeling.Validate(), &fieldErr)
	assert.Equal(t, "feeling", fieldErr.Field)

	badPhase := valid
	badPhase.Phase = "during-visit"
	assert.Error(t, badPhase.Validate())

	outOfRange := valid
	outOfRange.UEQSResponses = map[string]int{"easy": 9}
	require.ErrorAs(t, outOfRange.Validate(), &fieldErr)
	assert.Equal(t, "ueqsResponses", fieldErr.Field)

	unknownItem := valid
	unknownItem.UEQSResponses = map[string]int{"speedy": 4}
	assert.Error(t, unknownItem.Validate())
}

func TestEvaluationEntryValidatePostPhaseRequiresFullUEQS(t *testing.T) {
	entry := EvaluationEntry{
		VisitID: "v1",
		Phase:   PhasePostVisit,
		Responses: QuestionResponses{
			Feeling:  "満足",
			Behavior: "写真を撮りながらゆっくり回った",
		},
		UEQSResponses: map[string]int{},
	}
	for _, item := range UEQSItems[:len(UEQSItems)-1] {
		entry.UEQSResponses[item] = 5
	}

	// 1項目欠けている状態では拒否。
	assert.Error(t, entry.Validate())

	entry.UEQSResponses[UEQSItems[len(UEQSItems)-1]] = 5
	assert.NoError(t, entry.Validate())

	entry.EmotionWheel = map[string]int{"joy": 6}
	assert.Error(t, entry.Validate())

	entry.EmotionWheel = map[string]int{"joy": 5, "interest": 1}
	assert.NoError(t, entry.Validate())
}
