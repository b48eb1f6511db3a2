package public

import (
	"strings"
	"time"

	catalogdomain "github.com/culturatlas/culturatlas-services/api/internal/catalog/domain"
	studydomain "github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

// siteDomainToPayload はカタログの HeritageSite をレスポンス形式へ変換する。
func (h *Handler) siteDomainToPayload(site catalogdomain.HeritageSite) sitePayload {
	return sitePayload{
		ID:          site.ID,
		Name:        site.Name,
		Description: site.Description,
		Category:    site.Category,
		Country:     site.Country,
		City:        site.City,
		Coordinates: coordinatesPayload{
			Lat: site.Coordinates.Lat,
			Lng: site.Coordinates.Lng,
		},
		Rating:          site.Rating,
		DurationMinutes: site.DurationMinutes,
		PersonaIDs:      append([]string(nil), site.PersonaIDs...),
		Tags:            append([]string(nil), site.Tags...),
		PhotoURLs:       append([]string(nil), site.PhotoURLs...),
		Stats: siteStatsPayload{
			EvaluationCount: site.Stats.EvaluationCount,
			AvgSentiment:    site.Stats.AvgSentiment,
			WishlistCount:   site.Stats.WishlistCount,
			LastEvaluatedAt: h.timeInLocation(site.Stats.LastEvaluatedAt),
		},
	}
}

func (h *Handler) scoredSiteToPayload(scored catalogdomain.ScoredSite) scoredSitePayload {
	return scoredSitePayload{
		sitePayload:       h.siteDomainToPayload(scored.HeritageSite),
		MatchScore:        scored.MatchScore,
		MatchedPersonaIDs: append([]string(nil), scored.MatchedPersonaIDs...),
		IsRecommended:     scored.IsRecommended,
	}
}

func personaDefinitionToPayload(def catalogdomain.PersonaDefinition) personaDefinitionPayload {
	return personaDefinitionPayload{
		ID:                       def.ID,
		Name:                     def.Name,
		Icon:                     def.Icon,
		HighAffinityCategories:   append([]string(nil), def.HighAffinityCategories...),
		MediumAffinityCategories: append([]string(nil), def.MediumAffinityCategories...),
	}
}

func userPersonaToPayload(persona catalogdomain.UserPersona) userPersonaPayload {
	return userPersonaPayload{
		ID:          persona.ID,
		Title:       persona.Title,
		Description: persona.Description,
		Traits:      append([]string(nil), persona.Traits...),
		Likes:       append([]string(nil), persona.Likes...),
		Dislikes:    append([]string(nil), persona.Dislikes...),
		Icon:        persona.Icon,
		Value:       persona.Value,
		CompletedAt: persona.CompletedAt,
	}
}

// visitDomainToPayload は訪問集約をレスポンス形式へ変換する。
// StudyPhases は未記録でも空オブジェクトで返し、クライアント側の nil 分岐を不要にする。
func (h *Handler) visitDomainToPayload(visit studydomain.ScheduledVisit) visitPayload {
	phases := make(map[string]phaseProgressPayload, len(visit.StudyPhases))
	for phase, progress := range visit.StudyPhases {
		phases[string(phase)] = phaseProgressPayload{
			Completed:    progress.Completed,
			CompletedAt:  h.timeInLocation(progress.CompletedAt),
			EvaluationID: progress.EvaluationID,
		}
	}

	var nextPhase *string
	if visit.NextPendingPhase != nil {
		value := string(*visit.NextPendingPhase)
		nextPhase = &value
	}

	return visitPayload{
		ID:               visit.ID,
		DestinationID:    visit.DestinationID,
		DestinationName:  visit.DestinationName,
		Country:          visit.Country,
		City:             visit.City,
		VisitDate:        visit.VisitDate.In(h.location),
		DateScheduled:    visit.DateScheduled.In(h.location),
		Status:           string(visit.Status),
		EnrolledInStudy:  visit.EnrolledInStudy,
		StudyPhases:      phases,
		NextPendingPhase: nextPhase,
	}
}

func (h *Handler) evaluationDomainToPayload(entry studydomain.EvaluationEntry) evaluationPayload {
	return evaluationPayload{
		ID:      entry.ID,
		VisitID: entry.VisitID,
		SiteID:  entry.SiteID,
		Phase:   string(entry.Phase),
		Responses: questionResponsesPayload{
			Feeling:  entry.Responses.Feeling,
			Behavior: entry.Responses.Behavior,
		},
		EmotionWheel:  entry.EmotionWheel,
		UEQSResponses: entry.UEQSResponses,
		Comments:      entry.Comments,
		CreatedAt:     entry.CreatedAt.In(h.location),
	}
}

func (h *Handler) participantDomainToPayload(participant studydomain.StudyParticipant) participantPayload {
	payload := participantPayload{
		ID:              participant.ID,
		EnrolledAt:      participant.EnrolledAt.In(h.location),
		ConsentGiven:    participant.ConsentGiven,
		AgeGroup:        participant.AgeGroup,
		Gender:          participant.Gender,
		Nationality:     participant.Nationality,
		EducationLevel:  participant.EducationLevel,
		CompletedPhases: participant.CompletedPhases,
	}
	if payload.CompletedPhases == nil {
		payload.CompletedPhases = map[string]bool{}
	}
	if participant.ACUX != nil {
		payload.ACUX = &acuxPayload{
			Aesthetic:    participant.ACUX.Aesthetic,
			Cognitive:    participant.ACUX.Cognitive,
			Behavioral:   participant.ACUX.Behavioral,
			Affective:    participant.ACUX.Affective,
			DominantType: participant.ACUX.DominantType,
		}
	}
	return payload
}

func (h *Handler) timeInLocation(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	local := value.In(h.location)
	return &local
}

// splitCSV はクエリパラメータのカンマ区切りリストを空要素抜きで分解する。
func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}
