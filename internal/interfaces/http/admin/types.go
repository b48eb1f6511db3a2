package admin

import (
	"time"

	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
)

type adminCoordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type adminSiteResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description,omitempty"`
	Category        string                  `json:"category"`
	Country         string                  `json:"country"`
	City            string                  `json:"city,omitempty"`
	Coordinates     adminCoordinatesPayload `json:"coordinates"`
	Rating          float64                 `json:"rating"`
	DurationMinutes int                     `json:"durationMinutes,omitempty"`
	PersonaIDs      []string                `json:"personaIds,omitempty"`
	Tags            []string                `json:"tags,omitempty"`
	OfficialURL     string                  `json:"officialUrl,omitempty"`
	PhotoURLs       []string                `json:"photoUrls,omitempty"`
	EvaluationCount int                     `json:"evaluationCount"`
	LastEvaluatedAt *time.Time              `json:"lastEvaluatedAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

type adminSiteCreateRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Country         string   `json:"country"`
	City            string   `json:"city"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Rating          float64  `json:"rating"`
	DurationMinutes int      `json:"durationMinutes"`
	PersonaIDs      []string `json:"personaIds"`
	Tags            []string `json:"tags"`
	OfficialURL     string   `json:"officialUrl"`
	PhotoURLs       []string `json:"photoUrls"`
}

type adminSiteCreateResponse struct {
	Site    adminSiteResponse `json:"site"`
	Created bool              `json:"created"`
}

type adminEvaluationResponse struct {
	ID            string         `json:"id"`
	VisitID       string         `json:"visitId"`
	SiteID        string         `json:"siteId"`
	SiteName      string         `json:"siteName,omitempty"`
	UserID        string         `json:"userId"`
	Phase         string         `json:"phase"`
	Feeling       string         `json:"feeling"`
	Behavior      string         `json:"behavior"`
	EmotionWheel  map[string]int `json:"emotionWheel,omitempty"`
	UEQSResponses map[string]int `json:"ueqsResponses,omitempty"`
	Comments      string         `json:"comments,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type adminFailedNotificationResponse struct {
	ID          string    `json:"id"`
	Endpoint    string    `json:"endpoint"`
	RawPayload  string    `json:"rawPayload"`
	LastError   string    `json:"lastError"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func adminSiteDomainToResponse(site admindomain.Site) adminSiteResponse {
	return adminSiteResponse{
		ID:          site.ID,
		Name:        site.Name,
		Description: site.Description,
		Category:    site.Category.String(),
		Country:     site.Country.String(),
		City:        site.City,
		Coordinates: adminCoordinatesPayload{
			Lat: site.Coordinates.Lat,
			Lng: site.Coordinates.Lng,
		},
		Rating:          site.Rating.Float64(),
		DurationMinutes: site.DurationMinutes.Int(),
		PersonaIDs:      site.PersonaIDs.Strings(),
		Tags:            site.Tags.Strings(),
		OfficialURL:     site.OfficialURL.String(),
		PhotoURLs:       site.PhotoURLs.Strings(),
		EvaluationCount: site.EvaluationCount,
		LastEvaluatedAt: site.LastEvaluatedAt,
		CreatedAt:       site.CreatedAt,
		UpdatedAt:       site.UpdatedAt,
	}
}

func adminEvaluationDomainToResponse(evaluation admindomain.Evaluation) adminEvaluationResponse {
	return adminEvaluationResponse{
		ID:            evaluation.ID,
		VisitID:       evaluation.VisitID,
		SiteID:        evaluation.SiteID,
		SiteName:      evaluation.SiteName,
		UserID:        evaluation.UserID,
		Phase:         evaluation.Phase,
		Feeling:       evaluation.Feeling,
		Behavior:      evaluation.Behavior,
		EmotionWheel:  evaluation.EmotionWheel,
		UEQSResponses: evaluation.UEQSResponses,
		Comments:      evaluation.Comments,
		CreatedAt:     evaluation.CreatedAt,
	}
}

func adminFailedNotificationToResponse(notification admindomain.FailedNotification) adminFailedNotificationResponse {
	return adminFailedNotificationResponse{
		ID:          notification.ID,
		Endpoint:    notification.Endpoint,
		RawPayload:  notification.RawPayload,
		LastError:   notification.LastError,
		AttemptedAt: notification.AttemptedAt,
	}
}
