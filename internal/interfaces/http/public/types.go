package public

import "time"

type coordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type siteStatsPayload struct {
	EvaluationCount int        `json:"evaluationCount"`
	AvgSentiment    *float64   `json:"avgSentiment,omitempty"`
	WishlistCount   int        `json:"wishlistCount"`
	LastEvaluatedAt *time.Time `json:"lastEvaluatedAt,omitempty"`
}

type sitePayload struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Category        string             `json:"category"`
	Country         string             `json:"country"`
	City            string             `json:"city,omitempty"`
	Coordinates     coordinatesPayload `json:"coordinates"`
	Rating          float64            `json:"rating"`
	DurationMinutes int                `json:"durationMinutes,omitempty"`
	PersonaIDs      []string           `json:"personaIds,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	PhotoURLs       []string           `json:"photoUrls,omitempty"`
	Stats           siteStatsPayload   `json:"stats"`
}

type siteDetailPayload struct {
	sitePayload
	// Wishlisted は署名付き訪問者 Cookie を持つクライアントにだけ付く。
	Wishlisted *bool `json:"wishlisted,omitempty"`
}

type scoredSitePayload struct {
	sitePayload
	MatchScore        int      `json:"matchScore"`
	MatchedPersonaIDs []string `json:"matchedPersonaIds,omitempty"`
	IsRecommended     bool     `json:"isRecommended"`
}

type siteListResponse struct {
	Items []scoredSitePayload `json:"items"`
	Total int                 `json:"total"`
}

type personaDefinitionPayload struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Icon                     string   `json:"icon,omitempty"`
	HighAffinityCategories   []string `json:"highAffinityCategories"`
	MediumAffinityCategories []string `json:"mediumAffinityCategories"`
}

type userPersonaPayload struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Traits      []string   `json:"traits,omitempty"`
	Likes       []string   `json:"likes,omitempty"`
	Dislikes    []string   `json:"dislikes,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Value       int        `json:"value"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type replacePersonasRequest struct {
	Personas []userPersonaPayload `json:"personas"`
}

type phaseProgressPayload struct {
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	EvaluationID string     `json:"evaluationId,omitempty"`
}

type visitPayload struct {
	ID               string                          `json:"id"`
	DestinationID    string                          `json:"destinationId"`
	DestinationName  string                          `json:"destinationName"`
	Country          string                          `json:"country,omitempty"`
	City             string                          `json:"city,omitempty"`
	VisitDate        time.Time                       `json:"visitDate"`
	DateScheduled    time.Time                       `json:"dateScheduled"`
	Status           string                          `json:"status"`
	EnrolledInStudy  bool                            `json:"enrolledInStudy"`
	StudyPhases      map[string]phaseProgressPayload `json:"studyPhases"`
	NextPendingPhase *string                         `json:"nextPendingPhase"`
}

type visitCreateRequest struct {
	DestinationID   string `json:"destinationId"`
	DestinationName string `json:"destinationName"`
	Country         string `json:"country"`
	City            string `json:"city"`
	VisitDate       string `json:"visitDate"`
	EnrollInStudy   bool   `json:"enrollInStudy"`
}

type questionResponsesPayload struct {
	Feeling  string `json:"feeling"`
	Behavior string `json:"behavior"`
}

type evaluationPayload struct {
	ID            string                   `json:"id"`
	VisitID       string                   `json:"visitId"`
	SiteID        string                   `json:"siteId"`
	Phase         string                   `json:"phase"`
	Responses     questionResponsesPayload `json:"responses"`
	EmotionWheel  map[string]int           `json:"emotionWheel,omitempty"`
	UEQSResponses map[string]int           `json:"ueqsResponses,omitempty"`
	Comments      string                   `json:"comments,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

type enrollRequest struct {
	ConsentGiven   bool             `json:"consentGiven"`
	AgeGroup       string           `json:"ageGroup"`
	Gender         string           `json:"gender"`
	Nationality    string           `json:"nationality"`
	EducationLevel string           `json:"educationLevel"`
	ACUXScores     *acuxScoresInput `json:"acuxScores"`
}

type acuxScoresInput struct {
	Aesthetic  int `json:"aesthetic"`
	Cognitive  int `json:"cognitive"`
	Behavioral int `json:"behavioral"`
	Affective  int `json:"affective"`
}

type acuxPayload struct {
	Aesthetic    int    `json:"aesthetic"`
	Cognitive    int    `json:"cognitive"`
	Behavioral   int    `json:"behavioral"`
	Affective    int    `json:"affective"`
	DominantType string `json:"dominantType"`
}

type participantPayload struct {
	ID              string          `json:"id"`
	EnrolledAt      time.Time       `json:"enrolledAt"`
	ConsentGiven    bool            `json:"consentGiven"`
	AgeGroup        string          `json:"ageGroup,omitempty"`
	Gender          string          `json:"gender,omitempty"`
	Nationality     string          `json:"nationality,omitempty"`
	EducationLevel  string          `json:"educationLevel,omitempty"`
	ACUX            *acuxPayload    `json:"acux,omitempty"`
	CompletedPhases map[string]bool `json:"completedPhases"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type wishlistRequest struct {
	Wishlisted bool `json:"wishlisted"`
}

type wishlistResponse struct {
	SiteID        string `json:"siteId"`
	Wishlisted    bool   `json:"wishlisted"`
	WishlistCount int    `json:"wishlistCount"`
}
