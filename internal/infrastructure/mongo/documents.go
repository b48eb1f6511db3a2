package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteStatsDocument はサイトドキュメント内の stats 埋め込み構造を表す。
type SiteStatsDocument struct {
	EvaluationCount int        `bson:"evaluationCount"`
	AvgSentiment    *float64   `bson:"avgSentiment,omitempty"`
	WishlistCount   int        `bson:"wishlistCount"`
	LastEvaluatedAt *time.Time `bson:"lastEvaluatedAt,omitempty"`
}

// CoordinatesDocument は座標の埋め込みドキュメント。
type CoordinatesDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// SiteDocument は MongoDB 上での遺産サイトスキーマを Go 構造体として表現したもの。
type SiteDocument struct {
	ID              primitive.ObjectID  `bson:"_id"`
	Name            string              `bson:"name"`
	Description     string              `bson:"description,omitempty"`
	Category        string              `bson:"category"`
	Country         string              `bson:"country"`
	City            string              `bson:"city,omitempty"`
	Coordinates     CoordinatesDocument `bson:"coordinates"`
	Rating          float64             `bson:"rating"`
	DurationMinutes int                 `bson:"durationMinutes,omitempty"`
	PersonaIDs      []string            `bson:"personaIds,omitempty"`
	Tags            []string            `bson:"tags,omitempty"`
	OfficialURL     string              `bson:"officialURL,omitempty"`
	PhotoURLs       []string            `bson:"photoURLs,omitempty"`
	Stats           SiteStatsDocument   `bson:"stats"`
	CreatedAt       *time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt       *time.Time          `bson:"updatedAt,omitempty"`
}

// UserPersonaItemDocument は診断結果ペルソナ 1 件分の埋め込みドキュメント。
// 表示用の説明文ごとスナップショットとして保持する。
type UserPersonaItemDocument struct {
	PersonaID   string     `bson:"personaId"`
	Title       string     `bson:"title,omitempty"`
	Description string     `bson:"description,omitempty"`
	Traits      []string   `bson:"traits,omitempty"`
	Likes       []string   `bson:"likes,omitempty"`
	Dislikes    []string   `bson:"dislikes,omitempty"`
	Icon        string     `bson:"icon,omitempty"`
	Value       int        `bson:"value"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
}

// UserPersonaDocument はユーザーごとに 1 ドキュメントで保持する診断結果。
// 再診断時は ReplaceOne で丸ごと差し替える。
type UserPersonaDocument struct {
	ID        primitive.ObjectID        `bson:"_id"`
	UserID    string                    `bson:"userId"`
	Personas  []UserPersonaItemDocument `bson:"personas"`
	UpdatedAt time.Time                 `bson:"updatedAt"`
}

// PhaseProgressDocument はフェーズ完了状況の埋め込みドキュメント。
type PhaseProgressDocument struct {
	Completed    bool       `bson:"completed"`
	CompletedAt  *time.Time `bson:"completedAt,omitempty"`
	EvaluationID string     `bson:"evaluationId,omitempty"`
}

// VisitDocument は訪問予定のスキーマを表す。
type VisitDocument struct {
	ID               primitive.ObjectID               `bson:"_id"`
	UserID           string                           `bson:"userId"`
	SiteID           primitive.ObjectID               `bson:"siteId"`
	SiteName         string                           `bson:"siteName"`
	Country          string                           `bson:"country,omitempty"`
	City             string                           `bson:"city,omitempty"`
	VisitDate        time.Time                        `bson:"visitDate"`
	DateScheduled    time.Time                        `bson:"dateScheduled"`
	Status           string                           `bson:"status"`
	EnrolledInStudy  bool                             `bson:"enrolledInStudy"`
	StudyPhases      map[string]PhaseProgressDocument `bson:"studyPhases,omitempty"`
	NextPendingPhase *string                          `bson:"nextPendingPhase,omitempty"`
}

// EvaluationDocument は日記エントリのスキーマを表す。追記専用で更新は行わない。
type EvaluationDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	VisitID       primitive.ObjectID `bson:"visitId"`
	SiteID        primitive.ObjectID `bson:"siteId"`
	UserID        string             `bson:"userId"`
	Phase         string             `bson:"phase"`
	Feeling       string             `bson:"feeling"`
	Behavior      string             `bson:"behavior"`
	EmotionWheel  map[string]int     `bson:"emotionWheel,omitempty"`
	UEQSResponses map[string]int     `bson:"ueqsResponses,omitempty"`
	Comments      string             `bson:"comments,omitempty"`
	Sentiment     *float64           `bson:"sentiment,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// ACUXDocument は ACUX 性格診断結果の埋め込みドキュメント。
type ACUXDocument struct {
	Aesthetic    int    `bson:"aesthetic"`
	Cognitive    int    `bson:"cognitive"`
	Behavioral   int    `bson:"behavioral"`
	Affective    int    `bson:"affective"`
	DominantType string `bson:"dominantType"`
}

// ParticipantDocument は調査参加者のスキーマを表す。
type ParticipantDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	UserID          string             `bson:"userId"`
	EnrolledAt      time.Time          `bson:"enrolledAt"`
	ConsentGiven    bool               `bson:"consentGiven"`
	AgeGroup        string             `bson:"ageGroup,omitempty"`
	Gender          string             `bson:"gender,omitempty"`
	Nationality     string             `bson:"nationality,omitempty"`
	EducationLevel  string             `bson:"educationLevel,omitempty"`
	ACUX            *ACUXDocument      `bson:"acux,omitempty"`
	CompletedPhases map[string]bool    `bson:"completedPhases,omitempty"`
}

// FailedNotificationDocument は配送に失敗した研究 Webhook のペイロードを保持する。
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Endpoint    string             `bson:"endpoint"`
	RawPayload  string             `bson:"rawPayload"`
	LastError   string             `bson:"lastError"`
	AttemptedAt time.Time          `bson:"attemptedAt"`
}
