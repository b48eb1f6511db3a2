package domain

import "time"

// Evaluation is the admin read model of a submitted diary entry.
// 管理画面からは閲覧のみ。研究データの改変は許可しない。
type Evaluation struct {
	ID            string
	VisitID       string
	SiteID        string
	SiteName      string
	UserID        string
	Phase         string
	Feeling       string
	Behavior      string
	EmotionWheel  map[string]int
	UEQSResponses map[string]int
	Comments      string
	CreatedAt     time.Time
}

// FailedNotification is a research-webhook delivery that exhausted its retries
// and awaits manual review.
type FailedNotification struct {
	ID          string
	Endpoint    string
	RawPayload  string
	LastError   string
	AttemptedAt time.Time
}
