package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	studydomain "github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

const (
	notifyRetryAttempts = 3
	notifyRetryDelay    = 200 * time.Millisecond
)

type evaluationReceiptPayload struct {
	Type         string    `json:"type"`
	EvaluationID string    `json:"evaluationId"`
	VisitID      string    `json:"visitId"`
	SiteID       string    `json:"siteId"`
	Phase        string    `json:"phase"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// notifyEvaluationReceipt は日誌エントリの受理を研究チームの Webhook へ通知する。
// 通知は提出処理の成否に影響させない。失敗は failed_notifications に残して
// 管理画面から追跡できるようにする。
func (h *Handler) notifyEvaluationReceipt(ctx context.Context, entry studydomain.EvaluationEntry) {
	if h.webhookEndpoint == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	payload := evaluationReceiptPayload{
		Type:         "evaluation.received",
		EvaluationID: entry.ID,
		VisitID:      entry.VisitID,
		SiteID:       entry.SiteID,
		Phase:        string(entry.Phase),
		SubmittedAt:  entry.CreatedAt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("receipt payload marshal failed evaluationId=%s err=%v", entry.ID, err)
		return
	}

	if err := h.sendWebhookWithRetry(ctx, body, notifyRetryAttempts, notifyRetryDelay); err != nil {
		h.logger.Printf("receipt notify failed evaluationId=%s err=%v", entry.ID, err)
		// 送信用の ctx は期限切れの可能性があるため、記録は別のタイムアウトで行う。
		recordCtx, recordCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer recordCancel()
		h.persistNotificationFailure(recordCtx, string(body), err)
	}
}

// sendWebhookWithRetry は短い間隔で指定回数まで再送する。瞬断向けで、長期障害は
// failed_notifications 側のリカバリに任せる。
func (h *Handler) sendWebhookWithRetry(ctx context.Context, body []byte, attempts int, delay time.Duration) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := h.sendWebhook(ctx, body); err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		return nil
	}
	return lastErr
}

func (h *Handler) sendWebhook(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// persistNotificationFailure は送信できなかったペイロードを保存する。
// 保存自体の失敗はログに残すことしかできない。
func (h *Handler) persistNotificationFailure(ctx context.Context, rawPayload string, cause error) {
	if h.notifications == nil {
		return
	}
	if err := h.notifications.RecordFailure(ctx, h.webhookEndpoint, rawPayload, cause.Error()); err != nil {
		h.logger.Printf("failed notification record failed: %v", err)
	}
}
