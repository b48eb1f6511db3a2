package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	studyapp "github.com/culturatlas/culturatlas-services/api/internal/study/application"
	studydomain "github.com/culturatlas/culturatlas-services/api/internal/study/domain"
	"github.com/go-chi/chi/v5"
)

// visitCreateHandler は訪問予定を登録する。enrollInStudy は同意済み参加者にのみ効く。
func (h *Handler) visitCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		var req visitCreateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		destinationID := strings.TrimSpace(req.DestinationID)
		if destinationID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "訪問先サイトIDは必須です"})
			return
		}
		destinationName := strings.TrimSpace(req.DestinationName)
		if destinationName == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "訪問先名は必須です"})
			return
		}
		visitDate, err := time.Parse(time.RFC3339, strings.TrimSpace(req.VisitDate))
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "訪問日時の形式が不正です (RFC3339)"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		visit, err := h.visits.Schedule(ctx, studyapp.ScheduleVisitCommand{
			UserID:          user.ID,
			DestinationID:   destinationID,
			DestinationName: destinationName,
			Country:         strings.TrimSpace(req.Country),
			City:            strings.TrimSpace(req.City),
			VisitDate:       visitDate,
			EnrollInStudy:   req.EnrollInStudy,
		})
		if err != nil {
			h.logger.Printf("visit create failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "訪問予定の登録に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, h.visitDomainToPayload(*visit))
	}
}

// visitListHandler は自分の訪問一覧を返す。保留フェーズは現在時刻で再計算済み。
func (h *Handler) visitListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		visits, err := h.visits.RefreshPendingPhases(ctx, user.ID, time.Now())
		if err != nil {
			h.logger.Printf("visit list fetch failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "訪問一覧の取得に失敗しました"})
			return
		}

		items := make([]visitPayload, 0, len(visits))
		for _, visit := range visits {
			items = append(items, h.visitDomainToPayload(visit))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) visitCompleteHandler() http.HandlerFunc {
	return h.visitTransitionHandler(func(ctx context.Context, userID, visitID string) (*studydomain.ScheduledVisit, error) {
		return h.visits.Complete(ctx, userID, visitID)
	})
}

func (h *Handler) visitCancelHandler() http.HandlerFunc {
	return h.visitTransitionHandler(func(ctx context.Context, userID, visitID string) (*studydomain.ScheduledVisit, error) {
		return h.visits.Cancel(ctx, userID, visitID)
	})
}

// visitTransitionHandler は complete/cancel 共通のエラーマッピングをまとめる。
func (h *Handler) visitTransitionHandler(transition func(ctx context.Context, userID, visitID string) (*studydomain.ScheduledVisit, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		visitID := strings.TrimSpace(chi.URLParam(r, "id"))
		if visitID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "訪問IDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		visit, err := transition(ctx, user.ID, visitID)
		if err != nil {
			switch {
			case errors.Is(err, studyapp.ErrVisitNotFound):
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "訪問予定が見つかりません"})
			case errors.Is(err, studydomain.ErrVisitCancelled):
				common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "キャンセル済みの訪問は変更できません"})
			default:
				h.logger.Printf("visit transition failed visitId=%s err=%v", visitID, err)
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "訪問状態の更新に失敗しました"})
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, h.visitDomainToPayload(*visit))
	}
}
