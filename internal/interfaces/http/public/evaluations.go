package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	studyapp "github.com/culturatlas/culturatlas-services/api/internal/study/application"
	"github.com/go-chi/chi/v5"
)

// evaluationListHandler は自分が提出した全日誌エントリを返す。
func (h *Handler) evaluationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := h.evaluations.ListForUser(ctx, user.ID)
		if err != nil {
			h.logger.Printf("evaluation list fetch failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "評価一覧の取得に失敗しました"})
			return
		}

		items := make([]evaluationPayload, 0, len(entries))
		for _, entry := range entries {
			items = append(items, h.evaluationDomainToPayload(entry))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

// visitEvaluationListHandler は単一訪問に紐づくエントリを返す。他人の訪問は 404。
func (h *Handler) visitEvaluationListHandler() http.HandlerFunc {
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

		entries, err := h.evaluations.ListForVisit(ctx, user.ID, visitID)
		if err != nil {
			if errors.Is(err, studyapp.ErrVisitNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "訪問予定が見つかりません"})
				return
			}
			h.logger.Printf("visit evaluation list fetch failed visitId=%s err=%v", visitID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "評価一覧の取得に失敗しました"})
			return
		}

		items := make([]evaluationPayload, 0, len(entries))
		for _, entry := range entries {
			items = append(items, h.evaluationDomainToPayload(entry))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}
