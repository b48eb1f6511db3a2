package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/culturatlas/culturatlas-services/api/internal/admin/application"
	mongodoc "github.com/culturatlas/culturatlas-services/api/internal/infrastructure/mongo"
	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	"github.com/go-chi/chi/v5"
)

// evaluationListHandler は提出済み日誌エントリの一覧を返す。読み取り専用。
func (h *Handler) evaluationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryValues := r.URL.Query()
		filter := adminapp.EvaluationFilter{
			SiteID:  strings.TrimSpace(queryValues.Get("siteId")),
			VisitID: strings.TrimSpace(queryValues.Get("visitId")),
			Phase:   strings.TrimSpace(queryValues.Get("phase")),
		}
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), 0)
		paging := adminapp.Paging{Limit: limit}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		evaluations, err := h.evaluationService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("admin evaluation list fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "評価一覧の取得に失敗しました"})
			return
		}

		items := make([]adminEvaluationResponse, 0, len(evaluations))
		for _, evaluation := range evaluations {
			items = append(items, adminEvaluationDomainToResponse(evaluation))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) evaluationDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "評価IDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		evaluation, err := h.evaluationService.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, mongodoc.ErrNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "評価が見つかりません"})
				return
			}
			h.logger.Printf("admin evaluation detail fetch failed id=%s err=%v", id, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "評価情報の取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, adminEvaluationDomainToResponse(*evaluation))
	}
}

// failedNotificationListHandler は再送しきれなかった Webhook 通知を一覧する。
func (h *Handler) failedNotificationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 0)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		notifications, err := h.evaluationService.FailedNotifications(ctx, adminapp.Paging{Limit: limit})
		if err != nil {
			h.logger.Printf("failed notification list fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "通知失敗一覧の取得に失敗しました"})
			return
		}

		items := make([]adminFailedNotificationResponse, 0, len(notifications))
		for _, notification := range notifications {
			items = append(items, adminFailedNotificationToResponse(notification))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) failedNotificationDismissHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "通知IDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.evaluationService.DismissNotification(ctx, id); err != nil {
			if errors.Is(err, mongodoc.ErrNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "通知が見つかりません"})
				return
			}
			h.logger.Printf("failed notification dismiss failed id=%s err=%v", id, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "通知の削除に失敗しました"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
