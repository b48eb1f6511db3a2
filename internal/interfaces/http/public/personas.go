package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	catalogdomain "github.com/culturatlas/culturatlas-services/api/internal/catalog/domain"
	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
)

func (h *Handler) personaDefinitionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		defs := h.personas.Definitions()
		items := make([]personaDefinitionPayload, 0, len(defs))
		for _, def := range defs {
			items = append(items, personaDefinitionToPayload(def))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) myPersonasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		personas, err := h.personas.PersonasForUser(ctx, user.ID)
		if err != nil {
			h.logger.Printf("persona fetch failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "ペルソナ情報の取得に失敗しました"})
			return
		}

		items := make([]userPersonaPayload, 0, len(personas))
		for _, persona := range personas {
			items = append(items, userPersonaToPayload(persona))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

// replacePersonasHandler はオンボーディング結果でペルソナセットを丸ごと置き換える。
func (h *Handler) replacePersonasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		var req replacePersonasRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		ids := make([]string, 0, len(req.Personas))
		for _, item := range req.Personas {
			ids = append(ids, item.ID)
		}
		if _, err := common.NormalizePersonaIDs(ids); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		for _, item := range req.Personas {
			// 自己申告の親和度は -5〜5 の範囲のみ受け付ける。
			if item.Value < -5 || item.Value > 5 {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "ペルソナの親和度は -5 から 5 の範囲で指定してください"})
				return
			}
		}

		personas := make([]catalogdomain.UserPersona, 0, len(req.Personas))
		for _, item := range req.Personas {
			personas = append(personas, catalogdomain.UserPersona{
				ID:          strings.ToLower(strings.TrimSpace(item.ID)),
				Title:       strings.TrimSpace(item.Title),
				Description: strings.TrimSpace(item.Description),
				Traits:      item.Traits,
				Likes:       item.Likes,
				Dislikes:    item.Dislikes,
				Icon:        strings.TrimSpace(item.Icon),
				Value:       item.Value,
				CompletedAt: item.CompletedAt,
			})
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		saved, err := h.personas.ReplacePersonas(ctx, user.ID, personas)
		if err != nil {
			h.logger.Printf("persona replace failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "ペルソナの保存に失敗しました"})
			return
		}

		items := make([]userPersonaPayload, 0, len(saved))
		for _, persona := range saved {
			items = append(items, userPersonaToPayload(persona))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}
