package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	catalogapp "github.com/culturatlas/culturatlas-services/api/internal/catalog/application"
	mongodoc "github.com/culturatlas/culturatlas-services/api/internal/infrastructure/mongo"
	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	"github.com/go-chi/chi/v5"
)

// siteListHandler はスコアリング済みのサイト一覧を返す。
// personas パラメータが無い匿名ユーザーには評価点フォールバックが効く。
func (h *Handler) siteListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		filter := catalogapp.SiteFilter{
			Country: strings.TrimSpace(queryValues.Get("country")),
			Keyword: strings.TrimSpace(queryValues.Get("keyword")),
		}
		if rawCategory := strings.TrimSpace(queryValues.Get("category")); rawCategory != "" {
			category := common.CanonicalCategoryCode(rawCategory)
			if !common.IsKnownCategory(category) {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "無効なカテゴリです: " + rawCategory})
				return
			}
			filter.Category = category
		}
		if rawTags := splitCSV(queryValues.Get("tags")); len(rawTags) > 0 {
			tags, err := common.NormalizeSiteTags(rawTags)
			if err != nil {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			filter.Tags = tags
		}

		personaIDs, err := common.NormalizePersonaIDs(splitCSV(queryValues.Get("personas")))
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		activeIDs, err := common.NormalizePersonaIDs(splitCSV(queryValues.Get("active")))
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), 0)

		ranked, err := h.catalog.Ranked(ctx, catalogapp.RecommendationQuery{
			Filter:           filter,
			PersonaIDs:       personaIDs,
			ActivePersonaIDs: activeIDs,
			Limit:            limit,
		})
		if err != nil {
			h.logger.Printf("site list fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "サイト一覧の取得に失敗しました"})
			return
		}

		items := make([]scoredSitePayload, 0, len(ranked))
		for _, site := range ranked {
			items = append(items, h.scoredSiteToPayload(site))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, siteListResponse{Items: items, Total: len(items)})
	}
}

func (h *Handler) siteDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "サイトIDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		site, err := h.catalog.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, mongodoc.ErrNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "サイトが見つかりません"})
				return
			}
			h.logger.Printf("site detail fetch failed id=%s err=%v", id, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "サイト情報の取得に失敗しました"})
			return
		}

		payload := siteDetailPayload{sitePayload: h.siteDomainToPayload(*site)}
		if cookie, err := r.Cookie(wishlistVisitorCookieName); err == nil {
			if visitorID, ok := h.parseWishlistVisitorCookie(cookie.Value); ok {
				wishlisted, err := h.wishlist.IsWishlisted(ctx, id, visitorID)
				if err != nil {
					h.logger.Printf("wishlist lookup failed siteId=%s err=%v", id, err)
				} else {
					payload.Wishlisted = &wishlisted
				}
			}
		}

		common.WriteJSON(h.logger, w, http.StatusOK, payload)
	}
}

// personaMatchCountsHandler はフィルタチップに出すペルソナ別の候補数を返す。
func (h *Handler) personaMatchCountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		counts, err := h.catalog.MatchCounts(ctx)
		if err != nil {
			h.logger.Printf("persona match counts fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "マッチ数の集計に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"counts": counts})
	}
}

// recommendationsHandler は保存済みペルソナでスコアリングした推薦一覧を返す。
func (h *Handler) recommendationsHandler() http.HandlerFunc {
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

		personaIDs := make([]string, 0, len(personas))
		for _, persona := range personas {
			personaIDs = append(personaIDs, persona.ID)
		}
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 20)

		ranked, err := h.catalog.Ranked(ctx, catalogapp.RecommendationQuery{
			PersonaIDs: personaIDs,
			Limit:      limit,
		})
		if err != nil {
			h.logger.Printf("recommendation fetch failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "推薦一覧の取得に失敗しました"})
			return
		}

		items := make([]scoredSitePayload, 0, len(ranked))
		for _, site := range ranked {
			items = append(items, h.scoredSiteToPayload(site))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, siteListResponse{Items: items, Total: len(items)})
	}
}
