package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	adminapp "github.com/culturatlas/culturatlas-services/api/internal/admin/application"
	mongodoc "github.com/culturatlas/culturatlas-services/api/internal/infrastructure/mongo"
	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) siteSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		category := common.CanonicalCategoryCode(queryValues.Get("category"))
		country := strings.TrimSpace(queryValues.Get("country"))
		keyword := strings.TrimSpace(queryValues.Get("keyword"))
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), 20)

		filter := adminapp.SiteFilter{Category: category, Country: country, Keyword: keyword}
		paging := adminapp.Paging{Limit: limit}

		sites, err := h.siteService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("admin site search failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "サイト一覧の取得に失敗しました"})
			return
		}

		items := make([]adminSiteResponse, 0, len(sites))
		for _, site := range sites {
			items = append(items, adminSiteDomainToResponse(site))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
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

		site, err := h.siteService.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, mongodoc.ErrNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "サイトが見つかりません"})
				return
			}
			h.logger.Printf("admin site detail fetch failed id=%s err=%v", id, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "サイト情報の取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, adminSiteDomainToResponse(*site))
	}
}

func (h *Handler) siteCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSiteCreateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		cmd, err := buildSiteCommand(req)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		site, err := h.siteService.Create(ctx, cmd)
		if err != nil {
			h.logger.Printf("admin site create failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, adminSiteCreateResponse{Site: adminSiteDomainToResponse(*site), Created: true})
	}
}

func (h *Handler) siteUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "サイトIDが指定されていません"})
			return
		}

		var req adminSiteCreateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		cmd, err := buildSiteCommand(req)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		site, err := h.siteService.Update(ctx, id, cmd)
		if err != nil {
			if errors.Is(err, mongodoc.ErrNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "サイトが見つかりません"})
				return
			}
			h.logger.Printf("admin site update failed id=%s err=%v", id, err)
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, adminSiteDomainToResponse(*site))
	}
}

func (h *Handler) siteDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "サイトIDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.siteService.Delete(ctx, id); err != nil {
			if errors.Is(err, mongodoc.ErrNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "サイトが見つかりません"})
				return
			}
			h.logger.Printf("admin site delete failed id=%s err=%v", id, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "サイトの削除に失敗しました"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// buildSiteCommand は入力の形式チェックを行い、VO 構築前のコマンドを組み立てる。
// 値の妥当性検証(座標範囲やペルソナIDの存在)はドメイン側の責務として残す。
func buildSiteCommand(req adminSiteCreateRequest) (adminapp.UpsertSiteCommand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return adminapp.UpsertSiteCommand{}, errors.New("サイト名は必須です")
	}
	country := strings.TrimSpace(req.Country)
	if country == "" {
		return adminapp.UpsertSiteCommand{}, errors.New("国名は必須です")
	}
	if strings.TrimSpace(req.Category) == "" {
		return adminapp.UpsertSiteCommand{}, errors.New("カテゴリは必須です")
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > common.MaxSiteDescriptionRunes {
		return adminapp.UpsertSiteCommand{}, fmt.Errorf("サイト説明は最大%d文字までです", common.MaxSiteDescriptionRunes)
	}
	if len(req.PhotoURLs) > common.MaxSitePhotoCount {
		return adminapp.UpsertSiteCommand{}, fmt.Errorf("写真URLは最大%d件までです", common.MaxSitePhotoCount)
	}

	return adminapp.UpsertSiteCommand{
		Name:            name,
		Description:     description,
		Category:        req.Category,
		Country:         country,
		City:            strings.TrimSpace(req.City),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Rating:          req.Rating,
		DurationMinutes: req.DurationMinutes,
		PersonaIDs:      req.PersonaIDs,
		Tags:            req.Tags,
		OfficialURL:     strings.TrimSpace(req.OfficialURL),
		PhotoURLs:       req.PhotoURLs,
	}, nil
}
