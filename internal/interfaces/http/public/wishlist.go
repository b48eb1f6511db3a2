package public

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	wishlistVisitorCookieName = "ca_wishlist_visitor"
	wishlistVisitorCookieTTL  = 180 * 24 * time.Hour
)

// wishlistToggleHandler は匿名ウィッシュリストのオン/オフを切り替える。
// ログイン不要で使えるよう、訪問者は署名付き Cookie で識別する。
func (h *Handler) wishlistToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteID := strings.TrimSpace(chi.URLParam(r, "id"))
		if siteID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "サイトIDが指定されていません"})
			return
		}

		var req wishlistRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		visitorID, _ := h.ensureWishlistVisitorID(w, r)
		if visitorID == "" {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "訪問者の識別に失敗しました"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		count, err := h.wishlist.Toggle(ctx, siteID, visitorID, req.Wishlisted)
		if err != nil {
			h.logger.Printf("wishlist toggle failed siteId=%s err=%v", siteID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "ウィッシュリストの更新に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, wishlistResponse{
			SiteID:        siteID,
			Wishlisted:    req.Wishlisted,
			WishlistCount: count,
		})
	}
}

// ensureWishlistVisitorID は検証済みの訪問者IDを取り出し、無ければ発行する。
// 戻り値の bool は新規発行かどうか。
func (h *Handler) ensureWishlistVisitorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(wishlistVisitorCookieName); err == nil {
		if visitorID, ok := h.parseWishlistVisitorCookie(cookie.Value); ok {
			return visitorID, false
		}
	}

	visitorID := uuid.NewString()
	value := h.signWishlistVisitorValue(visitorID, time.Now())
	http.SetCookie(w, &http.Cookie{
		Name:     wishlistVisitorCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(wishlistVisitorCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   h.wishlistCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return visitorID, true
}

// signWishlistVisitorValue は "v=<id>&ts=<unix>" に HMAC-SHA256 署名を付けた Cookie 値を作る。
func (h *Handler) signWishlistVisitorValue(visitorID string, now time.Time) string {
	payload := fmt.Sprintf("v=%s&ts=%d", visitorID, now.Unix())
	mac := hmac.New(sha256.New, h.wishlistCookieSecret)
	mac.Write([]byte(payload))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "&sig=" + signature
}

// parseWishlistVisitorCookie は署名と有効期限を検証して訪問者IDを取り出す。
// 改ざんや期限切れは単に「Cookie なし」と同じ扱いにして再発行させる。
func (h *Handler) parseWishlistVisitorCookie(value string) (string, bool) {
	visitorID, timestamp, signature, err := splitWishlistCookie(value)
	if err != nil {
		return "", false
	}

	payload := fmt.Sprintf("v=%s&ts=%d", visitorID, timestamp)
	mac := hmac.New(sha256.New, h.wishlistCookieSecret)
	mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, provided) {
		return "", false
	}

	issuedAt := time.Unix(timestamp, 0)
	if time.Since(issuedAt) > wishlistVisitorCookieTTL {
		return "", false
	}

	return visitorID, true
}

func splitWishlistCookie(value string) (visitorID string, timestamp int64, signature string, err error) {
	parts := strings.Split(value, "&")
	if len(parts) != 3 {
		return "", 0, "", errors.New("unexpected cookie format")
	}
	for _, part := range parts {
		switch {
		case strings.HasPrefix(part, "v="):
			visitorID = strings.TrimPrefix(part, "v=")
		case strings.HasPrefix(part, "ts="):
			timestamp, err = strconv.ParseInt(strings.TrimPrefix(part, "ts="), 10, 64)
			if err != nil {
				return "", 0, "", err
			}
		case strings.HasPrefix(part, "sig="):
			signature = strings.TrimPrefix(part, "sig=")
		default:
			return "", 0, "", errors.New("unexpected cookie segment")
		}
	}
	if visitorID == "" || timestamp == 0 || signature == "" {
		return "", 0, "", errors.New("incomplete cookie value")
	}
	return visitorID, timestamp, signature, nil
}
