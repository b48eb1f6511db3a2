package public

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	"github.com/golang-jwt/jwt/v5"
)

// loginHandler はデモ用クレデンシャルを検証してアクセストークンを発行する。
// 本番の認証基盤が入るまでの暫定エンドポイントで、ユーザーは1人しか居ない。
func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.login.Username == "" || len(h.login.Secret) == 0 {
			common.WriteJSON(h.logger, w, http.StatusServiceUnavailable, map[string]string{"error": "ログイン機能が構成されていません"})
			return
		}

		var req loginRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		username := strings.TrimSpace(req.Username)
		usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.login.Username)) == 1
		passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.login.Password)) == 1
		if !usernameOK || !passwordOK {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "ユーザー名またはパスワードが違います"})
			return
		}

		now := time.Now()
		expiresAt := now.Add(h.login.TokenTTL)
		claims := jwt.RegisteredClaims{
			Issuer:    h.login.Issuer,
			Subject:   username,
			Audience:  jwt.ClaimStrings{h.login.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(h.login.Secret)
		if err != nil {
			h.logger.Printf("token signing failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "トークンの発行に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{
			AccessToken: signed,
			TokenType:   "Bearer",
			ExpiresAt:   expiresAt.In(h.location),
		})
	}
}

// verifyHandler は認証ミドルウェアを通過したユーザー情報をそのまま返す。
func (h *Handler) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, user)
	}
}
