package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	studyapp "github.com/culturatlas/culturatlas-services/api/internal/study/application"
	studydomain "github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

// studyEnrollHandler は調査参加登録を受け付ける。同意なしは 422、二重登録は 409。
func (h *Handler) studyEnrollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		var req enrollRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		cmd := studyapp.EnrollCommand{
			UserID:         user.ID,
			ConsentGiven:   req.ConsentGiven,
			AgeGroup:       strings.TrimSpace(req.AgeGroup),
			Gender:         strings.TrimSpace(req.Gender),
			Nationality:    strings.TrimSpace(req.Nationality),
			EducationLevel: strings.TrimSpace(req.EducationLevel),
		}
		if req.ACUXScores != nil {
			cmd.ACUXScores = &studyapp.ACUXScores{
				Aesthetic:  req.ACUXScores.Aesthetic,
				Cognitive:  req.ACUXScores.Cognitive,
				Behavioral: req.ACUXScores.Behavioral,
				Affective:  req.ACUXScores.Affective,
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		participant, err := h.study.Enroll(ctx, cmd, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, studyapp.ErrAlreadyEnrolled):
				common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "すでに調査へ参加登録済みです"})
			case errors.Is(err, studydomain.ErrConsentRequired):
				common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, map[string]string{"error": "調査への参加には同意が必要です"})
			default:
				h.logger.Printf("study enroll failed userId=%s err=%v", user.ID, err)
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "参加登録に失敗しました"})
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, h.participantDomainToPayload(*participant))
	}
}

func (h *Handler) studyParticipantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		participant, err := h.study.Participant(ctx, user.ID)
		if err != nil {
			h.logger.Printf("participant fetch failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "参加者情報の取得に失敗しました"})
			return
		}
		if participant == nil {
			common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "調査に参加していません"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, h.participantDomainToPayload(*participant))
	}
}

// studyAnalyticsHandler は集計結果を返す。未参加・同意なしの場合は JSON の null を返す。
// null は「表示するデータがない」の表現であってエラーではない。
func (h *Handler) studyAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		analytics, err := h.study.Analytics(ctx, user.ID)
		if err != nil {
			h.logger.Printf("analytics compute failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "分析結果の集計に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, analytics)
	}
}

// studyExportHandler は分析エクスポートをファイルダウンロードとして返す。
func (h *Handler) studyExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		export, err := h.study.Export(ctx, user.ID, time.Now())
		if err != nil {
			h.logger.Printf("analytics export failed userId=%s err=%v", user.ID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "エクスポートの生成に失敗しました"})
			return
		}
		if export == nil {
			common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "エクスポートできる調査データがありません"})
			return
		}

		filename := fmt.Sprintf("study-analytics-%s.json", export.GeneratedAt.In(h.location).Format("20060102-150405"))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		common.WriteJSON(h.logger, w, http.StatusOK, export)
	}
}
