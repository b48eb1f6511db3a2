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
	"unicode/utf8"

	"github.com/culturatlas/culturatlas-services/api/internal/interfaces/http/common"
	studyapp "github.com/culturatlas/culturatlas-services/api/internal/study/application"
	studydomain "github.com/culturatlas/culturatlas-services/api/internal/study/domain"
)

type evaluationCreateRequest struct {
	VisitID       string         `json:"visitId"`
	Phase         string         `json:"phase"`
	Feeling       string         `json:"feeling"`
	Behavior      string         `json:"behavior"`
	EmotionWheel  map[string]int `json:"emotionWheel"`
	UEQSResponses map[string]int `json:"ueqsResponses"`
	Comments      string         `json:"comments"`
}

// normalize は入力をトリムし、ドメイン検証に入る前の形式チェックを行う。
// フェーズ妥当性やウィンドウ判定はアプリケーション層の仕事なのでここではやらない。
func (req *evaluationCreateRequest) normalize() error {
	req.VisitID = strings.TrimSpace(req.VisitID)
	if req.VisitID == "" {
		return errors.New("訪問IDは必須です")
	}
	req.Phase = strings.TrimSpace(req.Phase)
	if req.Phase == "" {
		return errors.New("フェーズを指定してください")
	}
	req.Feeling = strings.TrimSpace(req.Feeling)
	req.Behavior = strings.TrimSpace(req.Behavior)
	req.Comments = strings.TrimSpace(req.Comments)
	if utf8.RuneCountInString(req.Comments) > common.MaxEvaluationCommentRunes {
		return fmt.Errorf("コメントは最大%d文字までです", common.MaxEvaluationCommentRunes)
	}
	return nil
}

// evaluationCreateHandler は日誌エントリを受け付ける。受理後の研究用 Webhook 通知は
// レスポンスを待たせないようバックグラウンドで送る。
func (h *Handler) evaluationCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
		decoder.DisallowUnknownFields()
		var req evaluationCreateRequest
		if err := decoder.Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}
		if err := req.normalize(); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		phase, err := studydomain.ParsePhase(req.Phase)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不明なフェーズです: " + req.Phase})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entry, err := h.evaluations.Submit(ctx, studyapp.SubmitEvaluationCommand{
			UserID:       user.ID,
			VisitID:      req.VisitID,
			Phase:        phase,
			Feeling:      req.Feeling,
			Behavior:     req.Behavior,
			EmotionWheel: req.EmotionWheel,
			UEQS:         req.UEQSResponses,
			Comments:     req.Comments,
		}, time.Now())
		if err != nil {
			h.writeSubmitError(w, req.VisitID, err)
			return
		}

		go h.notifyEvaluationReceipt(context.Background(), *entry)

		common.WriteJSON(h.logger, w, http.StatusCreated, h.evaluationDomainToPayload(*entry))
	}
}

// writeSubmitError は提出時のドメインエラーを HTTP ステータスへ変換する。
// 二重提出(409)とウィンドウ外(422)はクライアント側で文言が分かれるため区別必須。
func (h *Handler) writeSubmitError(w http.ResponseWriter, visitID string, err error) {
	var fieldErr studydomain.FieldError
	switch {
	case errors.Is(err, studyapp.ErrVisitNotFound):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "訪問予定が見つかりません"})
	case errors.Is(err, studydomain.ErrPhaseAlreadyCompleted):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "このフェーズの評価は提出済みです"})
	case errors.Is(err, studyapp.ErrWindowClosed):
		common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, map[string]string{"error": "このフェーズの受付期間外です"})
	case errors.Is(err, studydomain.ErrNotEnrolled):
		common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, map[string]string{"error": "この訪問は調査に参加していません"})
	case errors.As(err, &fieldErr):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
			"error":  "入力内容に誤りがあります",
			"field":  fieldErr.Field,
			"detail": fieldErr.Reason,
		})
	default:
		h.logger.Printf("evaluation submit failed visitId=%s err=%v", visitID, err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "評価の保存に失敗しました"})
	}
}
