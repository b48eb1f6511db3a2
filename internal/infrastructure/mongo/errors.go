package mongo

import (
	"errors"
	"time"
)

// ErrNotFound はドキュメント不在を表すリポジトリ共通のエラー。
// ドライバの ErrNoDocuments を上位レイヤーに漏らさないために変換する。
var ErrNotFound = errors.New("document not found")

func zeroTimeIfNil(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
