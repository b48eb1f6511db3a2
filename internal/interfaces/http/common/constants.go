package common

const (
	// MaxSitePhotoCount represents the number of site photos admin can register.
	MaxSitePhotoCount = 10
	// MaxSiteDescriptionRunes limits site description length to keep payloads sane.
	MaxSiteDescriptionRunes = 2000
	// MaxEvaluationCommentRunes limits the free-form comment accepted on a diary entry.
	MaxEvaluationCommentRunes = 2000
	// MaxRequestBody limits JSON request bodies for public/admin endpoints.
	MaxRequestBody = 1 << 20
)
