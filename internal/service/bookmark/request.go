package bookmark

import (
	"strings"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
)

// Request 북마크 추가 요청 1건입니다. 저장되지 않으며 Submit 호출 동안만 사용됩니다.
type Request struct {
	// ArtworkID pixiv 작품 ID. illust_id 폼 필드로 전송됩니다.
	ArtworkID string

	// ArtworkTitle, ArtworkArtist 알림 문구에만 사용됩니다.
	ArtworkTitle  string
	ArtworkArtist string

	// AccessToken pixiv OAuth 액세스 토큰. Authorization 헤더로 전송됩니다.
	AccessToken string
}

// normalized 전송에 사용되는 값의 앞뒤 공백을 제거한 사본을 반환합니다.
func (r Request) normalized() Request {
	r.ArtworkID = strings.TrimSpace(r.ArtworkID)
	r.AccessToken = strings.TrimSpace(r.AccessToken)
	return r
}

// Validate 요청을 전송하기 위해 반드시 필요한 값이 있는지 확인합니다.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ArtworkID) == "" {
		return apperrors.New(apperrors.InvalidInput, "작품 ID(artwork_id)가 비어 있습니다")
	}
	if strings.TrimSpace(r.AccessToken) == "" {
		return apperrors.New(apperrors.InvalidInput, "액세스 토큰(access_token)이 비어 있습니다")
	}
	return nil
}
