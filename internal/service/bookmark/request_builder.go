package bookmark

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
)

const (
	// Endpoint 북마크 추가 API. 요청마다 바뀌지 않습니다.
	Endpoint = "https://app-api.pixiv.net/v2/illust/bookmark/add"

	// formContentType 기존 클라이언트가 multipart 본문과 함께 보내던 Content-Type
	formContentType = "application/x-www-form-urlencoded"

	restrictPublic = "public"
)

type requestBuilder struct {
	userAgent            string
	multipartContentType bool
}

// build POST 요청을 생성합니다. 본문은 multipart/form-data로 illust_id, restrict 두 필드를 담습니다.
func (b requestBuilder) build(ctx context.Context, r Request) (*http.Request, error) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("illust_id", r.ArtworkID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문(illust_id) 작성에 실패했습니다")
	}
	if err := mw.WriteField("restrict", restrictPublic); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문(restrict) 작성에 실패했습니다")
	}
	if err := mw.Close(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문 마무리에 실패했습니다")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint, &body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "북마크 추가 요청 생성에 실패했습니다")
	}

	contentType := formContentType
	if b.multipartContentType {
		contentType = mw.FormDataContentType()
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Authorization", "Bearer "+r.AccessToken)

	return req, nil
}
