// Package handler /api/v1 엔드포인트의 요청 처리기를 제공합니다.
package handler

import (
	"strings"

	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/validator"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/auth"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/httputil"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/bookmark"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/contract"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
)

const component = "api.handler.v1"

// BookmarkRequest POST /api/v1/bookmarks 요청 본문
type BookmarkRequest struct {
	ApplicationID string `json:"application_id" example:"pixiv-viewer"`
	ArtworkID     string `json:"artwork_id" validate:"required,numeric" example:"123"`
	ArtworkTitle  string `json:"artwork_title" example:"Sunset"`
	ArtworkArtist string `json:"artwork_artist" example:"Alice"`
	AccessToken   string `json:"access_token" validate:"required,printascii"`
}

type Handler struct {
	submitter contract.BookmarkSubmitter
}

func NewHandler(submitter contract.BookmarkSubmitter) *Handler {
	if submitter == nil {
		panic("v1.NewHandler: BookmarkSubmitter는 필수입니다")
	}

	return &Handler{
		submitter: submitter,
	}
}

// AddBookmarkHandler pixiv 작품 북마크 추가 요청을 접수합니다.
//
// 요청은 백그라운드에서 pixiv로 전송되며, 응답은 전송 결과와 무관하게 접수 즉시 202로 반환됩니다.
//
//	@Summary		작품 북마크 추가
//	@Description	진행 알림을 표시하고 pixiv에 북마크 추가 요청을 보냅니다. 전송 결과는 응답에 포함되지 않습니다.
//	@Tags			Bookmark
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			request	body		BookmarkRequest	true	"북마크 요청"
//	@Success		202		{object}	httputil.SuccessResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		401		{object}	httputil.ErrorResponse
//	@Failure		415		{object}	httputil.ErrorResponse
//	@Failure		429		{object}	httputil.ErrorResponse
//	@Failure		503		{object}	httputil.ErrorResponse
//	@Router			/api/v1/bookmarks [post]
func (h *Handler) AddBookmarkHandler(c echo.Context) error {
	req := new(BookmarkRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError("잘못된 요청 형식입니다")
	}

	req.ArtworkID = strings.TrimSpace(req.ArtworkID)
	req.AccessToken = strings.TrimSpace(req.AccessToken)

	if err := validator.Struct(req); err != nil {
		return httputil.NewBadRequestError(validator.FormatValidationError(err))
	}

	// 헤더(X-Application-Id)로 인증된 경우 본문의 application_id는 생략할 수 있지만, 값이 있다면 일치해야 합니다.
	if app, ok := auth.GetApplication(c); ok {
		if req.ApplicationID == "" {
			req.ApplicationID = app.ID
		} else if req.ApplicationID != app.ID {
			return httputil.NewBadRequestError("본문의 application_id가 인증된 애플리케이션과 일치하지 않습니다")
		}
	}

	err := h.submitter.Submit(c.Request().Context(), bookmark.Request{
		ArtworkID:     req.ArtworkID,
		ArtworkTitle:  req.ArtworkTitle,
		ArtworkArtist: req.ArtworkArtist,
		AccessToken:   req.AccessToken,
	})
	if err != nil {
		return httputil.FromError(err)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"application_id": req.ApplicationID,
		"artwork_id":     req.ArtworkID,
		"request_id":     c.Response().Header().Get(echo.HeaderXRequestID),
	}).Info("북마크 요청 접수")

	return httputil.Accepted(c, "북마크 요청이 접수되었습니다")
}
