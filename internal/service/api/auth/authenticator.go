// Package auth 북마크 API를 호출하는 클라이언트 애플리케이션을 인증합니다.
package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/httputil"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/darkkaiser/pixiv-bookmark/pkg/strutil"
)

const component = "api.auth"

// Application 설정에 등록된 클라이언트 애플리케이션입니다.
type Application struct {
	ID          string
	Title       string
	Description string

	appKey string
}

// Authenticator application_id와 app_key 쌍을 검증합니다.
// 생성 이후에는 읽기만 하므로 여러 고루틴에서 동시에 사용할 수 있습니다.
type Authenticator struct {
	applications map[string]*Application
}

// NewAuthenticator 설정에 등록된 애플리케이션 목록으로 Authenticator를 생성합니다.
func NewAuthenticator(applications []config.ApplicationConfig) *Authenticator {
	apps := make(map[string]*Application, len(applications))
	for _, a := range applications {
		apps[a.ID] = &Application{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			appKey:      a.AppKey,
		}
	}

	return &Authenticator{
		applications: apps,
	}
}

// Authenticate 등록된 애플리케이션이고 app_key가 일치하면 해당 애플리케이션을 반환합니다.
// 실패하면 401 에러를 반환합니다.
func (a *Authenticator) Authenticate(applicationID, appKey string) (*Application, error) {
	app, ok := a.applications[applicationID]
	if !ok {
		return nil, httputil.NewUnauthorizedError(fmt.Sprintf("접근이 허용되지 않은 application_id(%s)입니다", applicationID))
	}

	if subtle.ConstantTimeCompare([]byte(app.appKey), []byte(appKey)) != 1 {
		applog.WithComponentAndFields(component, applog.Fields{
			"application_id":   applicationID,
			"received_app_key": strutil.Mask(appKey),
		}).Warn("app_key 불일치")

		return nil, httputil.NewUnauthorizedError(fmt.Sprintf("app_key가 유효하지 않습니다 (application_id: %s)", applicationID))
	}

	return app, nil
}
