package auth

import (
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

const contextKeyApplication = "pixiv-bookmark/api/auth/Application"

// SetApplication 인증된 애플리케이션을 echo.Context에 저장합니다.
func SetApplication(c echo.Context, app *Application) {
	c.Set(contextKeyApplication, app)
	c.Set(httputil.ContextKeyApplicationID, app.ID)
}

// GetApplication 인증 미들웨어가 저장한 애플리케이션을 반환합니다.
func GetApplication(c echo.Context) (*Application, bool) {
	app, ok := c.Get(contextKeyApplication).(*Application)
	return app, ok && app != nil
}
