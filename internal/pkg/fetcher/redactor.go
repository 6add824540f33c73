package fetcher

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/darkkaiser/pixiv-bookmark/pkg/strutil"
)

var (
	sensitiveKeys = []string{
		"token", "auth", "key", "secret", "password", "passwd", "signature",
		"access_token", "refresh_token", "api_key", "app_key", "client_secret",
	}

	sensitiveSuffixes = []string{"_token", "_secret", "_key", "_password"}

	sensitiveHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie", "X-App-Key"}
)

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if slices.Contains(sensitiveKeys, k) {
		return true
	}
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(k, suffix) {
			return true
		}
	}
	return false
}

// RedactURL URL의 사용자 정보와 민감한 쿼리 파라미터를 마스킹한 문자열을 반환합니다.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u

	if u.User != nil {
		if _, has := u.User.Password(); has {
			ru.User = url.UserPassword(u.User.Username(), "xxxxx")
		} else if u.User.Username() != "" {
			ru.User = url.User("xxxxx")
		}
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, "xxxxx")
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

// RedactURLString 파싱에 실패하면 원문 대신 마스킹된 문자열을 반환합니다.
func RedactURLString(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strutil.Mask(raw)
	}
	return RedactURL(u)
}

// RedactHeaders 인증 관련 헤더 값을 마스킹한 복사본을 반환합니다.
func RedactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}

	masked := h.Clone()
	for _, key := range sensitiveHeaders {
		if v := masked.Get(key); v != "" {
			masked.Set(key, strutil.Mask(v))
		}
	}

	return masked
}
