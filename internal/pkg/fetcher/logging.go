package fetcher

import (
	"net/http"
	"time"

	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
)

// LoggingFetcher 요청 결과와 소요 시간을 기록하는 데코레이터입니다.
// URL의 민감한 쿼리 파라미터는 마스킹되어 기록됩니다.
type LoggingFetcher struct {
	delegate Fetcher
}

func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{delegate: delegate}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      RedactURL(req.URL),
		"duration": time.Since(start).String(),
	}
	if resp != nil {
		fields["status_code"] = resp.StatusCode
	}

	entry := applog.WithComponentAndFields(component, fields).WithContext(req.Context())

	// 요청 실패의 기록 수준은 호출자가 정한다.
	if err != nil {
		entry.WithError(err).Debug("HTTP 요청 실패")
		return resp, err
	}

	entry.Debug("HTTP 요청 완료")

	return resp, nil
}
