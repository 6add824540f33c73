// Package fetcher 외부 HTTP API 호출을 위한 Fetcher 인터페이스와 구현체를 제공합니다.
//
// 구현체들은 데코레이터 형태로 조합됩니다.
//
//	f := fetcher.New(fetcher.WithTimeout(30*time.Second))
//	// LoggingFetcher -> MaxBytesFetcher -> HTTPFetcher
package fetcher

import (
	"net/http"
)

const component = "fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
// 반환된 응답의 Body는 호출자가 닫아야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultMaxBytes 응답 본문에서 읽을 수 있는 최대 크기
const DefaultMaxBytes int64 = 1 << 20

// New 로깅과 응답 크기 제한이 적용된 기본 Fetcher를 생성합니다.
func New(opts ...Option) (Fetcher, error) {
	hf, err := NewHTTPFetcher(opts...)
	if err != nil {
		return nil, err
	}
	return NewLoggingFetcher(NewMaxBytesFetcher(hf, DefaultMaxBytes)), nil
}
