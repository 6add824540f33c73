package fetcher

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// HTTPFetcher *http.Client를 감싼 기본 Fetcher 구현체입니다.
type HTTPFetcher struct {
	client *http.Client

	timeout   time.Duration
	proxyURL  string
	transport http.RoundTripper
}

// Option HTTPFetcher 생성 옵션
type Option func(*HTTPFetcher)

// WithTimeout 요청 전체(연결, 헤더, 본문 수신)에 대한 제한 시간을 설정합니다.
func WithTimeout(timeout time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// WithProxy 프록시 서버를 설정합니다. 빈 문자열이면 환경 변수(HTTP_PROXY 등)를 따릅니다.
func WithProxy(proxyURL string) Option {
	return func(f *HTTPFetcher) {
		f.proxyURL = proxyURL
	}
}

// WithTransport 테스트 등에서 Transport를 직접 지정할 때 사용합니다. WithProxy보다 우선합니다.
func WithTransport(transport http.RoundTripper) Option {
	return func(f *HTTPFetcher) {
		f.transport = transport
	}
}

// NewHTTPFetcher 옵션을 적용한 HTTPFetcher를 생성합니다.
func NewHTTPFetcher(opts ...Option) (*HTTPFetcher, error) {
	f := &HTTPFetcher{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(f)
	}

	if f.timeout < 0 {
		return nil, apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 타임아웃은 0 이상이어야 합니다: %s", f.timeout))
	}

	transport := f.transport
	if transport == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		if f.proxyURL != "" {
			u, err := url.Parse(f.proxyURL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return nil, apperrors.New(apperrors.InvalidInput, fmt.Sprintf("프록시 URL 형식이 올바르지 않습니다: '%s'", RedactURLString(f.proxyURL)))
			}
			tr.Proxy = http.ProxyURL(u)
		}
		transport = tr
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}

	return f, nil
}

func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

// Close 유휴 연결을 정리합니다.
func (f *HTTPFetcher) Close() {
	f.client.CloseIdleConnections()
}
