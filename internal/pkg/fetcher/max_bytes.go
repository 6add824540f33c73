package fetcher

import (
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
)

// ErrResponseTooLarge 응답 본문이 허용 크기를 넘었을 때 Read에서 반환됩니다.
var ErrResponseTooLarge = apperrors.New(apperrors.ExecutionFailed, "응답 본문이 허용된 최대 크기를 초과했습니다")

// MaxBytesFetcher 응답 본문에서 읽을 수 있는 크기를 제한하는 데코레이터입니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

func NewMaxBytesFetcher(delegate Fetcher, limit int64) *MaxBytesFetcher {
	return &MaxBytesFetcher{delegate: delegate, limit: limit}
}

func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil || resp == nil || resp.Body == nil || f.limit <= 0 {
		return resp, err
	}

	resp.Body = &maxBytesReader{rc: resp.Body, remaining: f.limit}

	return resp, nil
}

type maxBytesReader struct {
	rc        io.ReadCloser
	remaining int64
}

func (r *maxBytesReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		// 한계에 도달한 뒤에도 남은 데이터가 있는지 1바이트만 확인합니다.
		var one [1]byte
		n, err := r.rc.Read(one[:])
		if n > 0 {
			return 0, ErrResponseTooLarge
		}
		return 0, err
	}

	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.rc.Read(p)
	r.remaining -= int64(n)

	return n, err
}

func (r *maxBytesReader) Close() error {
	return r.rc.Close()
}
