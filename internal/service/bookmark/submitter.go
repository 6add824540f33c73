// Package bookmark pixiv 작품을 계정 북마크에 추가하는 요청을 전송합니다.
//
// Submit은 진행 알림을 표시하고 pixiv 앱 API로 POST 요청 1건을 보낸 뒤, 응답을 기다리지 않고
// 즉시 반환합니다. 요청의 성공 여부는 호출자에게 전달되지 않으며 디버그 로그에만 남습니다.
package bookmark

import (
	"context"
	"io"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/fetcher"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	component = "bookmark"

	// DefaultRequestTimeout 전송 1건에 허용되는 최대 시간
	DefaultRequestTimeout = 30 * time.Second

	// maxErrorBodyBytes 실패 응답에서 에러 메시지를 찾기 위해 읽는 최대 크기
	maxErrorBodyBytes = 64 * 1024
)

// ErrClosed Close 이후 Submit이 호출되면 반환됩니다.
var ErrClosed = apperrors.New(apperrors.Unavailable, "북마크 전송기가 이미 종료되었습니다")

// Notifier 진행 알림을 표시하는 대상입니다.
type Notifier interface {
	Show(ctx context.Context, title, body string) error
}

// Options Submitter 생성 옵션
type Options struct {
	// OSRelease, DeviceModel User-Agent의 단말 정보
	OSRelease   string
	DeviceModel string

	// RequestTimeout 0 이하이면 DefaultRequestTimeout을 사용합니다.
	RequestTimeout time.Duration

	// MultipartContentType true이면 본문 형식에 맞는 multipart Content-Type을 전송합니다.
	MultipartContentType bool
}

// Submitter 북마크 추가 요청을 전송합니다. 여러 고루틴에서 동시에 사용할 수 있습니다.
type Submitter struct {
	notifier Notifier
	fetcher  fetcher.Fetcher
	builder  requestBuilder
	timeout  time.Duration

	mu     sync.Mutex
	closed bool

	wg sync.WaitGroup
}

// NewSubmitter Submitter를 생성합니다.
func NewSubmitter(notifier Notifier, f fetcher.Fetcher, opts Options) *Submitter {
	if notifier == nil {
		panic("bookmark: Notifier는 필수입니다")
	}
	if f == nil {
		panic("bookmark: Fetcher는 필수입니다")
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Submitter{
		notifier: notifier,
		fetcher:  f,
		builder: requestBuilder{
			userAgent:            UserAgent(opts.OSRelease, opts.DeviceModel),
			multipartContentType: opts.MultipartContentType,
		},
		timeout: timeout,
	}
}

// Submit 알림을 표시하고 북마크 추가 요청을 백그라운드로 전송한 뒤 즉시 반환합니다.
//
// ArtworkID나 AccessToken이 비어 있으면 알림 표시와 요청 생성 없이 InvalidInput 에러를 반환합니다.
// 전송 결과(네트워크 오류, 비정상 상태 코드 포함)는 반환값에 영향을 주지 않습니다.
// ctx가 취소되어도 이미 시작된 전송은 중단되지 않습니다.
func (s *Submitter) Submit(ctx context.Context, r Request) error {
	r = r.normalized()
	if err := r.Validate(); err != nil {
		return err
	}

	if !s.acquire() {
		return ErrClosed
	}

	if err := s.notifier.Show(ctx, NoticeTitle, NoticeBody(r)); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"artwork_id": r.ArtworkID,
			"error":      err,
		}).Warn("북마크 진행 알림 표시에 실패했습니다")
	}

	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)

	req, err := s.builder.build(dispatchCtx, r)
	if err != nil {
		cancel()
		s.wg.Done()
		return err
	}

	go s.dispatch(req, r.ArtworkID, cancel)

	return nil
}

// acquire 종료되지 않았다면 진행 중인 전송 수를 하나 늘립니다.
func (s *Submitter) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.wg.Add(1)

	return true
}

func (s *Submitter) dispatch(req *http.Request, artworkID string, cancel context.CancelFunc) {
	defer s.wg.Done()
	defer cancel()

	logger := applog.WithComponentAndFields(component, applog.Fields{
		"artwork_id": artworkID,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(applog.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("북마크 추가 요청 전송 중 panic이 발생했습니다")
		}
	}()

	start := time.Now()

	resp, err := s.fetcher.Do(req)
	if err != nil {
		logger.WithFields(applog.Fields{
			"duration": time.Since(start).String(),
			"error":    err,
		}).Debug("북마크 추가 요청 전송에 실패했습니다 (결과는 무시됩니다)")
		return
	}
	defer fetcher.DrainAndClose(resp.Body)

	fields := applog.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start).String(),
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		logger.WithFields(fields).Debug("북마크 추가 요청이 완료되었습니다")
		return
	}

	if msg := errorMessage(resp.Body); msg != "" {
		fields["pixiv_error"] = msg
	}
	logger.WithFields(fields).Debug("pixiv가 북마크 추가 요청을 거부했습니다 (결과는 무시됩니다)")
}

// errorMessage pixiv 앱 API 에러 응답({"error": {"user_message": ..., "message": ...}})에서 메시지를 꺼냅니다.
func errorMessage(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || !gjson.ValidBytes(b) {
		return ""
	}

	for _, path := range []string{"error.user_message", "error.message", "error.reason"} {
		if v := gjson.GetBytes(b, path).String(); v != "" {
			return v
		}
	}

	return ""
}

// Close 새 요청을 받지 않도록 하고 진행 중인 전송이 끝날 때까지 기다립니다.
// ctx가 먼저 만료되면 Timeout 에러를 반환하며, 남은 전송은 각자의 제한 시간이 지나면 종료됩니다.
func (s *Submitter) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return apperrors.Wrap(ctx.Err(), apperrors.Timeout, "진행 중인 북마크 전송이 끝나기 전에 종료 대기 시간이 만료되었습니다")
	}
}
