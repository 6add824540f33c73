package bookmark

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingNotifier Show 호출 내역을 기록합니다.
type recordingNotifier struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (n *recordingNotifier) Show(_ context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls = append(n.calls, [2]string{title, body})
	return n.err
}

func (n *recordingNotifier) Calls() [][2]string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([][2]string(nil), n.calls...)
}

// capturedRequest 전송된 요청의 복사본
type capturedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// captureFetcher 요청을 채널로 전달하고 지정된 응답을 돌려줍니다.
type captureFetcher struct {
	requests chan capturedRequest
	status   int
	body     string
	calls    atomic.Int32
}

func newCaptureFetcher(status int, body string) *captureFetcher {
	return &captureFetcher{requests: make(chan capturedRequest, 16), status: status, body: body}
}

func (f *captureFetcher) Do(req *http.Request) (*http.Response, error) {
	f.calls.Add(1)

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}

	f.requests <- capturedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   b,
	}

	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

// blockingFetcher release가 닫히거나 요청 Context가 끝날 때까지 반환하지 않습니다.
type blockingFetcher struct {
	started chan *http.Request
	release chan struct{}
	ctxErr  chan error
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{
		started: make(chan *http.Request, 16),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 16),
	}
}

func (f *blockingFetcher) Do(req *http.Request) (*http.Response, error) {
	f.started <- req

	select {
	case <-f.release:
		f.ctxErr <- req.Context().Err()
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	case <-req.Context().Done():
		f.ctxErr <- req.Context().Err()
		return nil, req.Context().Err()
	}
}

// countingFetcher 호출 횟수만 기록합니다.
type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Do(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, errors.New("unexpected call")
}

// parseMultipartFields Content-Type 헤더와 관계없이 본문 첫 줄의 boundary로 multipart 본문을 해석합니다.
func parseMultipartFields(t *testing.T, body []byte) map[string]string {
	t.Helper()

	firstLine, err := bufio.NewReader(bytes.NewReader(body)).ReadString('\n')
	require.NoError(t, err)
	boundary := strings.TrimPrefix(strings.TrimSpace(firstLine), "--")
	require.NotEmpty(t, boundary)

	fields := map[string]string{}
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		v, err := io.ReadAll(part)
		require.NoError(t, err)
		fields[part.FormName()] = string(v)
	}

	return fields
}
