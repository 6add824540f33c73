package fetcher

import (
	"io"
	"sync"
)

const maxDrainBytes = 64 * 1024

var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// DrainAndClose 남은 응답 본문을 일정 크기까지 읽어 버린 뒤 닫습니다.
// 본문을 끝까지 읽어야 Keep-Alive 연결이 재사용됩니다.
func DrainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}
