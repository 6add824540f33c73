package service

import (
	"context"
	"sync"
)

// Service main에서 일괄적으로 시작하고 종료하는 장기 실행 서비스입니다.
//
// 호출자는 Start 이전에 serviceStopWG.Add(1)을 호출하고, 서비스는 serviceStopCtx가 취소되어
// 정리가 끝나면(또는 Start가 실패하면) serviceStopWG.Done()을 호출합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
