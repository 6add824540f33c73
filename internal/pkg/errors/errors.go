// Package errors 타입 기반으로 분류되는 애플리케이션 에러를 제공합니다.
//
// 모든 에러는 ErrorType으로 분류되며 Wrap 계열 함수로 원인 에러를 체인으로 연결할 수 있습니다.
// HTTP 계층은 UnderlyingType으로 응답 상태 코드를 결정하고, 북마크 제출 계층은 Is로
// 입력값 검증 실패 여부를 판별합니다.
//
//	err := errors.New(errors.InvalidInput, "작품 ID가 비어 있습니다")
//	if errors.Is(err, errors.InvalidInput) {
//	    // 400 Bad Request
//	}
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// AppError 분류(ErrorType), 메시지, 원인 에러, 생성 시점의 스택을 함께 보관하는 에러입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

// Type 에러의 타입을 반환합니다.
func (e *AppError) Type() ErrorType { return e.errType }

// Message 원인 에러를 제외한 메시지만 반환합니다.
func (e *AppError) Message() string { return e.message }

// Stack 에러가 생성된 시점의 호출 스택을 반환합니다.
func (e *AppError) Stack() []StackFrame { return e.stack }

func (e *AppError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.errType, e.message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format %+v 동사에 대해 원인 체인과 스택 트레이스를 함께 출력합니다.
// 스택은 체인의 끝(원인이 없거나 원인이 AppError가 아닌 경우)에서만 한 번 출력합니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if !s.Flag('+') {
			io.WriteString(s, e.Error())
			return
		}

		fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

		var inner *AppError
		if (e.cause == nil || !errors.As(e.cause, &inner)) && len(e.stack) > 0 {
			io.WriteString(s, "\nStack trace:")
			for _, frame := range e.stack {
				fn := frame.Function
				if idx := strings.LastIndex(fn, "/"); idx != -1 {
					fn = fn[idx+1:]
				}
				fmt.Fprintf(s, "\n\t%s:%d %s", frame.File, frame.Line, fn)
			}
		}

		if e.cause != nil {
			io.WriteString(s, "\nCaused by:\n")
			if f, ok := e.cause.(fmt.Formatter); ok {
				f.Format(s, verb)
			} else {
				fmt.Fprintf(s, "\t%v", e.cause)
			}
		}

	case 's':
		io.WriteString(s, e.Error())

	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// New 새로운 에러를 생성합니다.
func New(errType ErrorType, message string) error {
	return &AppError{errType: errType, message: message, stack: captureStack(defaultCallerSkip)}
}

// Newf 포맷 문자열로 메시지를 구성하여 새로운 에러를 생성합니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return &AppError{errType: errType, message: fmt.Sprintf(format, args...), stack: captureStack(defaultCallerSkip)}
}

// Wrap err를 원인으로 하는 새로운 에러를 생성합니다. err가 nil이면 nil을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{errType: errType, message: message, cause: err, stack: captureStack(defaultCallerSkip)}
}

// Wrapf 포맷 문자열을 사용하는 Wrap입니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &AppError{errType: errType, message: fmt.Sprintf(format, args...), cause: err, stack: captureStack(defaultCallerSkip)}
}

// Is 에러 체인 중 하나라도 errType으로 분류된 AppError가 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
	}
	return false
}

// As 표준 errors.As를 그대로 호출합니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause 에러 체인의 가장 안쪽 에러를 반환합니다.
func RootCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// UnderlyingType 에러 체인에서 가장 안쪽에 있는 AppError의 타입을 반환합니다.
// 체인에 AppError가 없으면 Unknown을 반환합니다.
//
//	err := Wrap(New(InvalidInput, "작품 ID 누락"), Internal, "제출 실패")
//	UnderlyingType(err) // InvalidInput
func UnderlyingType(err error) ErrorType {
	t := Unknown
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*AppError); ok {
			t = appErr.errType
		}
	}
	return t
}
