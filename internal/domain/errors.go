package domain

import (
	"errors"
	"fmt"
)

// ErrorKind는 엔진이 구분하는 세 가지 실패 유형입니다
type ErrorKind int

const (
	// KindTransport는 네트워크/파싱 실패입니다
	KindTransport ErrorKind = iota
	// KindValidation은 요청 전에 로컬에서 걸러진 입력 오류입니다
	KindValidation
	// KindRemote는 서버가 응답 본문의 error 필드로 보고한 실패입니다
	KindRemote
)

// String은 ErrorKind의 문자열 표현을 반환합니다
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

var (
	ErrScanInProgress = fmt.Errorf("스캔이 이미 진행 중입니다")
	ErrUnknownFilter  = fmt.Errorf("알 수 없는 필터 값입니다")
)

// Error는 작업 이름과 실패 유형을 함께 담는 에러입니다
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// Error는 error 인터페이스를 구현합니다
func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

// Unwrap은 내부 에러를 반환합니다
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError는 새로운 Error를 생성합니다
func NewError(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// RemoteMessage는 서버가 보고한 에러 메시지를 그대로 반환합니다
func RemoteMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRemote {
		return e.Err.Error(), true
	}
	return "", false
}

// KindOf는 에러의 유형을 반환합니다. 분류되지 않은 에러는 전송 실패로 봅니다
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}
