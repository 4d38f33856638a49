package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assist-by/quantdesk/internal/domain"
)

// Response는 모든 API 응답의 공통 형태입니다
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse는 성공 응답을 보냅니다
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// AcceptedResponse는 백그라운드 작업이 시작되었음을 알립니다
func AcceptedResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusAccepted, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ErrorResponse는 에러 응답을 보냅니다
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse는 400 응답을 보냅니다
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, nil)
}

// FailureResponse는 에러 유형에 맞는 상태 코드로 응답합니다.
// 진행 중인 스캔은 409, 입력 오류는 400, 그 밖의 원격 실패는 502 입니다
func FailureResponse(c echo.Context, message string, err error) error {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, domain.ErrScanInProgress):
		status = http.StatusConflict
	case domain.KindOf(err) == domain.KindValidation:
		status = http.StatusBadRequest
	}
	return ErrorResponse(c, status, message, err.Error())
}
