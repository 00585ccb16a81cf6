package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/logger"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

var (
	notFoundErrors = []error{
		hall.ErrHallNotFound,
		hall.ErrSeatNotFound,
		event.ErrEventNotFound,
		customer.ErrCustomerNotFound,
		booking.ErrBookingNotFound,
	}
	conflictErrors = []error{
		booking.ErrSeatUnavailable,
		booking.ErrInvalidTransition,
		booking.ErrStatusChanged,
		customer.ErrEmailAlreadyTaken,
		hall.ErrHallInUse,
		event.ErrEventHasBookings,
		hall.ErrSeatAlreadyExists,
		application.ErrSeatBusy,
	}
	badRequestErrors = []error{
		hall.ErrSeatNotInHall,
		hall.ErrNameRequired,
		hall.ErrNameTooLong,
		hall.ErrInvalidCapacity,
		hall.ErrInvalidRows,
		hall.ErrInvalidSeatsPerRow,
		hall.ErrCapacityMismatch,
		hall.ErrRowRequired,
		hall.ErrInvalidSeatNumber,
		event.ErrEventNameRequired,
		event.ErrEventNameTooLong,
		event.ErrStartsAtRequired,
		event.ErrEventInPast,
		event.ErrInvalidBasePrice,
		event.ErrHallRequired,
		customer.ErrInvalidFirstName,
		customer.ErrInvalidLastName,
		customer.ErrInvalidEmail,
		customer.ErrInvalidPhone,
		booking.ErrInvalidStatus,
		report.ErrUnknownKind,
	}
)

func matchAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// StatusCode はドメインエラーをHTTPステータスに対応付ける
func StatusCode(err error) int {
	switch {
	case matchAny(err, notFoundErrors):
		return http.StatusNotFound
	case matchAny(err, conflictErrors):
		return http.StatusConflict
	case matchAny(err, badRequestErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HTTPError はサービス層のエラーを echo.HTTPError に変換する
func HTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	code := StatusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "内部サーバーエラー"
	}
	return echo.NewHTTPError(code, message).SetInternal(err)
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := HTTPError(err)
	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(he.Code)
	}

	if he.Code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", he.Code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(he.Code, ErrorResponse{Error: message, Code: he.Code}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
