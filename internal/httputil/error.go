package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/homeledger/backend/internal/models"
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"no resource found for the specified ID"`
}

// NewError creates an HTTPError instance and returns it.
func NewError(c *gin.Context, status int, err error) {
	e := HTTPError{
		Error: err.Error(),
	}
	c.JSON(status, e)
}

// ErrorHandler maps a service error to its HTTP response.
func ErrorHandler(c *gin.Context, err error) {
	NewError(c, status(c, err), err)
}

// status maps the error taxonomy of the services to HTTP status codes.
// Not-found errors become 404, conflicts with existing or locked state
// 409, all other known errors are client mistakes. Unknown errors are
// logged with the request id and reported as 500.
func status(c *gin.Context, err error) int {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound

	case errors.Is(err, models.ErrMonthExists),
		errors.Is(err, models.ErrMonthReadOnly),
		errors.Is(err, models.ErrOccurrenceClosed),
		errors.Is(err, models.ErrClaimNotExpected),
		errors.Is(err, models.ErrSubmissionResolved):
		return http.StatusConflict

	case errors.Is(err, models.ErrAmountInvalid),
		errors.Is(err, models.ErrAmountPrecision),
		errors.Is(err, models.ErrAmountNotPositive),
		errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrBillingPeriodInvalid),
		errors.Is(err, models.ErrAnchorInvalid),
		errors.Is(err, models.ErrMonthInvalid),
		errors.Is(err, models.ErrOccurrenceNotClosed),
		errors.Is(err, models.ErrOccurrenceNotAdhoc),
		errors.Is(err, models.ErrSplitAmount),
		errors.Is(err, models.ErrInstanceNotLinked),
		errors.Is(err, models.ErrInstanceNotPayoff),
		errors.Is(err, models.ErrInstanceIsPayoff),
		errors.Is(err, models.ErrPayoffBalanceSign),
		errors.Is(err, models.ErrClaimConverted),
		errors.Is(err, models.ErrSubmissionStatus),
		errors.Is(err, models.ErrBalanceMissing):
		return http.StatusBadRequest
	}

	log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	return http.StatusInternalServerError
}
