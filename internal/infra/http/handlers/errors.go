package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/http/middleware"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

const (
	msgValidationFailed = "Validation failed"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgDuplicate        = "Duplicate entry - this record already exists"
	msgBadReference     = "Referenced record not found"
	msgRequiredField    = "Required field is missing"
	msgInternal         = "Internal Server Error"
	msgSomethingWrong   = "Something went wrong"
)

// ErrorWriter is the single place use case and store errors become HTTP
// responses.
type ErrorWriter struct {
	Log        *zap.Logger
	Production bool
}

func NewErrorWriter(log *zap.Logger, production bool) ErrorWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return ErrorWriter{Log: log, Production: production}
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict:
		return http.StatusConflict
	case usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs usecase.ValidationErrors
		de    *usecase.DomainError
	)
	switch {
	case errors.As(err, &verrs):
		response.JSON(w, http.StatusBadRequest, response.Envelope{
			Success: false,
			Error:   msgValidationFailed,
			Details: []usecase.ValidationError(verrs),
		})
	case errors.As(err, &de):
		response.Error(w, domainStatus(de.Code), de.Message, "")
	case errors.Is(err, entity.ErrDuplicate):
		response.Error(w, http.StatusConflict, msgDuplicate, "")
	case errors.Is(err, entity.ErrInvalidReference):
		response.Error(w, http.StatusBadRequest, msgBadReference, "")
	case errors.Is(err, entity.ErrRequiredField):
		response.Error(w, http.StatusBadRequest, msgRequiredField, "")
	case errors.Is(err, entity.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Not Found", "")
	default:
		e.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		msg := msgSomethingWrong
		if !e.Production {
			msg = err.Error()
		}
		response.Error(w, http.StatusInternalServerError, msgInternal, msg)
	}
}

// BadBody answers a body that could not be decoded.
func (e ErrorWriter) BadBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge, "")
		return
	}
	response.Error(w, http.StatusBadRequest, msgInvalidBody, err.Error())
}
