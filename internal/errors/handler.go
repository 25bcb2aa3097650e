package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Common error types following RFC 7807
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeRateLimit   = "/errors/rate-limit"
	TypeInternal    = "/errors/internal"
	TypeServiceDown = "/errors/service-unavailable"
	TypeTimeout     = "/errors/timeout"
)

// Domain-specific error types
const (
	TypeSchema           = "/errors/data/schema"
	TypeDataIntegrity    = "/errors/data/integrity"
	TypeJoinAmbiguity    = "/errors/data/join-ambiguity"
	TypeInsufficientData = "/errors/data/insufficient"
	TypeParsing          = "/errors/data/unreadable"
	TypeStorage          = "/errors/storage"
	TypeConfig           = "/errors/config"
)

type problemSpec struct {
	status int
	kind   string
	title  string
}

// appErrorProblems maps AppError types to HTTP problems. Errors caused by the
// snapshot content are 422; the request itself was fine.
var appErrorProblems = map[ErrorType]problemSpec{
	ErrTypeSchema:           {http.StatusUnprocessableEntity, TypeSchema, "Invalid Table Schema"},
	ErrTypeDataIntegrity:    {http.StatusUnprocessableEntity, TypeDataIntegrity, "Unparseable Data"},
	ErrTypeJoinAmbiguity:    {http.StatusUnprocessableEntity, TypeJoinAmbiguity, "Ambiguous Join Key"},
	ErrTypeInsufficientData: {http.StatusUnprocessableEntity, TypeInsufficientData, "Insufficient Data"},
	ErrTypeParsing:          {http.StatusInternalServerError, TypeParsing, "Snapshot Unreadable"},
	ErrTypeStorage:          {http.StatusInternalServerError, TypeStorage, "Storage Error"},
	ErrTypeValidation:       {http.StatusBadRequest, TypeValidation, "Validation Failed"},
	ErrTypeNotFound:         {http.StatusNotFound, TypeNotFound, "Resource Not Found"},
	ErrTypeConfig:           {http.StatusInternalServerError, TypeConfig, "Configuration Error"},
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := requestID(r)
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ToProblem(r.URL.Path)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	return ErrInternalServer.ToProblem(r.URL.Path)
}

func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	spec, ok := appErrorProblems[appErr.Type]
	if !ok {
		spec = problemSpec{http.StatusInternalServerError, TypeInternal, "Internal Server Error"}
	}

	detail := appErr.Message
	if spec.status >= http.StatusInternalServerError && !h.includeStack {
		detail = "An unexpected error occurred while processing your request"
	}

	problem := NewProblemDetails(spec.status, spec.kind, spec.title, detail, r.URL.Path).
		WithExtension("error_code", string(appErr.Type))
	if spec.status < http.StatusInternalServerError {
		for k, v := range appErr.Context {
			problem.WithExtension(k, v)
		}
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := requestID(r)

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := ErrNotFound.ToProblem(r.URL.Path).WithExtension("trace_id", requestID(r))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeValidation,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", requestID(r))

	render.Render(w, r, problem)
}

// Recovery returns middleware that turns panics into RFC 7807 responses
func (h *ErrorHandler) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.HandlePanic(w, r, rec)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
