package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
)

// Recoverer turns a handler panic into a 500 envelope. The stack is only
// exposed outside production.
func Recoverer(log *zap.Logger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				stack := string(debug.Stack())
				log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFrom(r.Context())),
					zap.String("stack", stack),
				)

				env := response.Envelope{Success: false, Error: "Internal Server Error", Message: "Something went wrong"}
				if !production {
					env.Message = fmt.Sprint(rec)
					env.Stack = stack
				}
				response.JSON(w, http.StatusInternalServerError, env)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
