package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	respond "github.com/mindflow/mindflow/internal/api/respond"
)

// Middleware turns a handler panic into a 500 ErrorResponse and logs the
// stack with the request ID. http.ErrAbortHandler is re-raised untouched.
func Middleware(log zerolog.Logger) func(http.Handler) http.Handler {
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
				log.Error().
					Interface("panic", rec).
					Str("req_id", w.Header().Get("X-Request-Id")).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				respond.WriteInternalError(w, "internal error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
