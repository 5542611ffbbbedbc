package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

type contextKey string

const sessionKey contextKey = "session"

// sessionFrom returns the session attached to the request context. Routes
// behind withSession always have one; optionalSession may attach an
// anonymous session instead.
func sessionFrom(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return &session.Session{}
}

// chain applies middlewares in order to a handler.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// corsMiddleware allows any origin and answers preflight requests with an
// empty 200.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// withSession requires a valid bearer token and attaches the resolved
// session to the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			renderJSON(w, http.StatusUnauthorized, apiError{Error: "Unauthorized"})
			return
		}
		sess, err := s.auth.ResolveSession(r.Context(), token)
		if err != nil {
			renderError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalSession attaches a session when a valid token is present and an
// anonymous one otherwise, leaving the gate decision to the handler. The
// provisioning endpoint uses this so its own gate order stays intact.
func (s *Server) optionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := &session.Session{}
		if token := bearerToken(r); token != "" {
			if resolved, err := s.auth.ResolveSession(r.Context(), token); err == nil {
				sess = resolved
			}
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSettled blocks callers who still owe a first password change.
// They can only change their password, read their profile or log out.
func (s *Server) requireSettled(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()).State() == session.StatePendingPasswordReset {
			renderJSON(w, http.StatusForbidden, apiError{Error: "password change required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin blocks everyone whose settled state is not admin.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()).State() != session.StateAdmin {
			renderJSON(w, http.StatusForbidden, apiError{Error: "Forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.status,
			"duration", time.Since(start).String(),
		)
	})
}
