package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from the app config.
type RouterConfig struct {
	AllowedOrigins []string
	Version        string
	Env            string
	LogLevel       string
}

// NewLogger builds the ECS JSON logger used for access logs and as the default
// slog logger.
func NewLogger(cfg RouterConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
}

func NewRouter(cfg RouterConfig, logger *slog.Logger, JWTService jwt.Service, clockLimiter *middleware.EmployeeRateLimiter, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	r.Route("/api/v1/attendance", func(r chi.Router) {
		// Authenticated by the SSE token in the query string
		r.Get("/live", attendanceHandler.Live)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)

				r.With(middleware.RateLimitByEmployee(clockLimiter)).Post("/clock", attendanceHandler.Clock)
				r.Get("/live/token", attendanceHandler.GetLiveToken)

				r.Route("/my", func(r chi.Router) {
					r.Get("/day", attendanceHandler.MyDay)
					r.Get("/status", attendanceHandler.MyStatus)
					r.Get("/dtr", attendanceHandler.MyDTR)
					r.Get("/dtr/export", attendanceHandler.MyDTRExport)
				})
			})

			// Manager or owner only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Route("/employees/{employeeID}", func(r chi.Router) {
					r.Get("/day", attendanceHandler.EmployeeDay)
					r.Get("/status", attendanceHandler.EmployeeStatus)
					r.Get("/dtr", attendanceHandler.EmployeeDTR)
					r.Get("/dtr/export", attendanceHandler.EmployeeDTRExport)
				})
			})
		})
	})
	return r
}
