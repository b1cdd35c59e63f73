package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/pontohub/ponto-backend-go/internal/config"
	"github.com/pontohub/ponto-backend-go/internal/handler/http/middleware"
	"github.com/pontohub/ponto-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler *AuthHandler,
	collaboratorHandler *CollaboratorHandler,
	attachmentHandler *AttachmentHandler,
	vendorHandler *VendorHandler,
	reportHandler *ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ponto-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// Every route below requires a session token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/auth", func(r chi.Router) {
				r.Get("/verify", authHandler.Verify)
				r.Post("/logout", authHandler.Logout)
			})

			r.Route("/colaboradores", func(r chi.Router) {
				r.Get("/", collaboratorHandler.List)
				r.Post("/", collaboratorHandler.Create)
				r.Post("/batch-cpf", collaboratorHandler.BatchByCPF)
				r.Get("/reg/{reg}", collaboratorHandler.GetByReg)
				r.Get("/cpf/{cpf}", collaboratorHandler.GetByCPF)
				r.Get("/empresa/{empresa}", collaboratorHandler.ByCompany)
				r.Get("/{id}", collaboratorHandler.GetByID)
				r.Put("/{id}", collaboratorHandler.Update)
				r.Delete("/{id}", collaboratorHandler.Delete)
			})

			r.Route("/anexos", func(r chi.Router) {
				r.Post("/upload", attachmentHandler.Upload)
				r.Post("/batch-period", attachmentHandler.BatchPeriod)
				r.Get("/por-data/{data}/{empresaID}", attachmentHandler.GetByDate)
				r.Get("/por-reg/{reg}/{data}", attachmentHandler.GetByReg)
				r.Put("/{cpf}/{data}/questions", attachmentHandler.UpdateQuestions)
				r.Delete("/{id}", attachmentHandler.Delete)
			})

			r.Route("/justificativa", func(r chi.Router) {
				r.Post("/salvar", attachmentHandler.SaveJustification)
				r.Post("/salvar-batch", attachmentHandler.SaveJustificationBatch)
				r.Post("/buscar-ids", attachmentHandler.LookupIDs)
			})

			r.Get("/relatorio/estatisticas", attachmentHandler.Stats)

			r.Get("/bancos", vendorHandler.Banks)
			r.Get("/empresas", vendorHandler.Companies)
			r.Get("/funcionarios", vendorHandler.Employees)
			r.Get("/departamentos", vendorHandler.Departments)
			r.Get("/batidas", vendorHandler.ClockEvents)

			r.Route("/horas-extras", func(r chi.Router) {
				r.Get("/", reportHandler.OvertimeByCPF)
				r.Get("/banco", reportHandler.OvertimeByCompany)
				r.Get("/pessoa", reportHandler.OvertimeByPerson)
			})

			r.Get("/machine-monitor", reportHandler.MachineMonitor)
			r.Get("/dashboard", reportHandler.Dashboard)
		})
	})

	return r
}
