package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/pontohub/ponto-backend-go/internal/config"
	appHTTP "github.com/pontohub/ponto-backend-go/internal/handler/http"
	"github.com/pontohub/ponto-backend-go/internal/pkg/database"
	"github.com/pontohub/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontohub/ponto-backend-go/internal/pkg/secullum"
	"github.com/pontohub/ponto-backend-go/internal/pkg/storage"
	"github.com/pontohub/ponto-backend-go/internal/repository/postgresql"
	attachmentService "github.com/pontohub/ponto-backend-go/internal/service/attachment"
	attendanceService "github.com/pontohub/ponto-backend-go/internal/service/attendance"
	authService "github.com/pontohub/ponto-backend-go/internal/service/auth"
	collaboratorService "github.com/pontohub/ponto-backend-go/internal/service/collaborator"
	"github.com/pontohub/ponto-backend-go/internal/service/directory"
	reportService "github.com/pontohub/ponto-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()

	// The server starts even when the database is down; SQL-backed
	// routes answer 503 until the retry loop connects.
	db := database.NewPostgreSQLDBWithRetry(ctx, cfg.DatabaseURL())

	fileStorage, err := storage.NewContainerStorage(
		cfg.Storage.BasePath,
		cfg.Storage.BaseURL,
		cfg.Storage.Container,
	)
	if err != nil {
		log.Fatal("Failed to initialize blob storage:", err)
	}

	collaboratorRepo := postgresql.NewCollaboratorRepository(db)
	attachmentRepo := postgresql.NewAttachmentRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionExpiration)
	vendorClient := secullum.NewClient(cfg.Secullum)

	directorySvc := directory.NewService(vendorClient, nil, nil)
	directorySvc.StartRenewal(ctx)

	reconciler := attendanceService.NewService(cfg.Report.StandardShiftMinutes, nil)
	reportSvc := reportService.NewService(directorySvc, reconciler, cfg.Report.Workers, nil)
	collaboratorSvc := collaboratorService.NewService(collaboratorRepo)
	attachmentSvc := attachmentService.NewService(attachmentRepo, fileStorage, nil)
	authSvc := authService.NewService(vendorClient, jwtService, nil)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewCollaboratorHandler(collaboratorSvc),
		appHTTP.NewAttachmentHandler(attachmentSvc),
		appHTTP.NewVendorHandler(directorySvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
