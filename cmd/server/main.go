package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ahavlova/portfolio-backend/internal/config"
	"github.com/ahavlova/portfolio-backend/internal/db"
	"github.com/ahavlova/portfolio-backend/internal/goroutine"
	httpHandlers "github.com/ahavlova/portfolio-backend/internal/http/handlers"
	httpRouter "github.com/ahavlova/portfolio-backend/internal/http/router"
	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/repository"
	"github.com/ahavlova/portfolio-backend/internal/service"
	"github.com/ahavlova/portfolio-backend/internal/storage"
	"github.com/ahavlova/portfolio-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Файловое хранилище: локальный диск или S3-совместимое.
	var files storage.Storage
	var localFiles *storage.LocalStorage
	switch cfg.StorageBackend {
	case "s3":
		files, err = storage.NewS3Storage(ctx, storage.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			BaseURL:   cfg.S3.BaseURL,
			UploadTTL: cfg.UploadURLTTL,
		})
		if err != nil {
			log.Fatalf("main: не удалось подготовить S3 хранилище: %v", err)
		}
	default:
		localFiles, err = storage.NewLocalStorage(
			cfg.MediaStoragePath,
			cfg.MediaBaseURL,
			[]byte(cfg.SessionSecret),
			cfg.UploadURLTTL,
			cfg.MaxUploadSizeMB*1024*1024,
		)
		if err != nil {
			log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
		}
		files = localFiles
	}

	// Репозитории.
	projectRepo := repository.NewProjectRepository(dbConn)
	photoRepo := repository.NewPhotoRepository(dbConn)
	galleryRepo := repository.NewClientGalleryRepository(dbConn)
	clientPhotoRepo := repository.NewClientPhotoRepository(dbConn)
	selectionRepo := repository.NewSelectionRepository(dbConn)

	// Вебсокеты: живая лента выбора для админки.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Сервисы.
	sessions := service.NewSessionManager(cfg.SessionSecret, cfg.AdminUsername, cfg.AdminPasswordHash, cfg.SessionTTL)
	projects := service.NewProjectService(projectRepo, photoRepo, files)
	galleries := service.NewGalleryService(galleryRepo, clientPhotoRepo, selectionRepo, files)
	selections := service.NewSelectionService(selectionRepo, hub)
	uploads := service.NewUploadService(files, http.DefaultClient, photoRepo, clientPhotoRepo, 4)
	invoices := service.NewInvoiceService(cfg.Invoice)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(sessions, cfg.Env == "production")
	projectHandler := httpHandlers.NewProjectHandler(projects)
	galleryHandler := httpHandlers.NewGalleryHandler(galleries, uploads)
	selectionHandler := httpHandlers.NewSelectionHandler(selections)
	mediaHandler := httpHandlers.NewMediaHandler(uploads, localFiles)
	invoiceHandler := httpHandlers.NewInvoiceHandler(invoices)
	wsHandler := httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, sessions, authHandler, projectHandler, galleryHandler, selectionHandler, mediaHandler, invoiceHandler, wsHandler, healthHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала. ListenAndServe возвращается
	// сразу после вызова Shutdown, поэтому main ждёт done: иначе процесс
	// выйдет раньше, чем дольются отложенные записи выбора.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
		if err := selections.Flush(shutdownCtx); err != nil {
			log.Printf("main: не все записи выбора досланы: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
	<-done
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
