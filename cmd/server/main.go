package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendora/internal/config"
	"vendora/internal/email/noop"
	"vendora/internal/email/ses"
	"vendora/internal/handler"
	"vendora/internal/imaging"
	"vendora/internal/port"
	"vendora/internal/repository/postgres"
	"vendora/internal/router"
	"vendora/internal/service"
	s3storage "vendora/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	supplierRepo := postgres.NewSupplierRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	productRepo := postgres.NewProductRepo(db)
	imageRepo := postgres.NewProductImageRepo(db)
	draftRepo := postgres.NewDraftRepo(db)
	userRepo := postgres.NewUserRepo(db)
	cartRepo := postgres.NewCartRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	storageSvc := service.NewStorageService(s3Client, &cfg.Storage)

	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSender(&cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, &cfg.JWT)
	catalogSvc := service.NewCatalogService(supplierRepo, catalogRepo, categoryRepo)
	productSvc := service.NewProductService(productRepo, imageRepo, storageSvc)
	draftSvc := service.NewDraftService(
		draftRepo, supplierRepo, catalogRepo, categoryRepo,
		productRepo, imageRepo, storageSvc, imaging.NewProcessor(),
		&cfg.Image, cfg.Storage.MaxUploadSizeMB,
	)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, emailSender)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	productH := handler.NewProductHandler(productSvc)
	draftH := handler.NewDraftHandler(draftSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	mediaH := handler.NewMediaHandler(storageSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, catalogH, productH, draftH, cartH, orderH, mediaH, healthH)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var worker *service.OrphanScanWorker
	if cfg.Orphan.Enabled {
		worker = service.NewOrphanScanWorker(draftSvc, cfg.Orphan.ScanInterval)
		worker.Start(ctx)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	cancel()
	if worker != nil {
		worker.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
