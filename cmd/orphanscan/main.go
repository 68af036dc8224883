// Command orphanscan runs a single orphan sweep of the draft prefix and
// exits. Suitable for cron in deployments that disable the in-process
// worker.
package main

import (
	"context"
	"log"
	"time"

	"vendora/internal/config"
	"vendora/internal/imaging"
	"vendora/internal/repository/postgres"
	"vendora/internal/service"
	s3storage "vendora/internal/storage/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	s3Client, err := s3storage.NewS3Client(&cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize S3 client: %v", err)
	}
	storageSvc := service.NewStorageService(s3Client, &cfg.Storage)

	draftSvc := service.NewDraftService(
		postgres.NewDraftRepo(db),
		postgres.NewSupplierRepo(db),
		postgres.NewCatalogRepo(db),
		postgres.NewCategoryRepo(db),
		postgres.NewProductRepo(db),
		postgres.NewProductImageRepo(db),
		storageSvc,
		imaging.NewProcessor(),
		&cfg.Image,
		cfg.Storage.MaxUploadSizeMB,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	removed, err := draftSvc.CleanupOrphans(ctx)
	if err != nil {
		log.Fatalf("orphan scan failed: %v", err)
	}
	log.Printf("orphan scan removed %d objects in %s", removed, time.Since(start).Round(time.Millisecond))
}
