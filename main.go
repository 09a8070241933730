package main

import (
	"log"

	api "propcrm-backend/cmd/api"
	authdomain "propcrm-backend/internal/auth/domain"
	authRepo "propcrm-backend/internal/auth/repository"
	authUsecase "propcrm-backend/internal/auth/usecase"
	contactdomain "propcrm-backend/internal/contact/domain"
	contactRepo "propcrm-backend/internal/contact/repository"
	contactUsecase "propcrm-backend/internal/contact/usecase"
	dashboardUsecase "propcrm-backend/internal/dashboard/usecase"
	integrationdomain "propcrm-backend/internal/integration/domain"
	integrationRepo "propcrm-backend/internal/integration/repository"
	integrationUsecase "propcrm-backend/internal/integration/usecase"
	propertydomain "propcrm-backend/internal/property/domain"
	propertyRepo "propcrm-backend/internal/property/repository"
	propertyUsecase "propcrm-backend/internal/property/usecase"
	synclogdomain "propcrm-backend/internal/synclog/domain"
	synclogRepo "propcrm-backend/internal/synclog/repository"
	"propcrm-backend/pkg/config"
	"propcrm-backend/pkg/database"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&integrationdomain.Integration{},
		&integrationdomain.AuthState{},
		&synclogdomain.SyncLog{},
		&contactdomain.Contact{},
		&propertydomain.Property{},
		&propertydomain.RawImportRecord{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	integrationRepository := integrationRepo.NewIntegrationRepository(db)
	authStateRepository := integrationRepo.NewAuthStateRepository(db)
	syncLogRepository := synclogRepo.NewSyncLogRepository(db)
	contactRepository := contactRepo.NewContactRepository(db)
	propertyRepository := propertyRepo.NewPropertyRepository(db)
	rawImportRepository := propertyRepo.NewRawImportRepository(db)

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepository, cfg)
	integrationUc := integrationUsecase.NewIntegrationUsecase(authStateRepository, integrationRepository, cfg)
	contactUc := contactUsecase.NewContactUsecase(contactRepository, syncLogRepository, api.NewCRMSourceFactory(integrationUc), cfg)
	propertyUc := propertyUsecase.NewPropertyUsecase(propertyRepository, rawImportRepository, syncLogRepository, cfg)
	dashboardUc := dashboardUsecase.NewDashboardUsecase(contactRepository, propertyRepository, syncLogRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, integrationUc, contactUc, propertyUc, dashboardUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
