package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sistema-gth/config"
	"sistema-gth/internal/database"
	"sistema-gth/internal/database/models"
	"sistema-gth/internal/gateway/middleware"
	"sistema-gth/internal/hr/handler"
	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.Auth.JWTSecret)

	dsn := cfg.DB.DSN()
	if cfg.DB.Driver == "sqlite" {
		dsn = cfg.DB.Path
	}
	db, err := database.NewConnection(cfg.DB.Driver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedRoles(db); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}
	if err := seedAdminUser(db); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	st := store.New(db)
	cache := handler.NewDossierCache(rdb)

	authHandler := handler.NewAuthHandler(st, rdb, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
	employeeHandler := handler.NewEmployeeHandler(st, cache)
	contractHandler := handler.NewContractHandler(st, cache)
	vacationHandler := handler.NewVacationHandler(st, cache)
	recordsHandler := handler.NewRecordsHandler(st, cache)
	certificateHandler := handler.NewCertificateHandler(st, cfg.Certificate)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(rdb))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/logout", authHandler.Logout)
		}

		employees := protected.Group("/employees")
		{
			employees.POST("", employeeHandler.Create)
			employees.GET("", employeeHandler.List)
			employees.GET("/:dni", employeeHandler.Get)
			employees.PUT("/:dni", employeeHandler.Update)
			employees.DELETE("/:dni", employeeHandler.Delete)
			employees.GET("/:dni/dossier", employeeHandler.Dossier)
			employees.GET("/:dni/certificate", certificateHandler.Generate)

			contracts := employees.Group("/:dni/contracts")
			{
				contracts.POST("", contractHandler.Create)
				contracts.GET("", contractHandler.List)
				contracts.GET("/:id", contractHandler.Get)
				contracts.PUT("/:id", contractHandler.Update)
				contracts.DELETE("/:id", contractHandler.Delete)
			}

			vacations := employees.Group("/:dni/vacations")
			{
				vacations.POST("", vacationHandler.Create)
				vacations.GET("", vacationHandler.List)
				vacations.GET("/accrual", vacationHandler.Accrual)
				vacations.GET("/:id", vacationHandler.Get)
				vacations.PUT("/:id", vacationHandler.Update)
				vacations.DELETE("/:id", vacationHandler.Delete)
			}

			recordsHandler.RegisterRoutes(employees.Group("/:dni"))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdminUser bootstraps the first ADMIN account from the environment.
// The legacy system shipped credentials as code literals; here a missing
// ADMIN_PASSWORD simply skips the seed.
func seedAdminUser(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var role models.Role
	if err := db.Where("role_name = ?", models.RoleAdmin).First(&role).Error; err != nil {
		return err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:  username,
		Email:     username + "@sistema-gth.local",
		Password:  string(pwHash),
		Firstname: "Administrador",
		Lastname:  "GTH",
		RoleID:    role.ID,
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin user %q", username)
	return nil
}
