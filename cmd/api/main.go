package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"salas/internal/config"
	"salas/internal/database"
	"salas/internal/domain"
	"salas/internal/middleware"
	"salas/internal/modules/rooms"
	"salas/internal/modules/schedule"
	jwtsvc "salas/internal/pkg/jwt"
	"salas/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.Room{}, &domain.Booking{}); err != nil {
		log.Fatal(err)
	}

	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	roomService := rooms.NewService(roomRepo)
	roomHandler := rooms.NewHandler(roomService)

	scheduleService := schedule.NewService(bookingRepo, roomRepo, cfg.MaxBookingDuration, cfg.LockTimeout, nil)
	scheduleHandler := schedule.NewHandler(scheduleService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Identity(j))

		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))

		roomHandler.RegisterRoutes(protected, admin)
		scheduleHandler.RegisterRoutes(protected)
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
