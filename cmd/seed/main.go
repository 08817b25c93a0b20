package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"salas/internal/config"
	"salas/internal/database"
	"salas/internal/domain"
	"salas/internal/middleware"
	jwtsvc "salas/internal/pkg/jwt"
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

	weekdays := domain.WeekdaysCSV(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	rooms := []domain.Room{
		{Name: "Sala 101", Description: "Meeting room, ground floor", Capacity: 8, Status: domain.RoomAvailable, AvailableFrom: "08:00", AvailableTo: "20:00", DaysOfWeek: weekdays},
		{Name: "Sala 102", Description: "Meeting room, ground floor", Capacity: 12, Status: domain.RoomAvailable, AvailableFrom: "08:00", AvailableTo: "20:00", DaysOfWeek: weekdays},
		{Name: "Sala 201", Description: "Conference room with projector", Capacity: 30, Status: domain.RoomAvailable, AvailableFrom: "09:00", AvailableTo: "18:00", DaysOfWeek: weekdays},
		{Name: "Sala 202", Description: "Workshop space", Capacity: 20, Status: domain.RoomMaintenance, AvailableFrom: "08:00", AvailableTo: "20:00"},
	}

	for i := range rooms {
		if err := db.Where("name = ?", rooms[i].Name).FirstOrCreate(&rooms[i]).Error; err != nil {
			log.Fatalf("seed room %q: %v", rooms[i].Name, err)
		}
	}
	log.Printf("seeded %d rooms", len(rooms))

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	adminToken, err := j.GenerateToken(1, middleware.RoleAdmin)
	if err != nil {
		log.Fatal(err)
	}
	userToken, err := j.GenerateToken(2, middleware.RoleUser)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("demo admin token:", adminToken)
	fmt.Println("demo user token: ", userToken)
}
