package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aliautos/backend/auth"
	"github.com/aliautos/backend/controllers"
	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/middleware"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
	"github.com/aliautos/backend/provision"
	"github.com/aliautos/backend/store"
	"github.com/aliautos/backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx := context.Background()

	db, err := database.Open(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	bus := notify.NewBus()
	st := store.New(db, bus)
	sessions := auth.NewManager(st, bus, utils.JWTSecret())

	if err := st.SeedAdmin(ctx); err != nil {
		log.Fatal(err)
	}
	if err := st.SeedSampleCars(ctx); err != nil {
		log.Fatal(err)
	}

	uploader, err := utils.NewUploaderFromEnv(ctx)
	if err != nil {
		log.Fatal(err)
	}
	validator := utils.NewImageValidator()

	var provisioner *provision.Client
	if url := os.Getenv("PROVISION_URL"); url != "" {
		provisioner = provision.NewClient(url)
	}

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST("/auth/register", controllers.Register(sessions))
	r.POST("/auth/login", controllers.Login(sessions))
	r.POST("/auth/logout", controllers.Logout(sessions))

	r.GET("/cars", controllers.GetCars(st))
	r.GET("/cars/:id", controllers.GetCar(st))
	r.POST("/contact-messages", controllers.CreateContactMessage(st))

	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(sessions))
	{
		authed.GET("/auth/me", controllers.Me())
		authed.GET("/visits", controllers.GetVisits(st))
		authed.POST("/visits", middleware.RequireRoles(models.RoleUser), controllers.CreateVisit(st))
		authed.PATCH("/visits/:id/cancel", controllers.CancelVisit(st))
	}

	staff := r.Group("/staff")
	staff.Use(middleware.AuthMiddleware(sessions))
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleFrontDesk))
	{
		staff.PATCH("/visits/:id/complete", controllers.CompleteVisit(st))
		staff.GET("/contact-messages", controllers.GetContactMessages(st))
		staff.PATCH("/contact-messages/:id/read", controllers.MarkContactMessageRead(st))
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(sessions))
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/cars", controllers.AddCar(st, uploader, validator))
		admin.PATCH("/cars/:id", controllers.UpdateCar(st, uploader, validator))
		admin.DELETE("/cars/:id", controllers.DeleteCar(st))

		admin.GET("/staff", controllers.GetStaff(st))
		admin.POST("/staff", controllers.CreateStaff(st, provisioner))
		admin.PATCH("/staff/:id", controllers.UpdateStaff(st))
		admin.DELETE("/staff/:id", controllers.DeleteStaff(st))

		admin.GET("/users", controllers.GetUsers(st))
		admin.POST("/users/me/password", controllers.ChangeMyPassword(st))
	}

	// Server listens on 0.0.0.0:8080 unless PORT overrides it.
	r.Run()
}
