package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"voyago/cmd/fx/accountfx"
	"voyago/cmd/fx/activityfx"
	"voyago/cmd/fx/controllersfx"
	"voyago/cmd/fx/dashboardfx"
	"voyago/cmd/fx/dbfx"
	"voyago/cmd/fx/destinationfx"
	"voyago/cmd/fx/feedbackfx"
	"voyago/cmd/fx/generationfx"
	"voyago/cmd/fx/itineraryfx"
	"voyago/cmd/fx/loggerfx"
	"voyago/cmd/fx/memcachefx"
	"voyago/cmd/fx/signalsfx"
	"voyago/cmd/fx/tagsfx"
	"voyago/internal/api/controllers"
	"voyago/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	app := fx.New(
		loggerfx.Module,
		dbfx.Module,
		memcachefx.Module,
		generationfx.Module,
		signalsfx.Module,
		accountfx.Module,
		activityfx.Module,
		tagsfx.Module,
		destinationfx.Module,
		itineraryfx.Module,
		dashboardfx.Module,
		feedbackfx.Module,
		controllersfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	itineraryController *controllers.ItineraryController,
	activityController *controllers.ActivityController,
	tagsController *controllers.TagController,
	destinationController *controllers.DestinationController,
	dashboardController *controllers.DashboardController,
	feedbackController *controllers.FeedbackController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r,
		accountController,
		itineraryController,
		activityController,
		tagsController,
		destinationController,
		dashboardController,
		feedbackController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	itineraryController *controllers.ItineraryController,
	activityController *controllers.ActivityController,
	tagsController *controllers.TagController,
	destinationController *controllers.DestinationController,
	dashboardController *controllers.DashboardController,
	feedbackController *controllers.FeedbackController) {

	accountsGroup := r.Group("/accounts")
	accountsGroup.POST("/register", accountController.Register)
	accountsGroup.POST("/login", accountController.Login)
	accountsGroup.GET("/me", middleware.JWTAuthMiddleware(), accountController.GetProfile)

	itinerariesGroup := r.Group("/itineraries")
	itinerariesGroup.Use(middleware.JWTAuthMiddleware())
	itinerariesGroup.POST("/generate", itineraryController.GenerateItinerary)
	itinerariesGroup.GET("/get-my-itineraries", itineraryController.ListMyItineraries)
	itinerariesGroup.GET("/get-itinerary-details/:itineraryId", itineraryController.GetItineraryDetails)

	activitiesGroup := r.Group("/activities")
	activitiesGroup.GET("/search", activityController.SearchActivities)
	activitiesGroup.GET("/list", activityController.ListActivities)
	activitiesGroup.GET("/get-activity-by-id/:activityId", activityController.GetActivityById)
	activitiesGroup.POST("/upsert", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"), activityController.UpsertActivity)

	tagsGroup := r.Group("/tags")
	tagsGroup.GET("/list", tagsController.ListAllTagsHandler)
	tagsGroup.POST("/create", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"), tagsController.CreateTagHandler)

	destinationsGroup := r.Group("/destinations")
	destinationsGroup.GET("/list", destinationController.ListDestinationsHandler)
	destinationsGroup.GET("/search", destinationController.SearchDestinationsHandler)

	dashboardGroup := r.Group("/dashboard")
	dashboardGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	dashboardGroup.GET("/stats", dashboardController.GetStats)

	feedbackGroup := r.Group("/feedback")
	feedbackGroup.Use(middleware.JWTAuthMiddleware())
	feedbackGroup.POST("/add-feedback/:itineraryId", feedbackController.AddFeedbackHandler)
	feedbackGroup.GET("/list-feedback/:itineraryId", feedbackController.ListFeedbackHandler)
}
