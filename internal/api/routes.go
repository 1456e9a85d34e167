package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"viajei/internal/api/controllers"
	"viajei/internal/config"
	"viajei/pkg/middleware"
	"viajei/pkg/utils"
)

type RouterParams struct {
	fx.In

	Config  *config.Config
	JWT     *utils.JWTManager
	Lockout *middleware.Lockout

	Account     *controllers.AccountController
	Itinerary   *controllers.ItineraryController
	Budget      *controllers.BudgetController
	Share       *controllers.ShareController
	Explore     *controllers.ExploreController
	Rating      *controllers.RatingController
	Achievement *controllers.AchievementController
	Admin       *controllers.AdminController
	Health      *controllers.HealthController
}

func NewRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.TraceIDMiddleware(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(p.Config.Server.CORSOrigins),
	)
	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "Route not found")
	})

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	rl := p.Config.RateLimit
	authLimiter := middleware.NewRateLimiter("auth", rl.AuthRequests, rl.AuthWindow, middleware.ByClientIP)
	generationLimiter := middleware.NewRateLimiter("generation", rl.GenerationRequests, rl.GenerationWindow, middleware.ByUser)
	auth := middleware.JWTAuthMiddleware(p.JWT)

	r.GET("/health", p.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/signup", p.Lockout.Guard(), authLimiter.Middleware(), p.Account.SignUp)
	authGroup.POST("/login", p.Lockout.Guard(), authLimiter.Middleware(), p.Account.Login)
	authGroup.POST("/refresh", authLimiter.Middleware(), p.Account.Refresh)
	authGroup.POST("/logout", auth, p.Account.Logout)
	authGroup.GET("/profile", auth, p.Account.GetProfile)
	authGroup.PUT("/profile", auth, p.Account.UpdateProfile)
	authGroup.PUT("/password", auth, p.Account.UpdatePassword)
	authGroup.DELETE("/account", auth, p.Account.DeleteAccount)
	authGroup.GET("/public/:userId", p.Account.PublicProfile)

	itineraryGroup := apiGroup.Group("/itineraries", auth)
	itineraryGroup.GET("", p.Itinerary.List)
	itineraryGroup.POST("", p.Itinerary.Create)
	itineraryGroup.POST("/generate", generationLimiter.Middleware(), p.Itinerary.Generate)
	itineraryGroup.GET("/rated/list", p.Itinerary.ListRated)
	itineraryGroup.GET("/:id", p.Itinerary.Get)
	itineraryGroup.PUT("/:id", p.Itinerary.Update)
	itineraryGroup.DELETE("/:id", p.Itinerary.Delete)
	itineraryGroup.POST("/:id/duplicate", p.Itinerary.Duplicate)
	itineraryGroup.POST("/:id/collaborators", p.Itinerary.AddCollaborator)
	itineraryGroup.DELETE("/:id/collaborators/:collaboratorId", p.Itinerary.RemoveCollaborator)
	itineraryGroup.POST("/:id/photos", p.Itinerary.AddPhotos)
	itineraryGroup.GET("/:id/similar", p.Itinerary.Similar)

	itineraryGroup.POST("/:id/expenses", p.Budget.AddExpense)
	itineraryGroup.PUT("/:id/expenses/:expenseId", p.Budget.UpdateExpense)
	itineraryGroup.DELETE("/:id/expenses/:expenseId", p.Budget.DeleteExpense)
	itineraryGroup.GET("/:id/budget-summary", p.Budget.Summary)

	itineraryGroup.POST("/:id/rating", p.Rating.AddOwnerReview)
	itineraryGroup.PUT("/:id/rating", p.Rating.UpdateOwnerReview)
	itineraryGroup.DELETE("/:id/rating", p.Rating.ClearOwnerReview)

	itineraryGroup.POST("/:id/share", p.Share.CreateLink)
	itineraryGroup.DELETE("/:id/share", p.Share.Revoke)
	itineraryGroup.GET("/:id/share/qr", p.Share.QRCode)

	sharedGroup := apiGroup.Group("/shared")
	sharedGroup.GET("/:shareId", p.Share.GetShared)
	sharedGroup.POST("/:shareId/copy", auth, p.Share.CopyShared)

	exploreGroup := apiGroup.Group("/explore")
	exploreGroup.GET("/itineraries", p.Explore.Feed)
	exploreGroup.GET("/featured", p.Explore.Featured)
	exploreGroup.GET("/popular-destinations", p.Explore.PopularDestinations)
	exploreGroup.POST("/like/:id", auth, p.Explore.ToggleLike)
	exploreGroup.POST("/save/:id", auth, p.Explore.ToggleSave)
	exploreGroup.GET("/saved", auth, p.Explore.Saved)

	ratingGroup := apiGroup.Group("/ratings")
	ratingGroup.GET("/my-ratings", auth, p.Rating.MyRatings)
	ratingGroup.POST("/:id", auth, p.Rating.CreateOrUpdate)
	ratingGroup.GET("/:id/all", middleware.OptionalAuth(p.JWT), p.Rating.ListByItinerary)
	ratingGroup.GET("/:id/my-rating", auth, p.Rating.MyRating)
	ratingGroup.DELETE("/:id", auth, p.Rating.Delete)
	ratingGroup.POST("/:id/like", auth, p.Rating.ToggleLike)

	achievementGroup := apiGroup.Group("/achievements")
	achievementGroup.GET("/my-achievements", auth, p.Achievement.MyAchievements)
	achievementGroup.GET("/stats", auth, p.Achievement.Stats)
	achievementGroup.GET("/leaderboard", p.Achievement.Leaderboard)
	achievementGroup.POST("/check", auth, p.Achievement.Check)

	adminGroup := apiGroup.Group("/admin", auth, middleware.RoleMiddleware(middleware.RoleAdmin))
	adminGroup.GET("/blocked-ips", p.Admin.BlockedIPs)
}
