package handlers

import (
	"net/http"
	"time"

	"deltajournal-backend/middleware"
	"deltajournal-backend/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires the services behind the HTTP API
type RouterConfig struct {
	Data           service.DataService
	Auth           *service.AuthService
	Insights       *service.InsightService
	AllowedOrigins []string
	Now            func() time.Time
}

// NewRouter builds the gin engine with every journal route registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), RenderErrors())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	journalHandler := NewJournalHandler(cfg.Data)
	authHandler := NewAuthHandler(cfg.Auth)
	insightHandler := NewInsightHandler(cfg.Data, cfg.Insights, cfg.Now)
	statsHandler := NewStatsHandler(cfg.Data, cfg.Now)

	api := r.Group("/api")
	{
		api.GET("/backend", journalHandler.Backend)
		api.POST("/leads", journalHandler.AddLead)

		authGroup := api.Group("/auth")
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/signin", authHandler.SignIn)
		authGroup.POST("/resend", authHandler.Resend)
		authGroup.GET("/confirm", authHandler.Confirm)
		authGroup.POST("/confirm", authHandler.Confirm)
		authGroup.GET("/session", authHandler.Session)
	}

	protected := api.Group("", middleware.RequireSession(cfg.Auth, cfg.Data.IsRemote()))
	{
		protected.POST("/auth/signout", authHandler.SignOut)
		protected.GET("/auth/events", authHandler.Events)

		protected.GET("/bootstrap", journalHandler.Bootstrap)

		protected.GET("/entries", journalHandler.ListEntries)
		protected.PUT("/entries/:date", journalHandler.SaveEntry)
		protected.DELETE("/entries/:date", journalHandler.DeleteEntry)

		protected.GET("/profile", journalHandler.GetProfile)
		protected.PUT("/profile", journalHandler.SaveProfile)

		protected.GET("/quests", journalHandler.ListQuests)
		protected.POST("/quests", journalHandler.AddQuest)
		protected.PATCH("/quests/:id", journalHandler.UpdateQuest)
		protected.DELETE("/quests/:id", journalHandler.DeleteQuest)

		protected.POST("/insights/entry", insightHandler.EntryInsight)
		protected.POST("/insights/trends", insightHandler.Trends)
		protected.POST("/reports", insightHandler.Report)

		protected.GET("/stats/monthly", statsHandler.Monthly)
		protected.GET("/stats/pnl", statsHandler.PNL)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
