package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shiritori/config"
	"shiritori/game"
	"shiritori/oracle"
	"shiritori/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	if len(allowedOrigins) > 0 {
		r.Use(func(ctx *gin.Context) {
			origin := ctx.Request.Header.Get("Origin")

			if origin == "" || slices.Contains(allowedOrigins, origin) {
				ctx.Next()
				return
			}
			ctx.String(http.StatusForbidden, "forbidden origin")
			ctx.Abort()
		})

		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{
				"Content-Type",
				"Upgrade",
				"Connection",
				"Sec-WebSocket-Key",
				"Sec-WebSocket-Version",
				"Sec-WebSocket-Extensions",
				"Sec-WebSocket-Protocol",
			},
		}))
	}

	return r
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	var allowedOrigins []string
	if cfg.AllowedOrigins != "" {
		allowedOrigins = strings.Split(cfg.AllowedOrigins, ",")
	}

	var recorder game.MatchRecorder
	var archive game.MatchArchive
	if cfg.PostgresURL != "" {
		repo, err := storage.NewPostgresMatchRepo(context.Background(), cfg.PostgresURL, logger)
		if err != nil {
			log.Fatal(err)
		}
		defer repo.Close()
		recorder = repo
		archive = repo
		logger.Info().Msg("match archive enabled")
	} else {
		logger.Info().Msg("POSTGRES_URL not set, match archive disabled")
	}

	judge := oracle.NewClient(cfg.GeminiAPIKey, logger)

	factory := game.NewRoomFactory(judge, cfg.WordCeiling, recorder, logger)
	lobby := game.NewLobby(factory, logger)

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	checker := game.NewEngine(judge, game.NewSelector(rand.NewSource(time.Now().UnixNano())), cfg.WordCeiling, logger)
	gameHandler := game.NewGameHandler(lobby, checker, archive, logger)

	r := CreateServer(allowedOrigins)

	r.GET("/ws", gameHandler.WebsocketHandler)
	r.POST("/api/check-hidden-rule", gameHandler.CheckHiddenRuleHandler)
	r.GET("/matches/recent", gameHandler.RecentMatchesHandler)

	logger.Info().Str("port", cfg.Port).Int("word_ceiling", cfg.WordCeiling).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
