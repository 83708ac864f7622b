package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/veselink1/quick-draw/crypto"
	"github.com/veselink1/quick-draw/domain"
)

const tokenMaxAge = 24 * time.Hour

type Service struct {
	store *Store
	jwt   *crypto.JWTManager
	log   zerolog.Logger

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

func NewService(store *Store, jwt *crypto.JWTManager, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		jwt:      jwt,
		log:      log,
		limiters: make(map[string]*rate.Limiter),
	}
}

// NewRouter assembles the gin engine: health endpoint, CORS allow-list,
// guest login and the authenticated room routes.
func NewRouter(svc *Service, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Content-Type", "Origin", "Authorization"},
		}))
	}

	v1 := r.Group("/v1")
	v1.POST("/login", svc.LoginHandler)

	rooms := v1.Group("/rooms")
	rooms.Use(svc.AuthMiddleware())
	rooms.GET("", svc.ListRoomsHandler)
	rooms.GET("/:id", svc.GetRoomHandler)

	mutating := rooms.Group("")
	mutating.Use(svc.RateLimitMiddleware())
	mutating.POST("", svc.CreateRoomHandler)
	mutating.POST("/:id/join", svc.JoinRoomHandler)
	mutating.PUT("/:id/freeze", svc.FreezeRoomHandler)
	mutating.PUT("/:id/state", svc.SetStateHandler)
	mutating.PUT("/:id/player", svc.SetPlayerStateHandler)
	mutating.PUT("/:id/turn", svc.SetTurnHandler)
	mutating.DELETE("/:id", svc.LeaveRoomHandler)

	return r
}

// AuthMiddleware verifies the bearer token and stashes the caller's
// identity on the request context.
func (s *Service) AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing-token"})
			return
		}

		id, name, err := s.jwt.Verify(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		ctx.Set("id", id)
		ctx.Set("name", name)
		ctx.Next()
	}
}

// RateLimitMiddleware throttles mutating calls per player.
func (s *Service) RateLimitMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetString("id")

		s.limitersMu.Lock()
		limiter, ok := s.limiters[id]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(25), 50)
			s.limiters[id] = limiter
		}
		s.limitersMu.Unlock()

		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate-limited"})
			return
		}
		ctx.Next()
	}
}

func (s *Service) LoginHandler(ctx *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Name == "" || len(req.Name) > 32 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-name"})
		return
	}

	player := domain.Player{ID: uuid.NewString(), Name: req.Name}
	token, err := s.jwt.Generate(player.ID, player.Name, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("token generation failed")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	s.log.Info().Str("player_id", player.ID).Str("name", player.Name).Msg("guest login")
	ctx.JSON(http.StatusOK, gin.H{"token": token, "player": player})
}

func (s *Service) ListRoomsHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"items": s.store.List()})
}

func (s *Service) GetRoomHandler(ctx *gin.Context) {
	var since int64
	if raw := ctx.Query("since_version"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			since = parsed
		}
	}

	room, err := s.store.Get(ctx.Param("id"), since)
	if errors.Is(err, domain.ErrUnchanged) {
		ctx.Status(http.StatusNotModified)
		return
	}
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, room)
}

func (s *Service) CreateRoomHandler(ctx *gin.Context) {
	owner := domain.Player{ID: ctx.GetString("id"), Name: ctx.GetString("name")}
	room := s.store.CreateRoom(owner)
	s.log.Info().Str("room_id", room.ID).Str("owner_id", owner.ID).Msg("room created")
	ctx.JSON(http.StatusCreated, room)
}

func (s *Service) JoinRoomHandler(ctx *gin.Context) {
	player := domain.Player{ID: ctx.GetString("id"), Name: ctx.GetString("name")}
	err := s.store.Join(ctx.Param("id"), player)
	if errors.Is(err, ErrAlreadyJoined) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (s *Service) FreezeRoomHandler(ctx *gin.Context) {
	if err := s.store.Freeze(ctx.Param("id"), ctx.GetString("id")); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (s *Service) SetStateHandler(ctx *gin.Context) {
	var req struct {
		State           domain.RoomState `json:"state"`
		ExpectedVersion int64            `json:"expected_version"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-state"})
		return
	}

	err := s.store.SetState(ctx.Param("id"), ctx.GetString("id"), req.State, req.ExpectedVersion)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (s *Service) SetPlayerStateHandler(ctx *gin.Context) {
	var req struct {
		PlayerID string             `json:"player_id"`
		State    domain.PlayerState `json:"state"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-state"})
		return
	}

	// Players may only publish their own submissions.
	callerID := ctx.GetString("id")
	if req.PlayerID != "" && req.PlayerID != callerID {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not-your-state"})
		return
	}

	if err := s.store.SetPlayerState(ctx.Param("id"), callerID, req.State); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (s *Service) SetTurnHandler(ctx *gin.Context) {
	var req struct {
		TurnPlayerID string `json:"turn_player_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.TurnPlayerID == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-turn-player"})
		return
	}

	err := s.store.SetTurnPlayer(ctx.Param("id"), ctx.GetString("id"), req.TurnPlayerID)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (s *Service) LeaveRoomHandler(ctx *gin.Context) {
	if err := s.store.Leave(ctx.Param("id"), ctx.GetString("id")); err != nil {
		s.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (s *Service) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRoomFrozen), errors.Is(err, domain.ErrNotInRoom):
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrUnauthorized):
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		s.log.Error().Err(err).Str("path", ctx.FullPath()).Msg("unexpected error")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
	}
}
