// Package adaptor exposes the usecases over HTTP and websocket. All
// network failures are translated to statuses with a plain-text message
// body; clients surface that text verbatim.
package adaptor

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/utkarsh-90/Axum-Chat-Service/server/auth"
	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
	"github.com/utkarsh-90/Axum-Chat-Service/server/repository"
	"github.com/utkarsh-90/Axum-Chat-Service/server/usecase"
)

type Adaptor struct {
	auth   *usecase.AuthUsecase
	rooms  *usecase.RoomUsecase
	stream *usecase.StreamUsecase
	tokens *auth.JWTManager
}

func NewAdaptor(authUC *usecase.AuthUsecase, rooms *usecase.RoomUsecase, stream *usecase.StreamUsecase, tokens *auth.JWTManager) *Adaptor {
	return &Adaptor{auth: authUC, rooms: rooms, stream: stream, tokens: tokens}
}

// Register wires every route onto the engine.
func (a *Adaptor) Register(r *gin.Engine) {
	r.POST("/api/auth/register", a.registerHandler)
	r.POST("/api/auth/login", a.loginHandler)

	authorized := r.Group("/api", a.bearerAuth())
	authorized.GET("/auth/me", a.meHandler)
	authorized.GET("/rooms", a.listRoomsHandler)
	authorized.POST("/rooms", a.createRoomHandler)
	authorized.POST("/rooms/:id/join", a.joinRoomHandler)
	authorized.GET("/rooms/:id/messages", a.listMessagesHandler)

	r.GET("/ws/rooms/:id", a.roomStreamHandler)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (a *Adaptor) registerHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "malformed request body")
		return
	}
	user, token, err := a.auth.Register(req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, UserID: user.ID, Username: user.Username})
}

func (a *Adaptor) loginHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "malformed request body")
		return
	}
	user, token, err := a.auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, UserID: user.ID, Username: user.Username})
}

func (a *Adaptor) meHandler(c *gin.Context) {
	claims := mustClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":   claims.UserID,
		"username":  claims.Username,
		"issued_at": claims.IssuedAt,
	})
}

func (a *Adaptor) listRoomsHandler(c *gin.Context) {
	rooms, err := a.rooms.ListRooms()
	if err != nil {
		writeError(c, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	c.JSON(http.StatusOK, rooms)
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (a *Adaptor) createRoomHandler(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "malformed request body")
		return
	}
	room, err := a.rooms.CreateRoom(req.Name, mustClaims(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (a *Adaptor) joinRoomHandler(c *gin.Context) {
	room, err := a.rooms.JoinRoom(c.Param("id"), mustClaims(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (a *Adaptor) listMessagesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	messages, err := a.rooms.ListMessages(c.Param("id"), c.Query("before"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// bearerAuth validates the Authorization header and stashes the claims.
func (a *Adaptor) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.String(http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		claims, err := a.tokens.Validate(token)
		if err != nil {
			c.String(http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

const claimsKey = "auth_claims"

func mustClaims(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyCredentials),
		errors.Is(err, usecase.ErrUsernameTaken),
		errors.Is(err, usecase.ErrEmptyRoomName):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.String(http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrNotAMember):
		c.String(http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		c.String(http.StatusNotFound, "not found")
	default:
		log.Error().Err(err).Msg("request failed")
		c.String(http.StatusInternalServerError, "internal error")
	}
}
