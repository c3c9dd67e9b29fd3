package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/config"
	"github.com/chanotai/library-lending/internal/model"
	md "github.com/chanotai/library-lending/pkg/middleware"
	"github.com/chanotai/library-lending/pkg/validate"
)

type Handler struct {
	svc       LibraryService
	jwt       config.JWT
	log       *zap.Logger
	startedAt time.Time
}

func New(svc LibraryService, jwt config.JWT, log *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		jwt:       jwt,
		log:       log,
		startedAt: time.Now(),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	e.Validator = validate.NewCustomValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(h.log)

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/api/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	e.GET("/books", h.ListBooks)
	e.GET("/books/:id", h.GetBook)

	authMW := md.JwtAuthentication([]byte(h.jwt.SigningKey), h.fetchUser)

	e.POST("/books", h.CreateBook, authMW, md.AdminOnly)
	e.PUT("/books/:id", h.UpdateBook, authMW, md.AdminOnly)
	e.DELETE("/books/:id", h.DeleteBook, authMW, md.AdminOnly)

	e.POST("/borrow", h.Borrow, authMW)
	e.POST("/return", h.Return, authMW)
	e.GET("/my-borrowed", h.MyBorrowed, authMW)
	e.GET("/history/:user_id", h.History, authMW)

	e.GET("/admin/borrowed-books", h.AllTransactions, authMW, md.AdminOnly)
	e.GET("/users", h.ListUsers, authMW, md.AdminOnly)
	e.DELETE("/users/:id", h.DeleteUser, authMW, md.AdminOnly)
	e.GET("/admin/stats", h.Stats, authMW, md.AdminOnly)

	return e
}

func (h *Handler) fetchUser(ctx context.Context, userID string) (username, role string, err error) {
	user, err := h.svc.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return user.Username, string(user.Role), nil
}

// Health godoc
// @Summary liveness and storage connectivity
// @Tags health
// @Produce json
// @Success 200 {object} model.Response
// @Router /api/health [get]
func (h *Handler) Health(c echo.Context) error {
	health := model.Health{
		Uptime:    time.Since(h.startedAt).Seconds(),
		Status:    "OK",
		Timestamp: time.Now().UnixMilli(),
		Database:  "connected",
	}
	if err := h.svc.Ping(c.Request().Context()); err != nil {
		health.Database = "disconnected"
	}
	return respond(c, http.StatusOK, "", health)
}
