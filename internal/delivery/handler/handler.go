package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"astrologer-service/internal/domain"
	"astrologer-service/internal/usecase"
)

type UserService interface {
	Register(ctx context.Context, in usecase.UserInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Generate(ctx context.Context, items []usecase.UserInput) (*usecase.UserBatchResult, error)
	GetByID(ctx context.Context, id string) (*domain.PopulatedUser, error)
	GetAll(ctx context.Context) ([]domain.PopulatedUser, error)
	Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.PopulatedUser, error)
	Delete(ctx context.Context, id string) error
}

type AstrologerService interface {
	Create(ctx context.Context, in usecase.AstrologerInput) (*domain.Astrologer, error)
	Generate(ctx context.Context, items []usecase.AstrologerInput) (*usecase.AstrologerBatchResult, error)
	GetAll(ctx context.Context, isTopAstro *bool) ([]domain.PopulatedAstrologer, error)
	GetByID(ctx context.Context, id string) (*domain.PopulatedAstrologer, error)
	Update(ctx context.Context, id string, upd domain.AstrologerUpdate) (*domain.Astrologer, error)
	Delete(ctx context.Context, id string) (*domain.Astrologer, error)
}

type AppointmentService interface {
	Create(ctx context.Context, in usecase.AppointmentInput) (*domain.Appointment, error)
	GetAll(ctx context.Context) ([]domain.PopulatedAppointment, error)
	GetByID(ctx context.Context, id string) (*domain.PopulatedAppointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.PopulatedAppointment, error)
	Delete(ctx context.Context, id string) error
}

// TokenParser verifies a bearer credential and decodes the caller identity.
type TokenParser interface {
	ParseToken(raw string) (userID, role string, err error)
}

type Handler struct {
	users  UserService
	astros AstrologerService
	appts  AppointmentService
	tokens TokenParser
}

func New(users UserService, astros AstrologerService, appts AppointmentService, tokens TokenParser) *Handler {
	return &Handler{users: users, astros: astros, appts: appts, tokens: tokens}
}

// RegisterRoutes mounts the REST surface. Route shapes and protection
// levels mirror the public API contract.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	authLimit := rateLimit(newIPRateLimiter(5, 10))

	users := e.Group("/api/v1/users")
	users.POST("/generate", h.GenerateUsers)
	users.POST("/register", h.RegisterUser, authLimit)
	users.POST("/login", h.LoginUser, authLimit)
	users.GET("/all", h.GetAllUsers)
	users.GET("/:id", h.GetUserByID, h.requireAuth)
	users.PUT("/:id", h.UpdateUser, h.requireAuth)
	users.DELETE("/:id", h.DeleteUser, h.requireAuth)

	astros := e.Group("/api/v1/astrologers")
	astros.POST("/create", h.CreateAstrologer)
	astros.POST("/generate", h.GenerateAstrologers)
	astros.GET("/all", h.GetAllAstrologers)
	astros.GET("/:id", h.GetAstrologerByID)
	astros.PUT("/:id", h.UpdateAstrologer)
	astros.DELETE("/:id", h.DeleteAstrologer)

	appts := e.Group("/api/v1/appointments")
	appts.POST("/create", h.CreateAppointment)
	appts.GET("/all", h.GetAllAppointments)
	appts.GET("/:id", h.GetAppointmentByID)
	appts.PUT("/:id", h.UpdateAppointmentStatus)
	appts.DELETE("/:id", h.DeleteAppointment)
}

// fail maps domain errors onto the response taxonomy: 404 for missing
// records, 400 for boundary rejections, 500 with detail otherwise.
func fail(c echo.Context, err error, notFoundMsg, serverMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": notFoundMsg})
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case errors.Is(err, domain.ErrBadCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": serverMsg, "error": err.Error()})
	}
}
