package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"astrologer-service/internal/domain"
	"astrologer-service/internal/usecase"
)

func (h *Handler) RegisterUser(c echo.Context) error {
	var in usecase.UserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	user, token, err := h.users.Register(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		return fail(c, err, "User not found", "Error registering user")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type generateUsersRequest struct {
	Users []usecase.UserInput `json:"users"`
}

func (h *Handler) GenerateUsers(c echo.Context) error {
	var req generateUsersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input, expected an array of user objects."})
	}

	result, err := h.users.Generate(c.Request().Context(), req.Users)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidRole) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return fail(c, err, "User not found", "Error generating users")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("%d users registered successfully", len(result.Created)),
		"failed":  result.Failed,
		"users":   result.Created,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) LoginUser(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	user, token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// an unknown email reads the same as a wrong password
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Invalid credentials"})
		}
		return fail(c, err, "Invalid credentials", "Error logging in")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

func (h *Handler) GetAllUsers(c echo.Context) error {
	users, err := h.users.GetAll(c.Request().Context())
	if err != nil {
		return fail(c, err, "User not found", "Error fetching users")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUserByID(c echo.Context) error {
	user, err := h.users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, "User not found", "Error fetching user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var upd domain.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return fail(c, err, "User not found", "Error updating user")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User updated successfully", "user": user})
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err, "User not found", "Error deleting user")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
