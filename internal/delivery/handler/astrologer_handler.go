package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"astrologer-service/internal/domain"
	"astrologer-service/internal/usecase"
)

func (h *Handler) CreateAstrologer(c echo.Context) error {
	var in usecase.AstrologerInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	astro, err := h.astros.Create(c.Request().Context(), in)
	if err != nil {
		return fail(c, err, "Astrologer not found", "Failed to create astrologer")
	}
	return c.JSON(http.StatusCreated, astro)
}

type generateAstrologersRequest struct {
	Astrologers []usecase.AstrologerInput `json:"astrologers"`
}

func (h *Handler) GenerateAstrologers(c echo.Context) error {
	var req generateAstrologersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input, expected an array of astrologer objects."})
	}

	result, err := h.astros.Generate(c.Request().Context(), req.Astrologers)
	if err != nil {
		return fail(c, err, "Astrologer not found", "Error generating astrologers")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":     fmt.Sprintf("%d astrologers registered successfully", len(result.Created)),
		"failed":      result.Failed,
		"astrologers": result.Created,
	})
}

func (h *Handler) GetAllAstrologers(c echo.Context) error {
	var isTopAstro *bool
	if raw := c.QueryParam("isTopAstro"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "isTopAstro must be a boolean"})
		}
		isTopAstro = &v
	}

	astros, err := h.astros.GetAll(c.Request().Context(), isTopAstro)
	if err != nil {
		return fail(c, err, "Astrologer not found", "Failed to fetch astrologers")
	}
	return c.JSON(http.StatusOK, astros)
}

func (h *Handler) GetAstrologerByID(c echo.Context) error {
	astro, err := h.astros.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, "Astrologer not found", "Error retrieving astrologer")
	}
	return c.JSON(http.StatusOK, astro)
}

func (h *Handler) UpdateAstrologer(c echo.Context) error {
	var upd domain.AstrologerUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	astro, err := h.astros.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return fail(c, err, "Astrologer not found", "Failed to update astrologer")
	}
	return c.JSON(http.StatusOK, astro)
}

func (h *Handler) DeleteAstrologer(c echo.Context) error {
	astro, err := h.astros.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, "Astrologer not found", "Failed to delete astrologer")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Astrologer deleted successfully", "astrologer": astro})
}
