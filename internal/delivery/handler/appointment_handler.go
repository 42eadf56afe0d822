package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"astrologer-service/internal/usecase"
)

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in usecase.AppointmentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	appt, err := h.appts.Create(c.Request().Context(), in)
	if err != nil {
		return fail(c, err, "Appointment not found", "Failed to create appointment")
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetAllAppointments(c echo.Context) error {
	appts, err := h.appts.GetAll(c.Request().Context())
	if err != nil {
		return fail(c, err, "Appointment not found", "Failed to fetch appointments")
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) GetAppointmentByID(c echo.Context) error {
	appt, err := h.appts.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, "Appointment not found", "Error retrieving appointment")
	}
	return c.JSON(http.StatusOK, appt)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid input"})
	}

	appt, err := h.appts.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return fail(c, err, "Appointment not found", "Failed to update appointment")
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	if err := h.appts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err, "Appointment not found", "Failed to delete appointment")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment deleted successfully"})
}
