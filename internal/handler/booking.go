package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shareit/shareit-service/internal/model"
	md "github.com/shareit/shareit-service/pkg/middleware"
)

func (h *Handler) CreateBooking(c echo.Context) error {
	bookerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	var req model.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	booking, err := h.bookingSvc.Create(c.Request().Context(), bookerID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *Handler) DecideBooking(c echo.Context) error {
	ownerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid approved parameter")
	}
	booking, err := h.bookingSvc.Decide(c.Request().Context(), bookingID, ownerID, approved)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *Handler) GetBooking(c echo.Context) error {
	requesterID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	booking, err := h.bookingSvc.Get(c.Request().Context(), bookingID, requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *Handler) ListBookerBookings(c echo.Context) error {
	bookerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookingSvc.ListForBooker(c.Request().Context(), bookerID, c.QueryParam("state"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *Handler) ListOwnerBookings(c echo.Context) error {
	ownerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookingSvc.ListForOwner(c.Request().Context(), ownerID, c.QueryParam("state"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bookings)
}
