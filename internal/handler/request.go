package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shareit/shareit-service/internal/model"
	md "github.com/shareit/shareit-service/pkg/middleware"
)

func (h *Handler) CreateRequest(c echo.Context) error {
	requestorID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	var req model.CreateItemRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	request, err := h.requestSvc.Create(c.Request().Context(), requestorID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, request)
}

func (h *Handler) ListOwnRequests(c echo.Context) error {
	requestorID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	requests, err := h.requestSvc.ListOwn(c.Request().Context(), requestorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) ListOtherRequests(c echo.Context) error {
	requestorID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	from, size := 0, 0
	if raw := c.QueryParam("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from parameter")
		}
		from = v
	}
	if raw := c.QueryParam("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid size parameter")
		}
		size = v
	}
	requests, err := h.requestSvc.ListOthers(c.Request().Context(), requestorID, from, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) GetRequest(c echo.Context) error {
	requesterID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "requestId")
	if err != nil {
		return err
	}
	request, err := h.requestSvc.Get(c.Request().Context(), requestID, requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, request)
}
