package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shareit/shareit-service/internal/model"
	md "github.com/shareit/shareit-service/pkg/middleware"
)

func (h *Handler) AddItem(c echo.Context) error {
	ownerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	var req model.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	item, err := h.itemSvc.Add(c.Request().Context(), ownerID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	ownerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	var req model.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.itemSvc.Update(c.Request().Context(), ownerID, itemID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) GetItem(c echo.Context) error {
	requesterID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	details, err := h.itemSvc.Get(c.Request().Context(), itemID, requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) ListOwnerItems(c echo.Context) error {
	ownerID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	views, err := h.itemSvc.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) SearchItems(c echo.Context) error {
	items, err := h.itemSvc.Search(c.Request().Context(), c.QueryParam("text"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddComment(c echo.Context) error {
	authorID, err := md.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	var req model.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	comment, err := h.itemSvc.AddComment(c.Request().Context(), itemID, authorID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}
