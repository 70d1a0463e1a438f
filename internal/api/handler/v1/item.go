package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/response"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/service"
)

type ItemService interface {
	GetItem(ctx context.Context, id uint) (domain.Item, error)
	ListPublic(ctx context.Context, f domain.PublicFilter) ([]domain.PublicItem, error)
}

type ItemHandler struct {
	svc ItemService
}

func NewItemHandler(svc ItemService) *ItemHandler {
	return &ItemHandler{
		svc: svc,
	}
}

// HandleGetItems godoc
// @Summary      List raffle items
// @Tags         items
// @Produce      json
// @Param        searchTerm query  string false "case-insensitive name search"
// @Param        category   query  string false "category"
// @Param        sortBy     query  string false "newest, price_asc, price_desc or progress"
// @Success      200      {array}    domain.PublicItem
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items [get]
func (h *ItemHandler) HandleGetItems(ctx *gin.Context) {
	var f domain.PublicFilter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	items, err := h.svc.ListPublic(ctx.Request.Context(), request.PublicFilter(f))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetItems -> h.svc.ListPublic -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleGetItem godoc
// @Summary      Get a raffle item
// @Tags         items
// @Produce      json
// @Param        itemID   path       int true "item ID"
// @Success      200      {object}   domain.PublicItem
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID} [get]
func (h *ItemHandler) HandleGetItem(ctx *gin.Context) {
	id, err := ParseID(ctx, "itemID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.GetItem(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetItem -> h.svc.GetItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item.Public())
}

// ParseID reads a positive numeric path parameter.
func ParseID(ctx *gin.Context, param string) (uint, error) {
	raw := ctx.Param(param)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", param, raw)
	}

	return uint(id), nil
}
