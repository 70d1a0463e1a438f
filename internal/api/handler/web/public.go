package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/vietanh2810/raffle-web/internal/api/handler/v1"
	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/service"
	"github.com/vietanh2810/raffle-web/internal/view"
)

const qrSize = 256

// Home lists the public items. A filter in the query is remembered in the prefs cookie
// and reused when the visitor comes back without one.
func (h *Handler) Home(ctx *gin.Context) {
	f, err := h.publicFilter(ctx)
	if err != nil {
		h.renderError(ctx, http.StatusBadRequest, "Invalid filter.", err)
		return
	}

	items, err := h.svc.Items.ListPublic(ctx.Request.Context(), f)
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not load raffles.", fmt.Errorf("web.Home -> h.svc.Items.ListPublic -> %w", err))
		return
	}

	categories, err := h.svc.Items.Categories(ctx.Request.Context())
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not load raffles.", fmt.Errorf("web.Home -> h.svc.Items.Categories -> %w", err))
		return
	}

	h.render(ctx, http.StatusOK, "page_home", "Raffles", view.HomeView{
		Filter:      f,
		Categories:  categories,
		SortOptions: view.SortOptions,
		Items:       items,
	})
}

func (h *Handler) publicFilter(ctx *gin.Context) (domain.PublicFilter, error) {
	session := h.session(ctx)
	query := ctx.Request.URL.Query()

	switch {
	case query.Has("reset"):
		delete(session.Values, filterKey)
		h.save(ctx, session)
		return request.PublicFilter(domain.PublicFilter{}), nil

	case len(query) == 0:
		saved, _ := session.Values[filterKey].(domain.PublicFilter)
		return request.PublicFilter(saved), nil
	}

	var f domain.PublicFilter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		return domain.PublicFilter{}, err
	}
	f = request.PublicFilter(f)

	session.Values[filterKey] = f
	h.save(ctx, session)

	return f, nil
}

func (h *Handler) Item(ctx *gin.Context) {
	id, err := v1.ParseID(ctx, "itemID")
	if err != nil {
		h.renderError(ctx, http.StatusNotFound, "This raffle does not exist.", err)
		return
	}

	item, err := h.svc.Items.GetItem(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			h.renderError(ctx, http.StatusNotFound, "This raffle does not exist.", err)
			return
		}
		h.renderError(ctx, http.StatusInternalServerError, "Could not load this raffle.", fmt.Errorf("web.Item -> h.svc.Items.GetItem -> %w", err))
		return
	}

	shareURL := fmt.Sprintf("%s://%s/items/%d", scheme(ctx), ctx.Request.Host, item.ID)
	qr, err := view.QRDataURI(shareURL, qrSize)
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not load this raffle.", fmt.Errorf("web.Item -> view.QRDataURI -> %w", err))
		return
	}

	h.render(ctx, http.StatusOK, "page_item", item.Name, view.ItemView{
		Item:     item.Public(),
		ShareURL: shareURL,
		QRCode:   qr,
	})
}

func scheme(ctx *gin.Context) string {
	if ctx.Request.TLS != nil || ctx.GetHeader("X-Forwarded-Proto") == "https" {
		return "https"
	}
	return "http"
}
