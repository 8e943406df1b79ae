package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gojira-holdings/validator-web/pkg/httpkit"
	"github.com/gojira-holdings/validator-web/web/api"
	"github.com/gojira-holdings/validator-web/web/portfolio"
)

const GetPortfolioRoute = http.MethodGet + " " + "/api/portfolio"

// Sentinel errors
var (
	ErrPortfolioQueryFailed = errors.New("failed to query portfolio")
)

type GetPortfolio struct {
	finder portfolio.Finder
}

func NewGetPortfolio(finder portfolio.Finder) *GetPortfolio {
	return &GetPortfolio{
		finder: finder,
	}
}

func (h *GetPortfolio) AddRoutes(m *http.ServeMux) {
	m.Handle(GetPortfolioRoute, httpkit.HandlerFunc(h.GetPortfolio))
}

func (h *GetPortfolio) GetPortfolio(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	items, err := h.finder.ListItems(r.Context())
	if err != nil {
		return httpkit.JsonError(api.InternalServerError(fmt.Errorf("%w: %w", ErrPortfolioQueryFailed, err)))
	}

	resp := make([]api.PortfolioItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, api.PortfolioItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			WebsiteURL:  item.WebsiteURL,
			Category:    item.Category,
		})
	}

	return httpkit.JSON(resp)
}
