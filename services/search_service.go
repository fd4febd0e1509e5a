package services

import (
	"github.com/shopspring/decimal"

	"github.com/ryanlai666/Meat-Cut/models"
)

// SearchStore is the read side of the cuts repository the browsing API
// queries against.
type SearchStore interface {
	Search(offset, limit int, filters models.CutFilters) ([]models.Cut, int64, error)
	GlobalPriceRange() (models.PriceRange, error)
	Facets() (parts []string, methods []string, err error)
}

type SearchService struct {
	cuts SearchStore
}

func NewSearchService(cuts SearchStore) *SearchService {
	return &SearchService{cuts: cuts}
}

// CutResult is one search hit, flattened for the browsing UI.
type CutResult struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	NameZh         string          `json:"name_zh"`
	Part           string          `json:"part"`
	Lean           bool            `json:"lean"`
	PriceMin       decimal.Decimal `json:"price_min"`
	PriceMax       decimal.Decimal `json:"price_max"`
	PriceMean      decimal.Decimal `json:"price_mean"`
	PriceDisplay   string          `json:"price_display"`
	Notes          string          `json:"notes"`
	Slug           string          `json:"slug"`
	ImageURL       *string         `json:"image_url"`
	CookingMethods []string        `json:"cooking_methods"`
	Dishes         []string        `json:"dishes"`
}

type SearchResponse struct {
	Results    []CutResult       `json:"results"`
	Total      int64             `json:"total"`
	PriceRange models.PriceRange `json:"price_range"`
}

type FacetsResponse struct {
	Parts          []string          `json:"parts"`
	CookingMethods []string          `json:"cooking_methods"`
	PriceRange     models.PriceRange `json:"price_range"`
}

// Search runs the filtered catalog query. The free-text query is one
// case-insensitive substring matched OR-wise across name, localized
// name and part; the price filter matches by range overlap. PriceRange
// in the response is always the global catalog min/max so the UI can
// size its slider independently of the active filters.
func (s *SearchService) Search(offset, limit int, filters models.CutFilters) (*SearchResponse, error) {
	cuts, total, err := s.cuts.Search(offset, limit, filters)
	if err != nil {
		return nil, err
	}

	global, err := s.cuts.GlobalPriceRange()
	if err != nil {
		return nil, err
	}

	results := make([]CutResult, len(cuts))
	for i := range cuts {
		results[i] = toResult(&cuts[i])
	}
	return &SearchResponse{Results: results, Total: total, PriceRange: global}, nil
}

// ListFacets returns the distinct parts and cooking methods present in
// the catalog, plus the global price range, for filter controls.
func (s *SearchService) ListFacets() (*FacetsResponse, error) {
	parts, methods, err := s.cuts.Facets()
	if err != nil {
		return nil, err
	}
	global, err := s.cuts.GlobalPriceRange()
	if err != nil {
		return nil, err
	}
	return &FacetsResponse{
		Parts:          parts,
		CookingMethods: methods,
		PriceRange:     global,
	}, nil
}

func toResult(cut *models.Cut) CutResult {
	methods := make([]string, len(cut.CookingMethods))
	for i, m := range cut.CookingMethods {
		methods[i] = m.Name
	}
	dishes := make([]string, len(cut.Dishes))
	for i, d := range cut.Dishes {
		dishes[i] = d.Name
	}

	return CutResult{
		ID:             cut.ID,
		Name:           cut.Name,
		NameZh:         cut.NameZh,
		Part:           cut.Part,
		Lean:           cut.Lean,
		PriceMin:       cut.PriceMin,
		PriceMax:       cut.PriceMax,
		PriceMean:      cut.PriceMean,
		PriceDisplay:   cut.PriceDisplay,
		Notes:          cut.Notes,
		Slug:           cut.Slug,
		// Explicit remote URL or null; the UI renders a placeholder.
		ImageURL:       cut.ImageURL,
		CookingMethods: methods,
		Dishes:         dishes,
	}
}
