package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"picxury_api/internal/format"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

// CatalogHandler serves the public booking catalog. Responses are cached in
// Redis when a cache is configured.
type CatalogHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
	ttl   time.Duration
}

func NewCatalogHandler(db *gorm.DB, cache *services.RedisCache, ttl time.Duration) *CatalogHandler {
	return &CatalogHandler{db: db, cache: cache, ttl: ttl}
}

// SessionTypes lists every photo session type
func (h *CatalogHandler) SessionTypes(c echo.Context) error {
	ctx := c.Request().Context()
	types, err := services.GetOrSet(h.cache, ctx, "catalog:photo_session_types", h.ttl, func() ([]models.PhotoSessionType, error) {
		var types []models.PhotoSessionType
		err := h.db.WithContext(ctx).Order("name").Find(&types).Error
		return types, err
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", types)
}

type serviceOfferView struct {
	ID             uint                   `json:"id"`
	ServiceID      uint                   `json:"service_id"`
	Name           string                 `json:"name"`
	Category       models.ServiceCategory `json:"category"`
	Price          float64                `json:"price"`
	PriceFormatted string                 `json:"price_formatted"`
}

// PhotographerServices lists the priced services a photographer offers
func (h *CatalogHandler) PhotographerServices(c echo.Context) error {
	id, err := idParam(c, "photographerId", "Fotógrafo no encontrado.")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var photographer models.Photographer
	if err := h.db.WithContext(ctx).Where("active = ?", true).First(&photographer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Fotógrafo no encontrado.")
		}
		return err
	}

	key := fmt.Sprintf("catalog:photographer:%d:services", id)
	offers, err := services.GetOrSet(h.cache, ctx, key, h.ttl, func() ([]serviceOfferView, error) {
		var rows []models.PhotographerService
		err := h.db.WithContext(ctx).
			Preload("Service").
			Where("photographer_id = ?", id).
			Order("id").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]serviceOfferView, 0, len(rows))
		for _, r := range rows {
			out = append(out, serviceOfferView{
				ID:             r.ID,
				ServiceID:      r.ServiceID,
				Name:           r.Service.Name,
				Category:       r.Service.Category,
				Price:          r.Price,
				PriceFormatted: format.Money(r.Price),
			})
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "", map[string]interface{}{
		"photographer": map[string]interface{}{
			"id":              photographer.ID,
			"name":            photographer.FullName(),
			"profile_picture": photographer.ProfilePicture,
		},
		"services": offers,
	})
}
