package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"PriceTrack/internal/domain/models"
	domrepo "PriceTrack/internal/domain/repository"
	"PriceTrack/pkg/cache"
	xhttp "PriceTrack/pkg/http"
	applogger "PriceTrack/pkg/logger"
)

// PriceHandler serves the read API over the raw and derived collections.
type PriceHandler struct {
	obs     domrepo.ObservationStore
	derived domrepo.DerivedStore
	cache   cache.Service
	ttl     time.Duration
	l       *applogger.Logger
}

// NewPriceHandler creates the read API handler. cacheSvc may be nil to
// serve every request straight from the store.
func NewPriceHandler(
	obs domrepo.ObservationStore,
	derived domrepo.DerivedStore,
	cacheSvc cache.Service,
	ttl time.Duration,
	l *applogger.Logger,
) *PriceHandler {
	return &PriceHandler{obs: obs, derived: derived, cache: cacheSvc, ttl: ttl, l: l}
}

// RegisterRoutes registers the API routes.
func (h *PriceHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/geographies", h.Geographies)
	g.GET("/products", h.Products)
	g.GET("/changes", h.Changes)
	g.GET("/streaks", h.Streaks)
}

// Health reports store connectivity.
func (h *PriceHandler) Health(c echo.Context) error {
	if err := h.obs.Health(c.Request().Context()); err != nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Geographies lists the distinct geographies present in the table.
func (h *PriceHandler) Geographies(c echo.Context) error {
	ctx := c.Request().Context()

	var geos []string
	err := h.cached(ctx, "api:geographies", &geos, func() (interface{}, error) {
		return h.obs.DistinctGeographies(ctx)
	})
	if err != nil {
		h.l.Error("list geographies failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not list geographies").WithError(err))
	}
	return xhttp.ListResponse(c, geos, int64(len(geos)))
}

// Products lists the distinct products for one geography.
func (h *PriceHandler) Products(c echo.Context) error {
	req := new(models.ProductsRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	ctx := c.Request().Context()

	var products []string
	key := fmt.Sprintf("api:products:%s", req.Geo)
	err := h.cached(ctx, key, &products, func() (interface{}, error) {
		return h.obs.DistinctProducts(ctx, req.Geo)
	})
	if err != nil {
		h.l.Error("list products failed", applogger.String("geo", req.Geo), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not list products").WithError(err))
	}
	if len(products) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no products for geography %q", req.Geo))
	}
	return xhttp.ListResponse(c, products, int64(len(products)))
}

// Changes returns stored month-over-month changes for a geography,
// optionally narrowed to one product.
func (h *PriceHandler) Changes(c echo.Context) error {
	req := new(models.ChangesRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	ctx := c.Request().Context()

	var changes []models.PriceChange
	key := fmt.Sprintf("api:changes:%s:%s:%d", req.Geo, req.Product, req.Limit)
	err := h.cached(ctx, key, &changes, func() (interface{}, error) {
		return h.derived.ChangesFor(ctx, req.Geo, req.Product, req.Limit)
	})
	if err != nil {
		h.l.Error("list changes failed", applogger.String("geo", req.Geo), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not list changes").WithError(err))
	}
	return xhttp.ListResponse(c, changes, int64(len(changes)))
}

// Streaks returns stored active streaks for a geography, optionally
// narrowed by product or direction.
func (h *PriceHandler) Streaks(c echo.Context) error {
	req := new(models.StreaksRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	ctx := c.Request().Context()

	var streaks []models.PriceStreak
	key := fmt.Sprintf("api:streaks:%s:%s:%s:%d", req.Geo, req.Product, req.Type, req.Limit)
	err := h.cached(ctx, key, &streaks, func() (interface{}, error) {
		return h.derived.StreaksFor(ctx, req.Geo, req.Product, req.Type, req.Limit)
	})
	if err != nil {
		h.l.Error("list streaks failed", applogger.String("geo", req.Geo), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not list streaks").WithError(err))
	}
	return xhttp.ListResponse(c, streaks, int64(len(streaks)))
}

// cached reads dest from the cache, falling back to load and filling
// the cache on a miss. Cache errors other than a miss only log; the
// store remains the source of truth.
func (h *PriceHandler) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if h.cache != nil {
		err := h.cache.Get(ctx, key, dest)
		if err == nil {
			return nil
		}
		if err != cache.ErrCacheMiss {
			h.l.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
		}
	}

	value, err := load()
	if err != nil {
		return err
	}
	if err := assign(dest, value); err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, value, h.ttl); err != nil {
			h.l.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return nil
}

func assign(dest, value interface{}) error {
	switch d := dest.(type) {
	case *[]string:
		v, ok := value.([]string)
		if !ok {
			return fmt.Errorf("unexpected value type %T", value)
		}
		*d = v
	case *[]models.PriceChange:
		v, ok := value.([]models.PriceChange)
		if !ok {
			return fmt.Errorf("unexpected value type %T", value)
		}
		*d = v
	case *[]models.PriceStreak:
		v, ok := value.([]models.PriceStreak)
		if !ok {
			return fmt.Errorf("unexpected value type %T", value)
		}
		*d = v
	default:
		return fmt.Errorf("unsupported destination type %T", dest)
	}
	return nil
}

var _ xhttp.Handler = (*PriceHandler)(nil)
