package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/service"
)

// CategorySource keeps the category index warm for navigation.
type CategorySource interface {
	Ensure(ctx context.Context, force bool) ([]model.Category, error)
}

// MenuSource keeps the configured menus warm for navigation.
type MenuSource interface {
	Ensure(ctx context.Context, key string, force bool) (*model.Menu, error)
}

// SiteContext refreshes the shared navigation data before each page
// render. Refresh failures are logged and the stale data keeps serving.
func SiteContext(categories CategorySource, menus MenuSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if categories != nil {
				if _, err := categories.Ensure(ctx, false); err != nil {
					logger.Warn("category refresh failed", "error", err)
				}
			}
			if menus != nil {
				for _, key := range []string{service.MenuPrimary, service.MenuFooter} {
					if _, err := menus.Ensure(ctx, key, false); err != nil {
						logger.Warn("menu refresh failed", "menu", key, "error", err)
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
