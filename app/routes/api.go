package routes

import (
	"time"

	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/app/controllers"
	"github.com/telascatalogo/telas/app/order"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/pkg/ctx"
	"github.com/telascatalogo/telas/pkg/middleware"
	"github.com/telascatalogo/telas/pkg/router"
	"github.com/telascatalogo/telas/pkg/ws"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Catalog   *services.Catalog
	Fabrics   services.FabricStore
	Auth      *services.AuthService
	Images    services.ImageStore
	UploadMax int64
	Carts     cart.SnapshotStore
	Composer  order.Composer
	// Hub is optional; without it /ws/catalog is not mounted.
	Hub *ws.Hub
}

// RegisterAPI mounts the catalog, admin, cart and query endpoints.
func RegisterAPI(r *router.Router, d Deps) error {
	fabrics := controllers.NewFabricController(d.Catalog, d.Fabrics, d.Images)
	authc := controllers.NewAuthController(d.Auth)
	uploads := controllers.NewUploadController(d.Images, d.UploadMax)
	carts := controllers.NewCartController(d.Catalog, d.Carts, d.Composer)
	gql, err := controllers.NewGraphQLController(d.Catalog)
	if err != nil {
		return err
	}

	api := r.Group("/api")

	// Public catalog
	api.Get("/fabrics", "fabrics.index", ctx.Wrap(fabrics.Index))
	api.Get("/fabrics/{id}", "fabrics.show", ctx.Wrap(fabrics.Show))
	api.Get("/categories", "categories.index", ctx.Wrap(fabrics.Categories))

	// Login is throttled per client IP.
	api.Post("/auth/login", "auth.login", ctx.Wrap(authc.Login), middleware.RateLimit(10, time.Minute))

	// Admin
	admin := api.Group("", middleware.AuthMiddleware)
	admin.Post("/fabrics", "fabrics.store", ctx.Wrap(fabrics.Store))
	admin.Put("/fabrics/{id}", "fabrics.update", ctx.Wrap(fabrics.Update))
	admin.Delete("/fabrics/{id}", "fabrics.destroy", ctx.Wrap(fabrics.Destroy))
	admin.Post("/upload", "upload.store", ctx.Wrap(uploads.Store))

	// Cart, keyed by cookie
	cartg := api.Group("/cart")
	cartg.Get("/", "cart.show", ctx.Wrap(carts.Show))
	cartg.Delete("/", "cart.clear", ctx.Wrap(carts.Clear))
	cartg.Post("/items", "cart.items.store", ctx.Wrap(carts.Add))
	cartg.Put("/items/{id}", "cart.items.update", ctx.Wrap(carts.SetMeters))
	cartg.Delete("/items/{id}", "cart.items.destroy", ctx.Wrap(carts.Remove))
	cartg.Post("/order", "cart.order", ctx.Wrap(carts.Order))

	r.Post("/graphql", "graphql", gql.Query)
	r.Get("/graphql", "graphql.get", gql.Query)

	if d.Hub != nil {
		r.Get("/ws/catalog", "ws.catalog", d.Hub.ServeHTTP)
	}
	return nil
}
