package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/recipe-server/internal/api/http/handler"
	"github.com/dtroode/recipe-server/internal/api/http/middleware"
	"github.com/dtroode/recipe-server/internal/api/http/render"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

// TokenService issues tokens and resolves them back to users.
type TokenService interface {
	handler.TokenService
	middleware.TokenService
}

// Options tunes the router's outer surface.
type Options struct {
	MediaURL        string
	MaxUploadBytes  int64
	AllowedOrigins  []string
	RateLimitCount  int
	RateLimitWindow time.Duration
}

// Router wires HTTP handlers to services.
type Router struct {
	userService       handler.UserService
	tokenService      TokenService
	recipeService     handler.RecipeService
	tagService        handler.CatalogService
	ingredientService handler.CatalogService
	contextManager    model.ContextManager
	options           Options
	logger            *logger.Logger
}

// New creates a new Router instance.
func New(
	userService handler.UserService,
	tokenService TokenService,
	recipeService handler.RecipeService,
	tagService handler.CatalogService,
	ingredientService handler.CatalogService,
	contextManager model.ContextManager,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		userService:       userService,
		tokenService:      tokenService,
		recipeService:     recipeService,
		tagService:        tagService,
		ingredientService: ingredientService,
		contextManager:    contextManager,
		options:           options,
		logger:            logger,
	}
}

// Register builds the handler tree with middleware applied.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.StripSlashes,
		logging.Handler,
		middleware.Metrics,
		chimw.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: r.options.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)
	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		render.Detail(w, http.StatusNotFound, "Not found.")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		render.Detail(w, http.StatusMethodNotAllowed, "Method \""+req.Method+"\" not allowed.")
	})

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(api chi.Router) {
		api.Route("/user", func(ur chi.Router) {
			r.registerUserRoutes(ur, authenticate.Handler)
		})
		api.Route("/recipe", func(rr chi.Router) {
			rr.Use(authenticate.Handler)
			r.registerRecipeRoutes(rr)
			r.registerCatalogRoutes(rr, "/tags", r.tagService)
			r.registerCatalogRoutes(rr, "/ingredients", r.ingredientService)
		})
	})

	return mux
}

func (r *Router) registerUserRoutes(ur chi.Router, authenticate func(http.Handler) http.Handler) {
	h := handler.NewUser(r.userService, r.tokenService, r.contextManager, r.logger)

	ur.Group(func(public chi.Router) {
		if r.options.RateLimitCount > 0 {
			public.Use(httprate.LimitByIP(r.options.RateLimitCount, r.options.RateLimitWindow))
		}
		public.Post("/create", h.Create)
		public.Post("/token", h.Token)
	})

	ur.Group(func(private chi.Router) {
		private.Use(authenticate)
		private.Get("/me", h.Me)
		private.Put("/me", h.PutMe)
		private.Patch("/me", h.PatchMe)
	})
}

func (r *Router) registerRecipeRoutes(rr chi.Router) {
	h := handler.NewRecipe(r.recipeService, r.contextManager, r.options.MediaURL, r.options.MaxUploadBytes, r.logger)

	rr.Route("/recipes", func(recipes chi.Router) {
		recipes.Get("/", h.List)
		recipes.Post("/", h.Create)
		recipes.Route("/{id}", func(one chi.Router) {
			one.Get("/", h.Get)
			one.Put("/", h.Put)
			one.Patch("/", h.Patch)
			one.Delete("/", h.Delete)
			one.Post("/upload-image", h.UploadImage)
		})
	})
}

func (r *Router) registerCatalogRoutes(rr chi.Router, prefix string, service handler.CatalogService) {
	h := handler.NewCatalog(service, r.contextManager, r.logger)

	rr.Route(prefix, func(items chi.Router) {
		items.Get("/", h.List)
		items.Post("/", h.Create)
		items.Route("/{id}", func(one chi.Router) {
			one.Get("/", h.Get)
			one.Put("/", h.Put)
			one.Patch("/", h.Patch)
			one.Delete("/", h.Delete)
		})
	})
}
