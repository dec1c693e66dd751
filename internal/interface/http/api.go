package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domcustomer "example.com/shoppingcart/internal/domain/customer"
	domorder "example.com/shoppingcart/internal/domain/order"
	domproduct "example.com/shoppingcart/internal/domain/product"
	"example.com/shoppingcart/internal/infra/logger"
	authuc "example.com/shoppingcart/internal/usecase/auth"
	cartuc "example.com/shoppingcart/internal/usecase/cart"
	customeruc "example.com/shoppingcart/internal/usecase/customer"
	orderuc "example.com/shoppingcart/internal/usecase/order"
	productuc "example.com/shoppingcart/internal/usecase/product"
)

var (
	errInvalidRequest  = errors.New("invalid request")
	errInvalidBody     = errors.New("invalid request body")
	errInternal        = errors.New("internal server error")
	errNotReady        = errors.New("service not ready")
	errInvalidIDParams = errors.New("invalid id")
)

type API struct {
	authSvc     *authuc.Service
	customerSvc *customeruc.Service
	productSvc  *productuc.Service
	cartSvc     *cartuc.Service
	orderSvc    *orderuc.Service
	tokenSvc    authuc.TokenService
	validator   *validator.Validate
	logger      *slog.Logger
	metrics     *metrics
	registry    *prometheus.Registry
	ready       func(ctx context.Context) error
	serviceName string
}

type Dependencies struct {
	AuthService     *authuc.Service
	CustomerService *customeruc.Service
	ProductService  *productuc.Service
	CartService     *cartuc.Service
	OrderService    *orderuc.Service
	TokenService    authuc.TokenService
	Logger          *slog.Logger
	// Registry receives the HTTP metrics and is served on /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
	// ReadinessCheck backs /health/ready, typically a database ping.
	ReadinessCheck func(ctx context.Context) error
	ServiceName    string
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return domcustomer.ValidatePassword(fl.Field().String()) == nil
	})

	l := deps.Logger
	if l == nil {
		l = slog.Default()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	ready := deps.ReadinessCheck
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}
	name := deps.ServiceName
	if name == "" {
		name = "shoppingcart"
	}

	return &API{
		authSvc:     deps.AuthService,
		customerSvc: deps.CustomerService,
		productSvc:  deps.ProductService,
		cartSvc:     deps.CartService,
		orderSvc:    deps.OrderService,
		tokenSvc:    deps.TokenService,
		validator:   validate,
		logger:      l,
		metrics:     newMetrics(reg),
		registry:    reg,
		ready:       ready,
		serviceName: name,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.tracing)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(a.metrics.middleware)
	r.Use(chimw.AllowContentType("application/json"))

	r.Get("/health", a.handleHealth)
	r.Get("/health/ready", a.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)
		r.Post("/customers", a.handleRegister)
		r.Post("/customers/duplication", a.handleCheckDuplication)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Post("/products", a.handleCreateProduct)
			pr.Delete("/products/{id}", a.handleDeleteProduct)

			pr.Route("/customers/me", func(me chi.Router) {
				me.Get("/", a.handleGetMe)
				me.Put("/", a.handleUpdateMe)
				me.Delete("/", a.handleDeleteMe)
				me.Patch("/password", a.handleUpdatePassword)

				me.Route("/cart", func(cr chi.Router) {
					cr.Get("/", a.handleGetCart)
					cr.Delete("/", a.handleClearCart)
					cr.Post("/items", a.handleAddCartItem)
					cr.Delete("/items", a.handleRemoveCartItems)
					cr.Get("/items/{productID}", a.handleHasCartItem)
					cr.Patch("/items/{productID}", a.handleUpdateCartItem)
					cr.Delete("/items/{productID}", a.handleRemoveCartItem)
				})

				me.Route("/orders", func(ord chi.Router) {
					ord.Get("/", a.handleListOrders)
					ord.Post("/", a.handlePlaceOrder)
					ord.Get("/{id}", a.handleGetOrder)
				})
			})
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return a.validator.Struct(dst)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// respondBadRequest reports decode failures and validator output keyed by
// JSON field name.
func respondBadRequest(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = validationMessage(fe)
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errInvalidRequest.Error(), Details: details})
		return
	}
	respondError(w, http.StatusBadRequest, err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "password":
		return domcustomer.ErrInvalidPassword.Error()
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidIDParams
	}
	return id, nil
}

func mapCustomer(c *domcustomer.Customer) map[string]any {
	return map[string]any{
		"id":       c.ID,
		"username": c.Username,
		"nickname": c.Nickname,
		"age":      c.Age,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":            p.ID,
		"name":          p.Name,
		"price":         p.Price,
		"thumbnail_url": p.ThumbnailURL,
	}
}

func mapCart(items []domcart.Item) map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"product_id":    item.ProductID(),
			"name":          item.Product.Name,
			"price":         item.Product.Price,
			"thumbnail_url": item.Product.ThumbnailURL,
			"quantity":      item.Quantity,
		})
	}
	return map[string]any{
		"items":       out,
		"total_price": domcart.New(items).TotalPrice(),
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price,
			"quantity":   item.Quantity,
		})
	}

	return map[string]any{
		"id":           o.ID,
		"customer_id":  o.CustomerID,
		"total_amount": o.TotalAmount,
		"created_at":   o.CreatedAt,
		"items":        items,
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domcustomer.ErrInvalidUsername),
		errors.Is(err, domcustomer.ErrInvalidProfile),
		errors.Is(err, domcustomer.ErrBlankPassword),
		errors.Is(err, domcustomer.ErrInvalidPassword),
		errors.Is(err, domcustomer.ErrPasswordMismatch),
		errors.Is(err, domproduct.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domcustomer.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcart.ErrItemNotFound),
		errors.Is(err, domcustomer.ErrInvalidCustomer),
		errors.Is(err, domorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domcart.ErrDuplicateItem),
		errors.Is(err, domcustomer.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domcart.ErrNotInCustomerCart),
		errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrInvalidQuantity):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusInternalServerError, errInternal)
	}
}
