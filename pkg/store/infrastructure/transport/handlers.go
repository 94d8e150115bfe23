package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	app "storefront/pkg/store/application/service"
	"storefront/pkg/store/domain/model"
	"storefront/pkg/store/domain/service"
	"storefront/pkg/store/infrastructure/metrics"
)

var errInvalidInput = errors.New("invalid input")

const defaultRelatedLimit = 4

type Handler struct {
	store    service.StoreService
	checkout app.CheckoutService
	images   app.ProductImageService
	metrics  *metrics.ServerMetrics
}

// Router exposes the store to the presentation layer under /api/v1.
// The cart is shared by every client of one process, like a single browser session.
func Router(store service.StoreService, checkout app.CheckoutService, images app.ProductImageService, m *metrics.ServerMetrics) http.Handler {
	h := &Handler{store: store, checkout: checkout, images: images, metrics: m}

	r := mux.NewRouter()
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	s := r.PathPrefix("/api/v1").Subrouter()
	if m != nil {
		s.Use(m.Middleware)
	}

	s.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products/{id:[0-9]+}", h.getProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{id:[0-9]+}", h.updateProduct).Methods(http.MethodPatch)
	s.HandleFunc("/products/{id:[0-9]+}", h.deleteProduct).Methods(http.MethodDelete)
	s.HandleFunc("/products/{id:[0-9]+}/related", h.relatedProducts).Methods(http.MethodGet)
	s.HandleFunc("/products/{id:[0-9]+}/image", h.generateProductImage).Methods(http.MethodPost)
	s.HandleFunc("/images/render", h.renderImage).Methods(http.MethodPost)

	s.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	s.HandleFunc("/cart", h.addToCart).Methods(http.MethodPost)
	s.HandleFunc("/cart", h.clearCart).Methods(http.MethodDelete)
	s.HandleFunc("/cart/{productId:[0-9]+}", h.updateCartItem).Methods(http.MethodPatch)
	s.HandleFunc("/cart/{productId:[0-9]+}", h.removeCartItem).Methods(http.MethodDelete)
	s.HandleFunc("/checkout", h.placeOrder).Methods(http.MethodPost)

	s.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id}/status", h.updateOrderStatus).Methods(http.MethodPatch)

	s.HandleFunc("/config", h.getConfig).Methods(http.MethodGet)
	s.HandleFunc("/config", h.updateConfig).Methods(http.MethodPatch)
	s.HandleFunc("/customers", h.listCustomers).Methods(http.MethodGet)
	s.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet)

	return logMiddleware(r)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("featured") == "true" {
		writeJSON(w, http.StatusOK, h.store.FeaturedProducts())
		return
	}
	if raw := query.Get("lowStock"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.Wrap(errInvalidInput, "lowStock must be a number"))
			return
		}
		writeJSON(w, http.StatusOK, h.store.LowStockProducts(threshold))
		return
	}

	writeJSON(w, http.StatusOK, h.store.SearchProducts(service.ProductFilter{
		Term:     query.Get("term"),
		Category: model.Category(query.Get("category")),
	}))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var details model.ProductDetails
	if err := decode(r, &details); err != nil {
		writeError(w, err)
		return
	}
	if err := validateAmounts(&details.PriceCents, &details.ComparePriceCents, &details.Stock, &details.ABV); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.store.AddProduct(details)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.Product(intVar(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := intVar(r, "id")
	var patch model.ProductPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := validateAmounts(patch.PriceCents, patch.ComparePriceCents, patch.Stock, patch.ABV); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.Product(id); err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.UpdateProduct(id, patch); err != nil {
		writeError(w, err)
		return
	}
	h.getProduct(w, r)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := intVar(r, "id")
	if _, err := h.store.Product(id); err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.DeleteProduct(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) relatedProducts(w http.ResponseWriter, r *http.Request) {
	limit := defaultRelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, errors.Wrap(errInvalidInput, "limit must be a non-negative number"))
			return
		}
		limit = parsed
	}
	writeJSON(w, http.StatusOK, h.store.RelatedProducts(intVar(r, "id"), limit))
}

func (h *Handler) generateProductImage(w http.ResponseWriter, r *http.Request) {
	product, err := h.images.RefreshProductImage(r.Context(), intVar(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type renderImageRequest struct {
	Name     string         `json:"name"`
	Category model.Category `json:"category"`
}

func (h *Handler) renderImage(w http.ResponseWriter, r *http.Request) {
	var req renderImageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	uri, err := h.images.RenderImage(r.Context(), req.Name, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": uri})
}

type cartResponse struct {
	Items []model.CartItem `json:"items"`
	Quote app.Quote        `json:"quote"`
}

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cartResponse{Items: h.store.Cart(), Quote: h.checkout.Quote()})
}

type cartItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	req := cartItemRequest{Quantity: 1}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Quantity < 1 {
		writeError(w, errors.Wrap(errInvalidInput, "quantity must be at least 1"))
		return
	}
	product, err := h.store.Product(req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.store.AddToCart(product, req.Quantity)
	h.getCart(w, r)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.store.UpdateCartItemQuantity(intVar(r, "productId"), req.Quantity)
	h.getCart(w, r)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveFromCart(intVar(r, "productId"))
	h.getCart(w, r)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart()
	h.getCart(w, r)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var details model.CustomerDetails
	if err := decode(r, &details); err != nil {
		writeError(w, err)
		return
	}

	orderID, err := h.checkout.PlaceOrder(r.Context(), details)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.Orders.Inc()
	}
	writeJSON(w, http.StatusCreated, map[string]string{"orderId": orderID})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := model.OrderStatus(query.Get("status"))
	if status == "All" {
		status = ""
	}
	writeJSON(w, http.StatusOK, h.store.SearchOrders(service.OrderFilter{Term: query.Get("term"), Status: status}))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.FindOrder(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// updateOrderStatus follows the fulfilment chain unless force=true is given.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req statusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.FindOrder(id); err != nil {
		writeError(w, err)
		return
	}

	var err error
	if r.URL.Query().Get("force") == "true" {
		err = h.store.UpdateOrderStatus(id, req.Status)
	} else {
		err = h.store.AdvanceOrderStatus(id, req.Status)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	h.getOrder(w, r)
}

func (h *Handler) getConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Config())
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	var patch model.ConfigPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.Layout != nil && *patch.Layout != model.GridLayout && *patch.Layout != model.ListLayout {
		writeError(w, errors.Wrapf(errInvalidInput, "unknown layout %q", *patch.Layout))
		return
	}
	if err := h.store.UpdateConfig(patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Config())
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.SearchCustomers(r.URL.Query().Get("term")))
}

func (h *Handler) dashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.DashboardStats())
}

func intVar(r *http.Request, name string) int {
	// route patterns only match digits; overflow maps to an id that cannot exist
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return -1
	}
	return id
}

func validateAmounts(priceCents, comparePriceCents *int64, stock *int, abv *float64) error {
	switch {
	case priceCents != nil && *priceCents < 0:
		return errors.Wrap(errInvalidInput, "price cannot be negative")
	case comparePriceCents != nil && *comparePriceCents < 0:
		return errors.Wrap(errInvalidInput, "compare-at price cannot be negative")
	case stock != nil && *stock < 0:
		return errors.Wrap(errInvalidInput, "stock cannot be negative")
	case abv != nil && *abv < 0:
		return errors.Wrap(errInvalidInput, "abv cannot be negative")
	}
	return nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errInvalidInput, err.Error())
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidInput),
		errors.Is(err, model.ErrUnknownOrderStatus),
		errors.Is(err, app.ErrProductNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidStatusTransition),
		errors.Is(err, app.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, app.ErrGenerationUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("err", err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
			"requestID":  requestID,
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
