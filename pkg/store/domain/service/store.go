package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"storefront/pkg/store/domain/model"
)

var ErrOrderIDSpaceExhausted = errors.New("no free order id left in the ORD-xxxxxx space")

// order ids keep the last six digits of a millisecond stamp
const orderIDSpace = 1_000_000

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}

// StoreService owns the catalog, the order history, the store configuration
// and the session cart. Every mutation of a durable collection is written to
// storage before it becomes visible to readers.
type StoreService interface {
	AddProduct(details model.ProductDetails) (model.Product, error)
	UpdateProduct(id int, patch model.ProductPatch) error
	DeleteProduct(id int) error

	AddToCart(product model.Product, quantity int)
	UpdateCartItemQuantity(productID, quantity int)
	RemoveFromCart(productID int)
	ClearCart()

	Checkout(details model.CustomerDetails) (string, error)
	CheckoutNonEmpty(details model.CustomerDetails) (string, error)
	UpdateOrderStatus(id string, status model.OrderStatus) error
	AdvanceOrderStatus(id string, status model.OrderStatus) error

	UpdateConfig(patch model.ConfigPatch) error
	ResetToSeed() error

	Products() []model.Product
	Product(id int) (model.Product, error)
	Orders() []model.Order
	FindOrder(id string) (model.Order, error)
	Cart() []model.CartItem
	Config() model.StoreConfig
	Customers() []model.Customer

	SearchProducts(filter ProductFilter) []model.Product
	FeaturedProducts() []model.Product
	RelatedProducts(id, limit int) []model.Product
	LowStockProducts(threshold int) []model.Product
	SearchOrders(filter OrderFilter) []model.Order
	SearchCustomers(term string) []model.Customer
	DashboardStats() DashboardStats
}

type Option func(s *storeService)

func WithClock(now func() time.Time) Option {
	return func(s *storeService) { s.now = now }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *storeService) { s.logger = logger }
}

// NewStoreService restores products, orders and config from storage, falling
// back to the seed data for any record that is missing or unreadable.
func NewStoreService(storage model.Storage, dispatcher EventDispatcher, opts ...Option) StoreService {
	s := &storeService{
		storage:    storage,
		dispatcher: dispatcher,
		logger:     logrus.StandardLogger(),
		now:        time.Now,
		cart:       []model.CartItem{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.products = load(s, model.ProductsKey, model.SeedProducts())
	s.orders = load(s, model.OrdersKey, model.SeedOrders(s.now().UTC()))
	s.config = load(s, model.ConfigKey, model.SeedConfig())
	return s
}

type storeService struct {
	mu         sync.RWMutex
	storage    model.Storage
	dispatcher EventDispatcher
	logger     logrus.FieldLogger
	now        func() time.Time

	products []model.Product
	orders   []model.Order
	config   model.StoreConfig
	cart     []model.CartItem

	lastOrderStamp int64
}

func load[T any](s *storeService, key string, fallback T) T {
	data, err := s.storage.Load(key)
	if err != nil {
		if !errors.Is(err, model.ErrKeyNotFound) {
			s.logger.WithError(err).WithField("key", key).Warn("failed to read stored state, using seed data")
		}
		return fallback
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("stored state is corrupted, using seed data")
		return fallback
	}
	return value
}

func (s *storeService) AddProduct(details model.ProductDetails) (model.Product, error) {
	var product model.Product
	err := s.mutate(func() ([]Event, error) {
		nextID := 0
		for _, p := range s.products {
			if p.ID > nextID {
				nextID = p.ID
			}
		}
		nextID++

		product = model.Product{ID: nextID, ProductDetails: details}
		products := append(cloneProducts(s.products), product)
		if err := s.save(model.ProductsKey, products); err != nil {
			return nil, err
		}
		s.products = products
		return []Event{model.ProductAdded{ProductID: nextID, Name: details.Name}}, nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (s *storeService) UpdateProduct(id int, patch model.ProductPatch) error {
	return s.mutate(func() ([]Event, error) {
		index := s.productIndex(id)
		if index == -1 {
			return nil, nil
		}

		products := cloneProducts(s.products)
		patch.Apply(&products[index])
		if err := s.save(model.ProductsKey, products); err != nil {
			return nil, err
		}
		s.products = products
		return []Event{model.ProductUpdated{ProductID: id}}, nil
	})
}

// DeleteProduct leaves cart and order snapshots of the product untouched.
func (s *storeService) DeleteProduct(id int) error {
	return s.mutate(func() ([]Event, error) {
		index := s.productIndex(id)
		if index == -1 {
			return nil, nil
		}

		products := make([]model.Product, 0, len(s.products)-1)
		products = append(products, s.products[:index]...)
		products = append(products, s.products[index+1:]...)
		if err := s.save(model.ProductsKey, products); err != nil {
			return nil, err
		}
		s.products = products
		return []Event{model.ProductDeleted{ProductID: id}}, nil
	})
}

func (s *storeService) AddToCart(product model.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].ProductID == product.ID {
			s.cart[i].Quantity += quantity
			return
		}
	}
	s.cart = append(s.cart, model.CartItem{
		ProductID:  product.ID,
		Name:       product.Name,
		PriceCents: product.CartPriceCents(),
		Quantity:   quantity,
		Image:      product.Image,
	})
}

func (s *storeService) UpdateCartItemQuantity(productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.cartIndex(productID)
	if index == -1 {
		return
	}
	if quantity <= 0 {
		s.cart = append(s.cart[:index], s.cart[index+1:]...)
		return
	}
	s.cart[index].Quantity = quantity
}

func (s *storeService) RemoveFromCart(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index := s.cartIndex(productID); index != -1 {
		s.cart = append(s.cart[:index], s.cart[index+1:]...)
	}
}

func (s *storeService) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = []model.CartItem{}
}

// Checkout turns the cart into a pending order placed at the head of the
// order history and empties the cart. An empty cart yields a zero-total order.
func (s *storeService) Checkout(details model.CustomerDetails) (string, error) {
	return s.checkout(details, false)
}

// CheckoutNonEmpty is Checkout that fails with model.ErrEmptyCart instead of
// recording an order without items.
func (s *storeService) CheckoutNonEmpty(details model.CustomerDetails) (string, error) {
	return s.checkout(details, true)
}

func (s *storeService) checkout(details model.CustomerDetails, requireItems bool) (string, error) {
	var orderID string
	err := s.mutate(func() ([]Event, error) {
		if requireItems && len(s.cart) == 0 {
			return nil, model.ErrEmptyCart
		}

		id, err := s.nextOrderID()
		if err != nil {
			return nil, err
		}

		items := make([]model.OrderItem, len(s.cart))
		copy(items, s.cart)
		order := model.Order{
			ID:              id,
			CustomerName:    details.Name,
			CustomerEmail:   details.Email,
			CustomerPhone:   details.Phone,
			DeliveryAddress: details.Address,
			Date:            s.now().UTC(),
			Status:          model.Pending,
			TotalCents:      model.CartTotalCents(items),
			Items:           items,
		}

		orders := make([]model.Order, 0, len(s.orders)+1)
		orders = append(orders, order)
		orders = append(orders, cloneOrders(s.orders)...)
		if err := s.save(model.OrdersKey, orders); err != nil {
			return nil, err
		}
		s.orders = orders
		s.cart = []model.CartItem{}
		orderID = id

		return []Event{model.OrderPlaced{OrderID: id, TotalCents: order.TotalCents, ItemCount: len(items)}}, nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// UpdateOrderStatus sets any known status regardless of the current one.
// It is the staff override; AdvanceOrderStatus is the guarded path.
func (s *storeService) UpdateOrderStatus(id string, status model.OrderStatus) error {
	return s.changeOrderStatus(id, status, true)
}

func (s *storeService) AdvanceOrderStatus(id string, status model.OrderStatus) error {
	return s.changeOrderStatus(id, status, false)
}

func (s *storeService) changeOrderStatus(id string, status model.OrderStatus, force bool) error {
	if !status.Valid() {
		return errors.Wrapf(model.ErrUnknownOrderStatus, "%q", status)
	}

	return s.mutate(func() ([]Event, error) {
		index := s.orderIndex(id)
		if index == -1 {
			if force {
				return nil, nil
			}
			return nil, model.ErrOrderNotFound
		}

		oldStatus := s.orders[index].Status
		if !force {
			if oldStatus == status {
				return nil, nil
			}
			if !oldStatus.CanTransitionTo(status) {
				return nil, errors.Wrapf(model.ErrInvalidStatusTransition, "%s -> %s", oldStatus, status)
			}
		}

		orders := cloneOrders(s.orders)
		orders[index].Status = status
		if err := s.save(model.OrdersKey, orders); err != nil {
			return nil, err
		}
		s.orders = orders

		return []Event{model.OrderStatusChanged{
			OrderID:   id,
			OldStatus: oldStatus,
			NewStatus: status,
			Forced:    force,
		}}, nil
	})
}

func (s *storeService) UpdateConfig(patch model.ConfigPatch) error {
	return s.mutate(func() ([]Event, error) {
		config := s.config
		patch.Apply(&config)
		if err := s.save(model.ConfigKey, config); err != nil {
			return nil, err
		}
		s.config = config
		return []Event{model.ConfigUpdated{StoreName: config.StoreName}}, nil
	})
}

// ResetToSeed overwrites all durable records with the seed data and empties the cart.
func (s *storeService) ResetToSeed() error {
	return s.mutate(func() ([]Event, error) {
		products := model.SeedProducts()
		orders := model.SeedOrders(s.now().UTC())
		config := model.SeedConfig()

		if err := s.save(model.ProductsKey, products); err != nil {
			return nil, err
		}
		if err := s.save(model.OrdersKey, orders); err != nil {
			return nil, err
		}
		if err := s.save(model.ConfigKey, config); err != nil {
			return nil, err
		}

		s.products, s.orders, s.config = products, orders, config
		s.cart = []model.CartItem{}
		return []Event{model.ConfigUpdated{StoreName: config.StoreName}}, nil
	})
}

func (s *storeService) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

func (s *storeService) Product(id int) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index := s.productIndex(id); index != -1 {
		return s.products[index], nil
	}
	return model.Product{}, model.ErrProductNotFound
}

func (s *storeService) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders)
}

func (s *storeService) Cart() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart := make([]model.CartItem, len(s.cart))
	copy(cart, s.cart)
	return cart
}

func (s *storeService) Config() model.StoreConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *storeService) Customers() []model.Customer {
	return model.SeedCustomers()
}

// mutate runs action under the write lock and dispatches the events it
// returns once the lock is released.
func (s *storeService) mutate(action func() ([]Event, error)) error {
	s.mu.Lock()
	events, err := action()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.dispatchEvents(events)
	return nil
}

func (s *storeService) save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	if err := s.storage.Save(key, data); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("failed to persist state")
		return errors.Wrapf(err, "persist %s", key)
	}
	return nil
}

func (s *storeService) dispatchEvents(events []Event) {
	for _, event := range events {
		if err := s.dispatcher.Dispatch(event); err != nil {
			s.logger.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
		}
	}
}

// nextOrderID derives ORD-xxxxxx from the millisecond clock. Stamps never
// repeat within a process and ids already in the history are skipped.
func (s *storeService) nextOrderID() (string, error) {
	stamp := s.now().UnixMilli()
	if stamp <= s.lastOrderStamp {
		stamp = s.lastOrderStamp + 1
	}

	for i := 0; i < orderIDSpace; i++ {
		id := fmt.Sprintf("ORD-%06d", stamp%orderIDSpace)
		if s.orderIndex(id) == -1 {
			s.lastOrderStamp = stamp
			return id, nil
		}
		stamp++
	}
	return "", ErrOrderIDSpaceExhausted
}

func (s *storeService) productIndex(id int) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *storeService) orderIndex(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *storeService) cartIndex(productID int) int {
	for i, item := range s.cart {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneProducts(products []model.Product) []model.Product {
	clone := make([]model.Product, len(products))
	copy(clone, products)
	return clone
}

func cloneOrders(orders []model.Order) []model.Order {
	clone := make([]model.Order, len(orders))
	for i, order := range orders {
		clone[i] = order
		clone[i].Items = make([]model.OrderItem, len(order.Items))
		copy(clone[i].Items, order.Items)
	}
	return clone
}
