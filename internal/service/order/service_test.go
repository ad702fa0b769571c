package order

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/docstore"
	"storefront/internal/domain"
)

// memStore applies transactions to in-memory tables, all or nothing.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*domain.Product
	customers map[string]domain.Customer
	orders    []domain.Order
	commits   int
}

func newMemStore(products ...domain.Product) *memStore {
	m := &memStore{products: map[string]*domain.Product{}, customers: map[string]domain.Customer{}}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
	}
	return m
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) Commit(_ context.Context, tx *docstore.Transaction) (*docstore.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inventory := map[string]int{}
	for id, p := range m.products {
		inventory[id] = p.Inventory
	}
	res := &docstore.Result{Inventory: map[string]int{}}
	var newCustomer *domain.Customer
	var newOrder *domain.Order
	for _, mut := range tx.Mutations() {
		switch mut.Kind {
		case docstore.KindCreateCustomerIfNotExists:
			if existing, ok := m.customers[mut.Customer.ID]; ok {
				res.Customer = &existing
			} else {
				newCustomer, res.Customer, res.CustomerCreated = mut.Customer, mut.Customer, true
			}
		case docstore.KindCreateOrder:
			newOrder = mut.Order
			res.Order = mut.Order
		case docstore.KindDecrementInventory:
			left, ok := inventory[mut.ProductID]
			if !ok {
				return nil, domain.ErrNotFound
			}
			if left < mut.Quantity {
				return nil, &domain.InsufficientStockError{ProductID: mut.ProductID, Available: left, Requested: mut.Quantity}
			}
			inventory[mut.ProductID] = left - mut.Quantity
			res.Inventory[mut.ProductID] = left - mut.Quantity
		}
	}

	for id, left := range inventory {
		m.products[id].Inventory = left
	}
	if newCustomer != nil {
		m.customers[newCustomer.ID] = *newCustomer
	}
	if newOrder != nil {
		m.orders = append(m.orders, *newOrder)
	}
	m.commits++
	return res, nil
}

type recordingPublisher struct {
	orders []string
	err    error
}

func (r *recordingPublisher) PublishOrderPlaced(_ context.Context, o *domain.Order) error {
	r.orders = append(r.orders, o.OrderID)
	return r.err
}
func (r *recordingPublisher) Close() error { return nil }

func catalog() *memStore {
	return newMemStore(
		domain.Product{ID: "p1", Name: "Nike Air Max", Price: decimal.RequireFromString("120.00"), Inventory: 10, ImageURL: "air.png"},
		domain.Product{ID: "p2", Name: "Nike Dunk", Price: decimal.RequireFromString("90.50"), Inventory: 2},
	)
}

func customerData() *CustomerData {
	return &CustomerData{
		Name:    "Ayesha Khan",
		Email:   " Ayesha@Example.com",
		Phone:   "+923001234567",
		PAN:     "ABCDE1234F",
		Address: domain.Address{AddressLine1: "12 Mall Road", Locality: "Lahore", Country: "Pakistan"},
	}
}

func orderData() *OrderData {
	return &OrderData{Items: []ItemInput{
		{ProductID: "p1", Quantity: 2, Size: "42", Color: "black"},
		{ProductID: "p2", Quantity: 1, Size: "40"},
	}}
}

func newService(store *memStore, pub *recordingPublisher) *Service {
	return New(store, store, pub, nil, 2)
}

func TestSubmit_FirstTimeCustomer(t *testing.T) {
	store := catalog()
	pub := &recordingPublisher{}
	svc := newService(store, pub)

	o, err := svc.Submit(context.Background(), customerData(), orderData())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(o.OrderID, "ORDER-"))
	assert.Equal(t, domain.OrderStatusProcessing, o.Status)
	assert.True(t, decimal.RequireFromString("330.50").Equal(o.Total), "total = %s", o.Total)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Nike Air Max", o.Items[0].Name)
	assert.Equal(t, "air.png", o.Items[0].Image)
	assert.NotEqual(t, o.Items[0].Key, o.Items[1].Key)

	require.Len(t, store.customers, 1)
	require.Len(t, store.orders, 1)
	cust, ok := store.customers[o.CustomerID]
	require.True(t, ok, "order must reference the created customer")
	assert.Equal(t, "ayesha@example.com", cust.Email)
	assert.Equal(t, 8, store.products["p1"].Inventory)
	assert.Equal(t, 1, store.products["p2"].Inventory)
	assert.Equal(t, []string{o.OrderID}, pub.orders)
}

func TestSubmit_SameCustomerIsNotDuplicated(t *testing.T) {
	store := catalog()
	svc := newService(store, &recordingPublisher{})

	first, err := svc.Submit(context.Background(), customerData(), orderData())
	require.NoError(t, err)
	again := customerData()
	again.Email = "AYESHA@example.com"
	second, err := svc.Submit(context.Background(), again, &OrderData{Items: []ItemInput{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	assert.Len(t, store.customers, 1)
	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Len(t, store.orders, 2, "duplicate submissions create separate orders")
	assert.NotEqual(t, first.OrderID, second.OrderID)
}

func TestSubmit_PreconditionsFailBeforeAnyWrite(t *testing.T) {
	cases := map[string]struct {
		cd *CustomerData
		od *OrderData
	}{
		"missing customer": {nil, orderData()},
		"missing order":    {customerData(), nil},
		"missing email":    {&CustomerData{Name: "x"}, orderData()},
		"no items":         {customerData(), &OrderData{}},
		"empty product id": {customerData(), &OrderData{Items: []ItemInput{{ProductID: "p1", Quantity: 1}, {ProductID: " ", Quantity: 1}}}},
		"zero quantity":    {customerData(), &OrderData{Items: []ItemInput{{ProductID: "p1", Quantity: 0}}}},
		"unknown product":  {customerData(), &OrderData{Items: []ItemInput{{ProductID: "ghost", Quantity: 1}}}},
		"total mismatch":   {customerData(), &OrderData{Items: []ItemInput{{ProductID: "p1", Quantity: 1}}, Total: decimal.NewFromInt(1)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := catalog()
			pub := &recordingPublisher{}
			_, err := newService(store, pub).Submit(context.Background(), tc.cd, tc.od)

			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
			assert.Zero(t, store.commits)
			assert.Empty(t, store.customers)
			assert.Empty(t, store.orders)
			assert.Equal(t, 10, store.products["p1"].Inventory)
			assert.Empty(t, pub.orders)
		})
	}
}

func TestSubmit_MatchingClientTotalIsAccepted(t *testing.T) {
	od := orderData()
	od.Total = decimal.RequireFromString("330.5")
	_, err := newService(catalog(), &recordingPublisher{}).Submit(context.Background(), customerData(), od)
	require.NoError(t, err)
}

func TestSubmit_InsufficientStockCommitsNothing(t *testing.T) {
	store := catalog()
	pub := &recordingPublisher{}
	od := &OrderData{Items: []ItemInput{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 5}}}

	_, err := newService(store, pub).Submit(context.Background(), customerData(), od)

	var stock *domain.InsufficientStockError
	require.True(t, errors.As(err, &stock), "got %v", err)
	assert.Equal(t, "p2", stock.ProductID)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.customers)
	assert.Equal(t, 10, store.products["p1"].Inventory)
	assert.Empty(t, pub.orders)
}

func TestSubmit_PublishFailureDoesNotFailOrder(t *testing.T) {
	store := catalog()
	pub := &recordingPublisher{err: errors.New("broker down")}

	o, err := newService(store, pub).Submit(context.Background(), customerData(), orderData())
	require.NoError(t, err)
	assert.Equal(t, []string{o.OrderID}, pub.orders)
	assert.Len(t, store.orders, 1)
}

func TestBuildTransaction_QueuesCustomerOrderAndDecrements(t *testing.T) {
	o := domain.Order{OrderID: "ORDER-1", Items: []domain.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}}
	muts := buildTransaction(domain.Customer{ID: "customer-x"}, o).Mutations()

	require.Len(t, muts, 4)
	assert.Equal(t, docstore.KindCreateCustomerIfNotExists, muts[0].Kind)
	assert.Equal(t, docstore.KindCreateOrder, muts[1].Kind)
	assert.Equal(t, docstore.Mutation{Kind: docstore.KindDecrementInventory, ProductID: "p1", Quantity: 2}, muts[2])
	assert.Equal(t, docstore.Mutation{Kind: docstore.KindDecrementInventory, ProductID: "p2", Quantity: 3}, muts[3])
}

func TestCustomerID_NormalizesEmail(t *testing.T) {
	a := CustomerID("Buyer@Example.com ")
	b := CustomerID("buyer@example.com")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "customer-"))
	assert.NotEqual(t, a, CustomerID("other@example.com"))
}
