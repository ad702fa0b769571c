// Package docstore accumulates intended writes against the product, customer
// and order documents and commits them atomically.
package docstore

import "storefront/internal/domain"

type Kind string

const (
	KindCreateCustomerIfNotExists Kind = "createCustomerIfNotExists"
	KindCreateOrder               Kind = "createOrder"
	KindDecrementInventory        Kind = "decrementInventory"
)

// Mutation is one queued write. Only the fields relevant to Kind are set.
type Mutation struct {
	Kind      Kind
	Customer  *domain.Customer
	Order     *domain.Order
	ProductID string
	Quantity  int
}

// Transaction is a builder. Queuing never touches the store; nothing is
// written until a Committer applies it.
type Transaction struct {
	mutations []Mutation
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) CreateCustomerIfNotExists(c domain.Customer) *Transaction {
	t.mutations = append(t.mutations, Mutation{Kind: KindCreateCustomerIfNotExists, Customer: &c})
	return t
}

func (t *Transaction) CreateOrder(o domain.Order) *Transaction {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	t.mutations = append(t.mutations, Mutation{Kind: KindCreateOrder, Order: &o})
	return t
}

func (t *Transaction) DecrementInventory(productID string, qty int) *Transaction {
	t.mutations = append(t.mutations, Mutation{Kind: KindDecrementInventory, ProductID: productID, Quantity: qty})
	return t
}

// Mutations returns the queued writes in order.
func (t *Transaction) Mutations() []Mutation {
	out := make([]Mutation, len(t.mutations))
	copy(out, t.mutations)
	return out
}

func (t *Transaction) Len() int { return len(t.mutations) }
