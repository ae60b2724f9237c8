package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
)

type customerRepository struct {
	mu        sync.RWMutex
	customers map[types.CustomerID]*model.Customer
}

var _ interfaces.CustomerRepository = &customerRepository{}

func newCustomerRepository() *customerRepository {
	return &customerRepository{
		customers: make(map[types.CustomerID]*model.Customer),
	}
}

func (r *customerRepository) Get(_ context.Context, id types.CustomerID) (*model.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid customer ID")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "customer not found", goerr.V("id", id))
	}

	copied := *c
	return &copied, nil
}

func (r *customerRepository) Put(_ context.Context, customer *model.Customer) error {
	if customer == nil {
		return goerr.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return goerr.Wrap(err, "invalid customer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Full replace, no merge with any existing record
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}
