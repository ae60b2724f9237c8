package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const customersCollection = "customers"

type customerRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.CustomerRepository = &customerRepository{}

func newCustomerRepository(client *firestore.Client) *customerRepository {
	return &customerRepository{client: client}
}

func (r *customerRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + customersCollection)
}

func (r *customerRepository) Get(ctx context.Context, id types.CustomerID) (*model.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid customer ID")
	}

	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "customer not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get customer from firestore", goerr.V("id", id))
	}

	var customer model.Customer
	if err := doc.DataTo(&customer); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal customer", goerr.V("id", id))
	}

	return &customer, nil
}

func (r *customerRepository) Put(ctx context.Context, customer *model.Customer) error {
	if customer == nil {
		return goerr.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return goerr.Wrap(err, "invalid customer")
	}

	// Set without merge: the upsert is a full replace by contract
	docRef := r.collection().Doc(customer.ID.String())
	if _, err := docRef.Set(ctx, customer); err != nil {
		return goerr.Wrap(err, "failed to put customer to firestore", goerr.V("id", customer.ID))
	}

	return nil
}
