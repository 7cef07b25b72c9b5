package provider

import (
	"fixhub/database/docstore"
	"fixhub/models"
)

// ProviderService resolves the fixed service providers tickets are routed
// to.
type ProviderService interface {
	Seed()
	ForCategory(category string) *models.ServiceProvider
	GetAll() []models.ServiceProvider
	GetByID(id string) *models.ServiceProvider
}

// DefaultProviderService is backed by the serviceProviders collection.
type DefaultProviderService struct {
	Providers docstore.Collection[models.ServiceProvider]
}

// NewDefaultProviderService wires the service to the serviceProviders
// collection.
func NewDefaultProviderService(db *docstore.DB) *DefaultProviderService {
	return &DefaultProviderService{
		Providers: docstore.CollectionOf[models.ServiceProvider](db, "serviceProviders"),
	}
}
