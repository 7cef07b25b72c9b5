package provider

import (
	"time"

	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

// categoryMap routes analysis categories to provider categories. "other"
// lands on the general (furniture) provider; "vvs" is the legacy Danish
// label for plumbing.
var categoryMap = map[string]string{
	models.CategoryPlumbing:    models.CategoryPlumbing,
	models.CategoryElectronics: models.CategoryElectronics,
	models.CategoryAppliance:   models.CategoryAppliance,
	models.CategoryFurniture:   models.CategoryFurniture,
	models.CategoryOther:       models.CategoryFurniture,
	models.CategoryVVS:         models.CategoryPlumbing,
}

// Seed inserts the four fixed providers if the collection is empty. Runs
// once at startup.
func (s *DefaultProviderService) Seed() {
	logger := utils.GetLogger()

	if existing := s.Providers.Count(nil); existing > 0 {
		logger.Info("Service providers already seeded", zap.Int("count", existing))
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	seeds := []models.ServiceProvider{
		{
			Name:        "Hans Andersen",
			Category:    models.CategoryPlumbing,
			Email:       "hans@fixhub-plumbing.dk",
			Phone:       "+45 12 34 56 78",
			Company:     "FixHub Plumbing Services",
			Specialties: []string{"pipe leaks", "water damage", "drainage", "heating systems"},
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			Name:        "Maria Nielsen",
			Category:    models.CategoryElectronics,
			Email:       "maria@fixhub-electronics.dk",
			Phone:       "+45 23 45 67 89",
			Company:     "FixHub Electronics Repair",
			Specialties: []string{"smartphones", "laptops", "tablets", "TVs", "audio equipment"},
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			Name:        "Lars Hansen",
			Category:    models.CategoryAppliance,
			Email:       "lars@fixhub-appliances.dk",
			Phone:       "+45 34 56 78 90",
			Company:     "FixHub Appliance Repair",
			Specialties: []string{"washing machines", "dishwashers", "refrigerators", "ovens"},
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			Name:        "Sofia Johansen",
			Category:    models.CategoryFurniture,
			Email:       "sofia@fixhub-general.dk",
			Phone:       "+45 45 67 89 01",
			Company:     "FixHub General Repairs",
			Specialties: []string{"furniture", "woodwork", "general repairs", "other"},
			IsActive:    true,
			CreatedAt:   now,
		},
	}

	for _, p := range seeds {
		s.Providers.InsertOne(p)
	}
	logger.Info("Seeded default service providers", zap.Int("count", len(seeds)))
}

// ForCategory returns the active provider for an analysis category,
// falling back to the general (furniture) provider for unmapped categories
// or when the mapped provider is inactive. Given the seeded providers, the
// result is never nil.
func (s *DefaultProviderService) ForCategory(category string) *models.ServiceProvider {
	logger := utils.GetLogger()

	providerCategory, ok := categoryMap[category]
	if !ok {
		providerCategory = models.CategoryFurniture
	}

	prov, exists := s.Providers.FindOne(docstore.Query{
		"category": providerCategory,
		"isActive": true,
	})
	if !exists {
		logger.Warn("No provider for category, using general fallback",
			zap.String("category", category),
			zap.String("providerCategory", providerCategory))
		prov, exists = s.Providers.FindOne(docstore.Query{
			"category": models.CategoryFurniture,
			"isActive": true,
		})
		if !exists {
			return nil
		}
	}

	logger.Debug("Resolved provider",
		zap.String("category", category),
		zap.String("provider", prov.Name),
		zap.String("company", prov.Company))
	return &prov
}

// GetAll returns every active provider.
func (s *DefaultProviderService) GetAll() []models.ServiceProvider {
	return s.Providers.Find(docstore.Query{"isActive": true})
}

// GetByID looks a provider up by id.
func (s *DefaultProviderService) GetByID(id string) *models.ServiceProvider {
	prov, exists := s.Providers.FindByID(id)
	if !exists {
		return nil
	}
	return &prov
}
