package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

func init() {
	utils.Logger = zap.NewNop()
}

func newSeededService(t *testing.T) *DefaultProviderService {
	t.Helper()
	db, err := docstore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewDefaultProviderService(db)
	svc.Seed()
	return svc
}

func TestSeedCreatesFourProviders(t *testing.T) {
	svc := newSeededService(t)
	providers := svc.GetAll()
	require.Len(t, providers, 4)

	categories := make(map[string]bool)
	for _, p := range providers {
		categories[p.Category] = true
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Email)
	}
	assert.Equal(t, map[string]bool{
		models.CategoryPlumbing:    true,
		models.CategoryElectronics: true,
		models.CategoryAppliance:   true,
		models.CategoryFurniture:   true,
	}, categories)
}

func TestSeedIsIdempotent(t *testing.T) {
	svc := newSeededService(t)
	svc.Seed()
	assert.Len(t, svc.GetAll(), 4)
}

func TestForCategoryRouting(t *testing.T) {
	svc := newSeededService(t)

	cases := map[string]string{
		models.CategoryPlumbing:    models.CategoryPlumbing,
		models.CategoryElectronics: models.CategoryElectronics,
		models.CategoryAppliance:   models.CategoryAppliance,
		models.CategoryFurniture:   models.CategoryFurniture,
		// "other" and unmapped labels land on the general provider.
		models.CategoryOther: models.CategoryFurniture,
		"garden":             models.CategoryFurniture,
		"":                   models.CategoryFurniture,
		// Legacy Danish plumbing label.
		models.CategoryVVS: models.CategoryPlumbing,
	}
	for in, want := range cases {
		prov := svc.ForCategory(in)
		require.NotNil(t, prov, in)
		assert.Equal(t, want, prov.Category, in)
	}
}

func TestForCategorySkipsInactiveProvider(t *testing.T) {
	svc := newSeededService(t)

	// Deactivate the appliance provider; requests for that category should
	// fall back to the general provider instead of failing.
	appliance := svc.ForCategory(models.CategoryAppliance)
	require.NotNil(t, appliance)
	svc.Providers.UpdateOne(
		docstore.Query{"_id": appliance.ID},
		docstore.Patch{"isActive": false},
	)

	prov := svc.ForCategory(models.CategoryAppliance)
	require.NotNil(t, prov)
	assert.Equal(t, models.CategoryFurniture, prov.Category)
}

func TestForCategoryNilWhenNothingSeeded(t *testing.T) {
	db, err := docstore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewDefaultProviderService(db)

	assert.Nil(t, svc.ForCategory(models.CategoryPlumbing))
}

func TestGetByID(t *testing.T) {
	svc := newSeededService(t)
	all := svc.GetAll()
	require.NotEmpty(t, all)

	got := svc.GetByID(all[0].ID)
	require.NotNil(t, got)
	assert.Equal(t, all[0].Name, got.Name)

	assert.Nil(t, svc.GetByID("providers_0_missing"))
}
