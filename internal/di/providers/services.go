package providers

import (
	"github.com/samber/do/v2"

	"github.com/cardchronicle/chronicle-server/internal/config"
	"github.com/cardchronicle/chronicle-server/internal/logger"
	"github.com/cardchronicle/chronicle-server/internal/service"
	"github.com/cardchronicle/chronicle-server/internal/sharing"
	"github.com/cardchronicle/chronicle-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSharingClient provides the collection share client.
func ProvideSharingClient(i do.Injector) (*sharing.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return sharing.NewClient(cfg.Sharing.Endpoint, log.Logger), nil
}

// ProvideCardService provides the card catalog service.
func ProvideCardService(i do.Injector) (*service.CardService, error) {
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCardService(catalogHandle.Store, storeHandle.Store, log.Logger), nil
}

// ProvideDiaryService provides the diary entry service.
func ProvideDiaryService(i do.Injector) (*service.DiaryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDiaryService(storeHandle.Store, catalogHandle.Store, validator, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	shares := do.MustInvoke[*sharing.Client](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, catalogHandle.Store, shares, validator, log.Logger), nil
}

// ProvideFavoriteService provides the favorites service.
func ProvideFavoriteService(i do.Injector) (*service.FavoriteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFavoriteService(storeHandle.Store, catalogHandle.Store, log.Logger), nil
}

// ProvideEntitlementService provides the entitlement service.
func ProvideEntitlementService(i do.Injector) (*service.EntitlementService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEntitlementService(storeHandle.Store, log.Logger), nil
}
