package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/shopify"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 250

	featuredPool  = 100
	featuredLimit = 6
)

// CatalogClient is the slice of the Shopify Admin API the catalog reads.
type CatalogClient interface {
	ListProducts(ctx context.Context, params shopify.ProductListParams) ([]shopify.Product, error)
	GetProductByHandle(ctx context.Context, handle string) (*shopify.Product, error)
	FindCollectionByHandle(ctx context.Context, handle string) (*shopify.Collection, error)
	ListCustomCollections(ctx context.Context) ([]shopify.Collection, error)
	ListSmartCollections(ctx context.Context) ([]shopify.Collection, error)
}

type attributesStore interface {
	ListByProductIDs(ctx context.Context, ids []int64) (map[int64]models.ProductAttributes, error)
	FindByProductID(ctx context.Context, productID int64) (*models.ProductAttributes, error)
	Upsert(ctx context.Context, attrs *models.ProductAttributes) error
	CreateMissing(ctx context.Context, ids []int64) (int, error)
}

// Service exposes the storefront catalog and the admin attribute tools.
type Service interface {
	List(ctx context.Context, params ListParams) ([]ProductView, error)
	Featured(ctx context.Context) ([]ProductView, error)
	Collections(ctx context.Context) ([]shopify.Collection, error)
	GetByHandle(ctx context.Context, handle string) (*ProductView, error)
	Sync(ctx context.Context) (*SyncResult, error)
	UpdateAttributes(ctx context.Context, productID int64, input AttributesInput) (*AttributesView, error)
}

// ServiceParams bundles the catalog dependencies. Cache is optional.
type ServiceParams struct {
	Client     CatalogClient
	Attributes attributesStore
	Cache      cacheStore
	CacheTTL   time.Duration
	Logger     *logger.Logger
}

type service struct {
	client CatalogClient
	attrs  attributesStore
	cache  *listingCache
	logg   *logger.Logger
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if params.Attributes == nil {
		return nil, fmt.Errorf("attributes repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		client: params.Client,
		attrs:  params.Attributes,
		cache:  newListingCache(params.Cache, params.CacheTTL, params.Logger),
		logg:   params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]ProductView, error) {
	if params.Limit == 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit < 1 || params.Limit > MaxListLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be between 1 and 250")
	}

	var collectionID int64
	if handle := strings.TrimSpace(params.CollectionHandle); handle != "" {
		collection, err := s.client.FindCollectionByHandle(ctx, handle)
		switch {
		case err == nil:
			collectionID = collection.ID
		case errors.Is(err, shopify.ErrNotFound):
			// Unknown handles list the whole catalog.
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch products")
		}
	}

	raw, err := s.fetch(ctx, params.Limit, collectionID)
	if err != nil {
		return nil, err
	}
	views, err := s.enrichAll(ctx, raw)
	if err != nil {
		return nil, err
	}

	out := make([]ProductView, 0, len(views))
	for _, v := range views {
		if v.matches(params) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *service) Featured(ctx context.Context) ([]ProductView, error) {
	all, err := s.List(ctx, ListParams{Limit: featuredPool})
	if err != nil {
		return nil, err
	}
	out := make([]ProductView, 0, featuredLimit)
	for _, v := range all {
		if !v.featured() {
			continue
		}
		out = append(out, v)
		if len(out) == featuredLimit {
			break
		}
	}
	return out, nil
}

func (s *service) Collections(ctx context.Context) ([]shopify.Collection, error) {
	custom, err := s.client.ListCustomCollections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch collections")
	}
	smart, err := s.client.ListSmartCollections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch collections")
	}
	out := make([]shopify.Collection, 0, len(custom)+len(smart))
	out = append(out, custom...)
	return append(out, smart...), nil
}

func (s *service) GetByHandle(ctx context.Context, handle string) (*ProductView, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, pkgerrors.NotFound("product")
	}
	p, err := s.client.GetProductByHandle(ctx, handle)
	if err != nil {
		if shopify.IsNotFound(err) {
			return nil, pkgerrors.NotFound("product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch product")
	}
	views, err := s.enrichAll(ctx, []shopify.Product{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) Sync(ctx context.Context) (*SyncResult, error) {
	raw, err := s.client.ListProducts(ctx, shopify.ProductListParams{Limit: MaxListLimit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to sync products")
	}
	ids := make([]int64, 0, len(raw))
	for _, p := range raw {
		ids = append(ids, p.ID)
	}
	created, err := s.attrs.CreateMissing(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product attributes")
	}
	s.invalidate(ctx)

	logCtx := s.logg.WithFields(ctx, map[string]any{"count": len(raw), "attributes_created": created})
	s.logg.Info(logCtx, "products.synced")
	return &SyncResult{
		Message:           "Products synced successfully",
		Count:             len(raw),
		AttributesCreated: created,
	}, nil
}

func (s *service) UpdateAttributes(ctx context.Context, productID int64, input AttributesInput) (*AttributesView, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	row, err := s.attrs.FindByProductID(ctx, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product attributes")
		}
		row = &models.ProductAttributes{ShopifyProductID: productID, PackSizes: dbtypes.StringList{}}
	}

	if input.Flavor != nil {
		flavor := strings.TrimSpace(*input.Flavor)
		if flavor == "" {
			row.Flavor = nil
		} else {
			row.Flavor = &flavor
		}
	}
	if input.PackSizes != nil {
		row.PackSizes = dbtypes.StringList(append([]string{}, (*input.PackSizes)...))
	}
	if input.IsBestseller != nil {
		row.IsBestseller = *input.IsBestseller
	}
	if input.IsAwardWinning != nil {
		row.IsAwardWinning = *input.IsAwardWinning
	}
	if input.Nutrition != nil {
		nutrition := *input.Nutrition
		row.Nutrition = &nutrition
	}
	row.UpdatedAt = time.Now().UTC()

	if err := s.attrs.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save product attributes")
	}
	s.invalidate(ctx)
	return newAttributesView(row), nil
}

func (s *service) fetch(ctx context.Context, limit int, collectionID int64) ([]shopify.Product, error) {
	var key string
	cached := false
	if s.cache != nil {
		if key, cached = s.cache.key(ctx, limit, collectionID); cached {
			if products, ok := s.cache.load(ctx, key); ok {
				return products, nil
			}
		}
	}

	products, err := s.client.ListProducts(ctx, shopify.ProductListParams{Limit: limit, CollectionID: collectionID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch products")
	}
	if cached {
		s.cache.save(ctx, key, products)
	}
	return products, nil
}

func (s *service) enrichAll(ctx context.Context, raw []shopify.Product) ([]ProductView, error) {
	ids := make([]int64, 0, len(raw))
	for _, p := range raw {
		ids = append(ids, p.ID)
	}
	attrs, err := s.attrs.ListByProductIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product attributes")
	}
	out := make([]ProductView, 0, len(raw))
	for _, p := range raw {
		var row *models.ProductAttributes
		if a, ok := attrs[p.ID]; ok {
			row = &a
		}
		out = append(out, enrich(p, row))
	}
	return out, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.invalidate(ctx); err != nil {
		s.logg.Error(ctx, "products.cache_invalidate_failed", err)
	}
}
