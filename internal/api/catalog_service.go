package api

import (
	"context"
	"log/slog"
	"strings"

	"adflow/internal/logging"
	"adflow/internal/services"
	"adflow/internal/store"
)

// CatalogService owns products, ICPs, and concepts.
type CatalogService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(st *store.Store, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CatalogService{store: st, logger: logging.WithComponent(logger, "catalog-service")}
}

func requireName(name, entity, operation string) error {
	if strings.TrimSpace(name) == "" {
		return services.Wrap(services.ErrValidation, entity, operation, "name is required", nil)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *store.Product) (*store.Product, error) {
	if err := requireName(product.Name, "product", "create"); err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, storeError("product", "create", err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*store.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError("product", "get", err)
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*store.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, storeError("product", "list", err)
	}
	return products, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *store.Product) (*store.Product, error) {
	if err := requireName(product.Name, "product", "update"); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, storeError("product", "update", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return storeError("product", "delete", err)
	}
	return nil
}

func (s *CatalogService) CreateICP(ctx context.Context, icp *store.ICP) (*store.ICP, error) {
	if err := requireName(icp.Name, "icp", "create"); err != nil {
		return nil, err
	}
	if err := s.store.CreateICP(ctx, icp); err != nil {
		return nil, storeError("icp", "create", err)
	}
	return icp, nil
}

func (s *CatalogService) GetICP(ctx context.Context, id string) (*store.ICP, error) {
	icp, err := s.store.GetICP(ctx, id)
	if err != nil {
		return nil, storeError("icp", "get", err)
	}
	return icp, nil
}

func (s *CatalogService) ListICPs(ctx context.Context) ([]*store.ICP, error) {
	icps, err := s.store.ListICPs(ctx)
	if err != nil {
		return nil, storeError("icp", "list", err)
	}
	return icps, nil
}

func (s *CatalogService) UpdateICP(ctx context.Context, icp *store.ICP) (*store.ICP, error) {
	if err := requireName(icp.Name, "icp", "update"); err != nil {
		return nil, err
	}
	if err := s.store.UpdateICP(ctx, icp); err != nil {
		return nil, storeError("icp", "update", err)
	}
	return icp, nil
}

func (s *CatalogService) DeleteICP(ctx context.Context, id string) error {
	if err := s.store.DeleteICP(ctx, id); err != nil {
		return storeError("icp", "delete", err)
	}
	return nil
}

func (s *CatalogService) CreateConcept(ctx context.Context, concept *store.Concept) (*store.Concept, error) {
	if err := requireName(concept.Title, "concept", "create"); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProduct(ctx, concept.ProductID); err != nil {
		return nil, storeError("product", "lookup", err)
	}
	if _, err := s.store.GetICP(ctx, concept.ICPID); err != nil {
		return nil, storeError("icp", "lookup", err)
	}
	if err := s.store.CreateConcept(ctx, concept); err != nil {
		return nil, storeError("concept", "create", err)
	}
	return concept, nil
}

func (s *CatalogService) GetConcept(ctx context.Context, id string) (*store.Concept, error) {
	concept, err := s.store.GetConcept(ctx, id)
	if err != nil {
		return nil, storeError("concept", "get", err)
	}
	return concept, nil
}

func (s *CatalogService) ListConcepts(ctx context.Context, productID string) ([]*store.Concept, error) {
	concepts, err := s.store.ListConcepts(ctx, productID)
	if err != nil {
		return nil, storeError("concept", "list", err)
	}
	return concepts, nil
}

// UpdateConcept applies field and status changes; unknown statuses are
// rejected before the write.
func (s *CatalogService) UpdateConcept(ctx context.Context, concept *store.Concept) (*store.Concept, error) {
	if err := requireName(concept.Title, "concept", "update"); err != nil {
		return nil, err
	}
	if concept.Status != "" {
		if _, ok := store.ParseConceptStatus(string(concept.Status)); !ok {
			return nil, services.Wrap(services.ErrValidation, "concept", "update",
				"unknown status "+string(concept.Status), nil)
		}
	}
	if err := s.store.UpdateConcept(ctx, concept); err != nil {
		return nil, storeError("concept", "update", err)
	}
	return concept, nil
}

func (s *CatalogService) DeleteConcept(ctx context.Context, id string) error {
	if err := s.store.DeleteConcept(ctx, id); err != nil {
		return storeError("concept", "delete", err)
	}
	return nil
}
