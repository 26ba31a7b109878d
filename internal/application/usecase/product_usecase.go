package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/catalog"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Stock y reservado se manejan solo vía el ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con stock 0. La ficha técnica se decodifica según la categoría,
// se completa con los valores sugeridos si se pide y se valida antes de guardarla.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.MinimumStockLevel < 0 || in.ReorderQuantity < 0 {
		return nil, fmt.Errorf("%w: minimum_stock_level y reorder_quantity no pueden ser negativos", domain.ErrInvalidInput)
	}
	category, err := catalog.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	spec, err := buildSpecification(category, in.Specification, in.UseDefaults, in.Kit)
	if err != nil {
		return nil, err
	}
	raw, err := catalog.Encode(spec)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               in.SKU,
		Name:              in.Name,
		Description:       in.Description,
		Category:          string(category),
		Price:             in.Price,
		LastPurchasePrice: decimal.Zero,
		MinimumStockLevel: in.MinimumStockLevel,
		ReorderQuantity:   in.ReorderQuantity,
		Specification:     raw,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Defaults ficha sugerida para una categoría ("llenado rápido" del formulario).
func (uc *ProductUseCase) Defaults(category string, kit dto.DefaultsContext) (json.RawMessage, error) {
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	spec, err := catalog.DefaultsFor(c, catalog.DefaultsContext{Technology: kit.Technology, Channels: kit.Channels})
	if err != nil {
		return nil, err
	}
	return catalog.Encode(spec)
}

func buildSpecification(category catalog.Category, raw json.RawMessage, useDefaults bool, kit dto.DefaultsContext) (catalog.Specification, error) {
	spec, err := catalog.Decode(category, raw)
	if err != nil {
		return nil, err
	}
	if useDefaults {
		defs, err := catalog.DefaultsFor(category, catalog.DefaultsContext{Technology: kit.Technology, Channels: kit.Channels})
		if err != nil {
			return nil, err
		}
		if spec, err = catalog.ApplyDefaults(spec, defs); err != nil {
			return nil, err
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
