package service

import (
	"context"

	"shopwise-web/internal/models"
)

// ProductCatalog is the product storage used by the management API.
type ProductCatalog interface {
	ProductStore
	ProductLister
	FindByID(ctx context.Context, owner, id string) (*models.Product, error)
	List(ctx context.Context, owner string, filter models.ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, owner, id string) error
	Categories(ctx context.Context, owner string) ([]string, error)
}

type ProductService struct {
	repo       ProductCatalog
	classifier *Classifier
	dashboard  DashboardInvalidator
}

func NewProductService(repo ProductCatalog, classifier *Classifier, dashboard DashboardInvalidator) *ProductService {
	return &ProductService{
		repo:       repo,
		classifier: classifier,
		dashboard:  dashboard,
	}
}

func (s *ProductService) List(ctx context.Context, owner string, filter models.ProductFilter) ([]models.ClassifiedProduct, int64, error) {
	products, total, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.classifier.ClassifyAll(products), total, nil
}

func (s *ProductService) Get(ctx context.Context, owner, id string) (*models.ClassifiedProduct, error) {
	p, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return s.classify(*p), nil
}

func (s *ProductService) Classification(ctx context.Context, owner, id string) (*models.Classification, error) {
	p, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	c := s.classifier.Classify(*p)
	return &c, nil
}

// Create adds a manually entered product.
func (s *ProductService) Create(ctx context.Context, owner string, req models.ProductRequest) (*models.ClassifiedProduct, error) {
	p := req.ToProduct(owner)
	if err := s.repo.InsertProduct(ctx, owner, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner)
	return s.classify(*p), nil
}

// Update replaces every editable field of a product.
func (s *ProductService) Update(ctx context.Context, owner, id string, req models.ProductRequest) (*models.ClassifiedProduct, error) {
	existing, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	p := req.ToProduct(owner)
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner)
	return s.classify(*p), nil
}

func (s *ProductService) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

func (s *ProductService) Categories(ctx context.Context, owner string) ([]string, error) {
	return s.repo.Categories(ctx, owner)
}

func (s *ProductService) classify(p models.Product) *models.ClassifiedProduct {
	return &models.ClassifiedProduct{Product: p, Classification: s.classifier.Classify(p)}
}

func (s *ProductService) invalidate(ctx context.Context, owner string) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, owner)
	}
}
