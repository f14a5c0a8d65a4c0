package services

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"collegecart/internal/domain"
	"collegecart/internal/repos"
	"collegecart/internal/validate"
)

const thumbWidth = 320

type CatalogService struct {
	Prods    *repos.ProductRepo
	MediaDir string
}

func NewCatalogService(prods *repos.ProductRepo, mediaDir string) *CatalogService {
	return &CatalogService{Prods: prods, MediaDir: mediaDir}
}

type ProductInput struct {
	Name        string
	Description string
	Category    string
	Condition   string
	Price       float64
}

func (s *CatalogService) Create(sellerID string, in ProductInput) (domain.Product, error) {
	p := domain.Product{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Condition:   in.Condition,
		Price:       in.Price,
		Status:      domain.ProductAvailable,
	}
	if err := s.Prods.Create(&p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Update applies seller edits. Only the owning seller may mutate a listing.
func (s *CatalogService) Update(sellerID, id string, in ProductInput, status string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.SellerID != sellerID {
		return domain.Product{}, domain.ErrForbidden
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Condition = in.Condition
	p.Price = in.Price
	if status != "" {
		st, ok := validate.ProductStatus(status)
		if !ok {
			return domain.Product{}, domain.Invalid("status", "must be available, reserved or delivered")
		}
		p.Status = st
	}
	if err := s.Prods.Update(&p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(id)
}

func (s *CatalogService) Delete(sellerID, id string) error {
	p, err := s.Prods.Get(id)
	if err != nil {
		return err
	}
	if p.SellerID != sellerID {
		return domain.ErrForbidden
	}
	return s.Prods.Delete(id)
}

func (s *CatalogService) Search(f repos.SearchFilter) ([]domain.Product, error) {
	return s.Prods.Search(f)
}

func (s *CatalogService) Mine(sellerID string) ([]domain.Product, error) {
	return s.Prods.ListBySeller(sellerID)
}

// AddImage stores an uploaded listing photo plus a thumbnail and records
// both paths on the product. Returns the media-relative paths.
func (s *CatalogService) AddImage(sellerID, productID string, src io.Reader) ([]string, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, domain.ErrForbidden
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, domain.Invalid("image", "unsupported or corrupt image")
	}

	dir := filepath.Join(s.MediaDir, "products", productID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	base := uuid.NewString()
	full := fmt.Sprintf("products/%s/%s.jpg", productID, base)
	thumb := fmt.Sprintf("products/%s/%s_thumb.jpg", productID, base)

	if err := writeJPEG(filepath.Join(s.MediaDir, full), img); err != nil {
		return nil, err
	}
	small := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
	if err := writeJPEG(filepath.Join(s.MediaDir, thumb), small); err != nil {
		return nil, err
	}

	paths := []string{full, thumb}
	if err := s.Prods.AppendImages(productID, paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
}
