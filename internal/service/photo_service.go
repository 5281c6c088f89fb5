package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lenslog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrPhotoTitleMissing  = errors.New("photo title is required")
	ErrPhotoImageMissing  = errors.New("photo image url is required")
	ErrPhotoStatusInvalid = errors.New("photo status is invalid")
	ErrReorderConflict    = errors.New("display order changed concurrently")
)

const (
	PhotoStatusDraft     = "draft"
	PhotoStatusPublished = "published"
)

// PhotoService handles photo CRUD and display ordering.
type PhotoService struct {
	db *gorm.DB
}

// PhotoInput represents fields accepted when creating a photo.
type PhotoInput struct {
	Title        string
	Description  string
	ImageURL     string
	ThumbnailURL string
	Category     string
	Location     string
	IsFeatured   bool
	DisplayOrder int
	Status       string
}

// PhotoPatch carries partial updates; nil fields keep their prior value.
type PhotoPatch struct {
	Title        *string
	Description  *string
	ImageURL     *string
	ThumbnailURL *string
	Category     *string
	Location     *string
	IsFeatured   *bool
	DisplayOrder *int
	Status       *string
}

// PhotoFilter describes filters for listing photos.
type PhotoFilter struct {
	Status        string
	Category      string
	IsFeatured    *bool
	PublishedOnly bool
	Page          int
	PerPage       int
}

// PhotoListResult aggregates paginated photo results.
type PhotoListResult struct {
	Items      []db.Photo
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// DisplayOrderUpdate pairs a photo id with its new display order.
type DisplayOrderUpdate struct {
	ID    uint
	Order int
}

// NewPhotoService creates a PhotoService instance.
func NewPhotoService(gdb *gorm.DB) *PhotoService {
	return &PhotoService{db: gdb}
}

// Create inserts a new photo record. Status defaults to draft.
func (s *PhotoService) Create(input PhotoInput) (*db.Photo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrPhotoTitleMissing
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, ErrPhotoImageMissing
	}
	status, err := normalizePhotoStatus(input.Status)
	if err != nil {
		return nil, err
	}

	item := db.Photo{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		Category:     strings.TrimSpace(input.Category),
		Location:     strings.TrimSpace(input.Location),
		IsFeatured:   input.IsFeatured,
		DisplayOrder: input.DisplayOrder,
		Status:       status,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Get fetches a photo by id.
func (s *PhotoService) Get(id uint) (*db.Photo, error) {
	var item db.Photo
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListAll returns every photo ordered by display_order then id. Equal
// display orders fall back to id so the ordering stays deterministic.
func (s *PhotoService) ListAll() ([]db.Photo, error) {
	var items []db.Photo
	if err := s.db.Order("display_order asc").Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List returns a page of photos matching the filter, with the total count
// taken before the page window is applied.
func (s *PhotoService) List(filter PhotoFilter) (PhotoListResult, error) {
	result := PhotoListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 12),
	}

	query := s.db.Model(&db.Photo{})
	if filter.PublishedOnly {
		query = query.Where("status = ?", PhotoStatusPublished)
	} else if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("display_order asc").Order("id asc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Update applies a partial patch to an existing photo.
func (s *PhotoService) Update(id uint, patch PhotoPatch) (*db.Photo, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrPhotoTitleMissing
	}
	if patch.ImageURL != nil && strings.TrimSpace(*patch.ImageURL) == "" {
		return nil, ErrPhotoImageMissing
	}
	if patch.Status != nil {
		status, err := normalizePhotoStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		item.Status = status
	}

	applyString(&item.Title, patch.Title)
	applyString(&item.Description, patch.Description)
	applyString(&item.ImageURL, patch.ImageURL)
	applyString(&item.ThumbnailURL, patch.ThumbnailURL)
	applyString(&item.Category, patch.Category)
	applyString(&item.Location, patch.Location)
	if patch.IsFeatured != nil {
		item.IsFeatured = *patch.IsFeatured
	}
	if patch.DisplayOrder != nil {
		item.DisplayOrder = *patch.DisplayOrder
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a photo and all assignments referencing it in one
// transaction. A reader never observes the photo gone while its
// assignments remain, nor the reverse.
func (s *PhotoService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item db.Photo
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return err
		}

		if err := deleteAssignmentsByPhoto(tx, id); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// SetDisplayOrder updates a single photo's display order.
func (s *PhotoService) SetDisplayOrder(id uint, order int) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Model(item).Update("display_order", order).Error
}

// BatchSetDisplayOrder applies a full re-index of display orders in one
// transaction. Any unknown id rolls the whole batch back.
func (s *PhotoService) BatchSetDisplayOrder(updates []DisplayOrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			res := tx.Model(&db.Photo{}).
				Where("id = ?", update.ID).
				Update("display_order", update.Order)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrPhotoNotFound
			}
		}
		return nil
	})
}

// ReorderPair swaps the display orders of two photos as one atomic unit.
// Each write is guarded by the order value read at the start, so a
// concurrent swap touching either photo rolls the whole pair back and
// surfaces ErrReorderConflict with both ids.
func (s *PhotoService) ReorderPair(aID, bID uint) error {
	if aID == bID {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var a, b db.Photo
		if err := tx.First(&a, aID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return err
		}
		if err := tx.First(&b, bID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return err
		}

		res := tx.Model(&db.Photo{}).
			Where("id = ? AND display_order = ?", a.ID, a.DisplayOrder).
			Update("display_order", b.DisplayOrder)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return reorderConflict(aID, bID)
		}

		res = tx.Model(&db.Photo{}).
			Where("id = ? AND display_order = ?", b.ID, b.DisplayOrder).
			Update("display_order", a.DisplayOrder)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return reorderConflict(aID, bID)
		}

		return nil
	})
}

func reorderConflict(aID, bID uint) error {
	return fmt.Errorf("%w: photos %d and %d", ErrReorderConflict, aID, bID)
}

func normalizePhotoStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return PhotoStatusDraft, nil
	}
	if status != PhotoStatusDraft && status != PhotoStatusPublished {
		return "", ErrPhotoStatusInvalid
	}
	return status, nil
}

func applyString(target *string, source *string) {
	if source != nil {
		*target = *source
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
