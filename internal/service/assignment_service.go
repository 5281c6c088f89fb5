package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lenslog/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrComponentNameMissing = errors.New("component name is required")
)

// AssignmentService links photos to named front-end component slots.
type AssignmentService struct {
	db *gorm.DB
}

// AssignmentInput represents fields accepted when assigning a photo to a slot.
type AssignmentInput struct {
	ComponentName string
	PhotoID       uint
	SortOrder     int
	Props         db.AssignmentProps
}

// AssignmentView is an assignment with decoded props and, for component
// feeds, the current photo record joined at read time.
type AssignmentView struct {
	ID            uint               `json:"id"`
	ComponentName string             `json:"componentName"`
	PhotoID       uint               `json:"photoId"`
	SortOrder     int                `json:"order"`
	Props         db.AssignmentProps `json:"props"`
	Photo         *db.Photo          `json:"photo,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// NewAssignmentService creates an AssignmentService instance.
func NewAssignmentService(gdb *gorm.DB) *AssignmentService {
	return &AssignmentService{db: gdb}
}

// Assign creates a new assignment. The photo's existence is re-checked
// inside the insert transaction, so a photo deleted between the caller's
// own check and the insert fails here instead of leaving a dangling link.
func (s *AssignmentService) Assign(input AssignmentInput) (*AssignmentView, error) {
	componentName := strings.TrimSpace(input.ComponentName)
	if componentName == "" {
		return nil, ErrComponentNameMissing
	}

	item := db.Assignment{
		ComponentName: componentName,
		PhotoID:       input.PhotoID,
		SortOrder:     input.SortOrder,
	}
	if !input.Props.IsZero() {
		raw, err := json.Marshal(input.Props)
		if err != nil {
			return nil, err
		}
		item.Props = datatypes.JSON(raw)
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var photo db.Photo
		if err := tx.First(&photo, input.PhotoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return err
		}
		return tx.Create(&item).Error
	}); err != nil {
		return nil, err
	}

	view, err := toAssignmentView(item)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListByComponent returns a slot's assignments ordered by sort_order then
// id, each joined with the current photo record.
func (s *AssignmentService) ListByComponent(componentName string) ([]AssignmentView, error) {
	return listComponentViews(s.db, componentName)
}

// ListByPhoto returns every assignment referencing a photo. Used by the
// admin edit view; ordering is not significant here.
func (s *AssignmentService) ListByPhoto(photoID uint) ([]AssignmentView, error) {
	var items []db.Assignment
	if err := s.db.Where("photo_id = ?", photoID).Find(&items).Error; err != nil {
		return nil, err
	}

	views := make([]AssignmentView, len(items))
	for i, item := range items {
		view, err := toAssignmentView(item)
		if err != nil {
			return nil, err
		}
		views[i] = view
	}
	return views, nil
}

// Delete removes a single assignment. There is no update in place:
// changing a slot's entry is delete plus recreate.
func (s *AssignmentService) Delete(id uint) error {
	var item db.Assignment
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return s.db.Delete(&item).Error
}

// DeleteByPhoto removes every assignment referencing a photo.
func (s *AssignmentService) DeleteByPhoto(photoID uint) error {
	return deleteAssignmentsByPhoto(s.db, photoID)
}

func deleteAssignmentsByPhoto(tx *gorm.DB, photoID uint) error {
	return tx.Where("photo_id = ?", photoID).Delete(&db.Assignment{}).Error
}

func listComponentViews(gdb *gorm.DB, componentName string) ([]AssignmentView, error) {
	var items []db.Assignment
	if err := gdb.Preload("Photo").
		Where("component_name = ?", componentName).
		Order("sort_order asc").Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	views := make([]AssignmentView, len(items))
	for i, item := range items {
		view, err := toAssignmentView(item)
		if err != nil {
			return nil, err
		}
		if item.Photo.ID != 0 {
			photo := item.Photo
			view.Photo = &photo
		}
		views[i] = view
	}
	return views, nil
}

func toAssignmentView(item db.Assignment) (AssignmentView, error) {
	view := AssignmentView{
		ID:            item.ID,
		ComponentName: item.ComponentName,
		PhotoID:       item.PhotoID,
		SortOrder:     item.SortOrder,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if len(item.Props) > 0 {
		if err := json.Unmarshal(item.Props, &view.Props); err != nil {
			return view, fmt.Errorf("decode props of assignment %d: %w", item.ID, err)
		}
	}
	return view, nil
}
