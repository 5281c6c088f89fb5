package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/service"
)

type photoPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	IsFeatured   bool   `json:"isFeatured"`
	DisplayOrder int    `json:"displayOrder"`
	Status       string `json:"status"`
}

func (p photoPayload) toInput() service.PhotoInput {
	return service.PhotoInput{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		ThumbnailURL: p.ThumbnailURL,
		Category:     p.Category,
		Location:     p.Location,
		IsFeatured:   p.IsFeatured,
		DisplayOrder: p.DisplayOrder,
		Status:       p.Status,
	}
}

type photoPatchPayload struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Category     *string `json:"category"`
	Location     *string `json:"location"`
	IsFeatured   *bool   `json:"isFeatured"`
	DisplayOrder *int    `json:"displayOrder"`
	Status       *string `json:"status"`
}

func (p photoPatchPayload) toPatch() service.PhotoPatch {
	return service.PhotoPatch{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		ThumbnailURL: p.ThumbnailURL,
		Category:     p.Category,
		Location:     p.Location,
		IsFeatured:   p.IsFeatured,
		DisplayOrder: p.DisplayOrder,
		Status:       p.Status,
	}
}

type reorderPayload struct {
	AID uint `json:"a_id"`
	BID uint `json:"b_id"`
}

type displayOrderPayload struct {
	Orders []displayOrderEntry `json:"orders"`
}

type displayOrderEntry struct {
	ID           uint `json:"id"`
	DisplayOrder int  `json:"displayOrder"`
}

// ListPhotos returns a page of photos for the admin list, with optional
// filters.
func (a *API) ListPhotos(c *gin.Context) {
	filter := service.PhotoFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("per_page", "12"), 12),
	}
	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			filter.IsFeatured = &featured
		}
	}

	result, err := a.photos.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取照片列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      result.Items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// GetPhoto returns a single photo by id.
func (a *API) GetPhoto(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的照片ID")
		return
	}

	item, err := a.photos.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取照片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreatePhoto creates a new photo record.
func (a *API) CreatePhoto(c *gin.Context) {
	var payload photoPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.photos.Create(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoTitleMissing):
			respondError(c, http.StatusBadRequest, "请填写照片标题")
		case errors.Is(err, service.ErrPhotoImageMissing):
			respondError(c, http.StatusBadRequest, "请上传照片")
		case errors.Is(err, service.ErrPhotoStatusInvalid):
			respondError(c, http.StatusBadRequest, "照片状态无效")
		default:
			respondError(c, http.StatusInternalServerError, "创建照片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "照片已创建", "item": item})
}

// UpdatePhoto applies a partial update to an existing photo.
func (a *API) UpdatePhoto(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的照片ID")
		return
	}

	var payload photoPatchPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.photos.Update(id, payload.toPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		case errors.Is(err, service.ErrPhotoTitleMissing):
			respondError(c, http.StatusBadRequest, "请填写照片标题")
		case errors.Is(err, service.ErrPhotoImageMissing):
			respondError(c, http.StatusBadRequest, "请上传照片")
		case errors.Is(err, service.ErrPhotoStatusInvalid):
			respondError(c, http.StatusBadRequest, "照片状态无效")
		default:
			respondError(c, http.StatusInternalServerError, "更新照片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "照片已更新", "item": item})
}

// DeletePhoto removes a photo together with its component assignments.
func (a *API) DeletePhoto(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的照片ID")
		return
	}

	if err := a.photos.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "删除照片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "照片已删除"})
}

// ReorderPhotos swaps the display order of two photos (drag-and-drop).
func (a *API) ReorderPhotos(c *gin.Context) {
	var payload reorderPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := a.photos.ReorderPair(payload.AID, payload.BID); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		case errors.Is(err, service.ErrReorderConflict):
			// 并发拖拽冲突：返回冲突详情，前端重新拉取列表后重试
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "调整排序失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "排序已调整"})
}

// BatchDisplayOrder persists a full display-order re-index from the admin
// list. All rows apply or none do.
func (a *API) BatchDisplayOrder(c *gin.Context) {
	var payload displayOrderPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	if len(payload.Orders) == 0 {
		respondError(c, http.StatusBadRequest, "排序列表不能为空")
		return
	}

	updates := make([]service.DisplayOrderUpdate, len(payload.Orders))
	for i, entry := range payload.Orders {
		updates[i] = service.DisplayOrderUpdate{ID: entry.ID, Order: entry.DisplayOrder}
	}

	if err := a.photos.BatchSetDisplayOrder(updates); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "保存排序失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "排序已保存"})
}
