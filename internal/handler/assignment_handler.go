package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/db"
	"github.com/lenslog/internal/service"
)

type assignmentPayload struct {
	ComponentName string            `json:"componentName"`
	PhotoID       uint              `json:"photoId"`
	Order         int               `json:"order"`
	Props         map[string]string `json:"props"`
}

func (p assignmentPayload) toInput() service.AssignmentInput {
	var props db.AssignmentProps
	for key, value := range p.Props {
		switch key {
		case "caption":
			props.Caption = value
		case "alt":
			props.Alt = value
		case "link":
			props.Link = value
		default:
			if props.Extra == nil {
				props.Extra = make(map[string]string)
			}
			props.Extra[key] = value
		}
	}

	return service.AssignmentInput{
		ComponentName: p.ComponentName,
		PhotoID:       p.PhotoID,
		SortOrder:     p.Order,
		Props:         props,
	}
}

// CreateAssignment assigns a photo to a front-end component slot.
func (a *API) CreateAssignment(c *gin.Context) {
	var payload assignmentPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	// 先校验照片存在，插入事务内还会再查一次，防止中途被删除
	if _, err := a.photos.Get(payload.PhotoID); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "分配照片失败")
		}
		return
	}

	item, err := a.assignments.Assign(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComponentNameMissing):
			respondError(c, http.StatusBadRequest, "请填写组件名称")
		case errors.Is(err, service.ErrPhotoNotFound):
			respondError(c, http.StatusNotFound, "照片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "分配照片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "照片已分配", "item": item})
}

// ListAssignmentsByPhoto returns all slots a photo is assigned to.
func (a *API) ListAssignmentsByPhoto(c *gin.Context) {
	photoID, err := parseUintQuery(c, "photo_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的照片ID")
		return
	}

	items, err := a.assignments.ListByPhoto(photoID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分配记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// DeleteAssignment removes a photo from a component slot.
func (a *API) DeleteAssignment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分配ID")
		return
	}

	if err := a.assignments.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			respondError(c, http.StatusNotFound, "分配记录不存在")
		default:
			respondError(c, http.StatusInternalServerError, "删除分配记录失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "分配记录已删除"})
}
