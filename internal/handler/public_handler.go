package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type publicPhotoView struct {
	db.Photo
	DescriptionHTML template.HTML `json:"descriptionHtml"`
}

type componentFeedItem struct {
	ID            uint               `json:"id"`
	ComponentName string             `json:"componentName"`
	PhotoID       uint               `json:"photoId"`
	Order         int                `json:"order"`
	Props         db.AssignmentProps `json:"props"`
	Photo         *publicPhotoView   `json:"photo,omitempty"`
}

// ListPublicPhotos returns the published photo wall. Store errors degrade
// to an empty list so the visitor never sees a failure.
func (a *API) ListPublicPhotos(c *gin.Context) {
	items, err := a.reader.PublishedPhotos()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"items": []publicPhotoView{}})
		return
	}

	views := make([]publicPhotoView, len(items))
	for i, item := range items {
		views[i] = toPublicPhotoView(item)
	}

	c.JSON(http.StatusOK, gin.H{"items": views})
}

// ComponentPhotos returns the ordered photo feed for one component slot.
// Store errors degrade to an empty list.
func (a *API) ComponentPhotos(c *gin.Context) {
	componentName := c.Param("name")

	items, err := a.reader.ComponentFeed(componentName)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"items": []componentFeedItem{}})
		return
	}

	feed := make([]componentFeedItem, len(items))
	for i, item := range items {
		feed[i] = componentFeedItem{
			ID:            item.ID,
			ComponentName: item.ComponentName,
			PhotoID:       item.PhotoID,
			Order:         item.SortOrder,
			Props:         item.Props,
		}
		if item.Photo != nil {
			view := toPublicPhotoView(*item.Photo)
			feed[i].Photo = &view
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": feed})
}

func toPublicPhotoView(item db.Photo) publicPhotoView {
	view := publicPhotoView{Photo: item}
	if item.Description != "" {
		if rendered, err := renderMarkdown(item.Description); err == nil {
			view.DescriptionHTML = rendered
		}
	}
	return view
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
