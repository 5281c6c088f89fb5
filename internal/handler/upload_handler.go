package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lenslog/internal/imageproc"
)

const (
	thumbnailMaxWidth  = 400
	thumbnailMaxHeight = 400
)

// UploadImage 处理图片上传请求，保存原图并生成缩略图
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	baseName := fmt.Sprintf("%s-%s", time.Now().Format("20060102"), uuid.New().String())
	fileName := baseName + ext
	filePath := filepath.Join(a.uploadDir, fileName)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), fileName)
	thumbnailURL := a.generateThumbnail(filePath, baseName, ext)
	if thumbnailURL == "" {
		// 缩略图失败时回退到原图
		thumbnailURL = fileURL
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "上传成功",
		"url":          fileURL,
		"thumbnailUrl": thumbnailURL,
	})
}

func (a *API) generateThumbnail(sourcePath, baseName, ext string) string {
	source, err := os.Open(sourcePath)
	if err != nil {
		return ""
	}
	defer source.Close()

	resized, _, err := imageproc.Thumbnail(source, thumbnailMaxWidth, thumbnailMaxHeight)
	if err != nil {
		return ""
	}

	thumbName := baseName + "_thumb" + ext
	thumbPath := filepath.Join(a.uploadDir, thumbName)
	thumbFile, err := os.Create(thumbPath)
	if err != nil {
		return ""
	}
	defer thumbFile.Close()

	if _, err := io.Copy(thumbFile, resized); err != nil {
		os.Remove(thumbPath)
		return ""
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), thumbName)
}
