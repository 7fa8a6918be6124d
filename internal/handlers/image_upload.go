package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jewelme/internal/uploads"
)

// maxImageBytes caps a single product image upload.
const maxImageBytes = 10 << 20

type ImageDeleteRequest struct {
	PublicID string `json:"publicId" binding:"required"`
}

/*
POST /api/images
- multipart upload of a single "image" file to Cloudinary
*/
func UploadImage(store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/images"
		defer handlePanic(c, route)

		if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "multipart/form-data required"})
			return
		}

		header, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
			return
		}
		if header.Size > maxImageBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		url, publicID, err := store.Upload(ctx, file)
		if err != nil {
			log.Println("UploadImage upload error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"url":      url,
			"publicId": publicID,
		})
	}
}

/*
DELETE /api/images
*/
func DeleteImage(store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/images"
		defer handlePanic(c, route)

		var req ImageDeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		if err := store.Destroy(ctx, req.PublicID); err != nil {
			log.Println("DeleteImage destroy error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "image deleted"})
	}
}
