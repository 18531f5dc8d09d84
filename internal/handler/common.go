package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// IDUri 路徑中的 :id (活動或回覆)
type IDUri struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// BindID 解析 :id；失敗時已回應 400
func BindID(c *gin.Context) (uuid.UUID, bool) {
	var uri IDUri
	if err := BindUri(c, &uri); err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(uri.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return uuid.Nil, false
	}
	return id, true
}

// QRQuery /qr.png 的查詢參數；size 優先於 compact
type QRQuery struct {
	Size     int  `form:"size" binding:"omitempty,min=1"`
	Compact  bool `form:"compact"`
	Download bool `form:"download"`
}
