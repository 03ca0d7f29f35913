package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/models"
)

// settingsStore is a process-wide scalar key/value store, independent of any
// project's own Settings — it holds ambient server-side toggles (e.g.
// feature flags) that aren't worth a migration.
var settingsStore sync.Map

// GetSetting returns a handler for GET /api/settings/{key}.
func GetSetting(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		v, ok := settingsStore.Load(key)
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "setting not found"})
			return
		}
		c.JSON(http.StatusOK, models.SettingValue{Key: key, Value: v})
	}
}

// PutSetting returns a handler for PUT /api/settings/{key}.
func PutSetting(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		var body struct {
			Value any `json:"value"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: err.Error(), Field: "value"})
			return
		}
		settingsStore.Store(key, body.Value)
		c.JSON(http.StatusOK, models.SettingValue{Key: key, Value: body.Value})
	}
}
