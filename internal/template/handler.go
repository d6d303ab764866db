package template

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/pkg/middleware"
)

// RegisterRoutes mounts the template endpoints under rg (expected to be
// /api/v1/templates). admin guards permanent deletion; nil leaves it open.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service, admin gin.HandlerFunc) {
	if admin == nil {
		admin = func(*gin.Context) {}
	}
	rg.GET("", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	rg.GET("/archived", func(c *gin.Context) {
		list, err := svc.ListArchived(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	rg.POST("", func(c *gin.Context) {
		var in Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	})

	rg.GET("/:id", func(c *gin.Context) {
		t, err := svc.Get(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		var in Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, err := svc.Update(c.Request.Context(), pathID(c), in)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	rg.GET("/:id/placeholders", func(c *gin.Context) {
		names, err := svc.Placeholders(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"placeholders": names})
	})

	rg.POST("/:id/archive", func(c *gin.Context) {
		t, err := svc.Archive(c.Request.Context(), pathID(c), middleware.ActorID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	rg.POST("/:id/restore", func(c *gin.Context) {
		t, err := svc.Restore(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	rg.DELETE("/:id", admin, func(c *gin.Context) {
		if err := svc.PermanentlyDelete(c.Request.Context(), pathID(c)); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})
}

func pathID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}

func writeErr(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
