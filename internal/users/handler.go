package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/pkg/middleware"
)

// RegisterRoutes mounts the user administration endpoints under rg
// (expected to be /api/v1/users, admin-gated by the caller).
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
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
		var in RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	})

	rg.GET("/:id", func(c *gin.Context) {
		u, err := svc.Get(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	rg.POST("/:id/archive", func(c *gin.Context) {
		u, err := svc.Archive(c.Request.Context(), pathID(c), middleware.ActorID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	rg.POST("/:id/restore", func(c *gin.Context) {
		u, err := svc.Restore(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
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
