package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/document/service"
	"github.com/mairiedoc/mairiedoc/pkg/middleware"
)

// RegisterRoutes mounts the document endpoints under rg (expected to be
// /api/v1/documents). admin guards permanent deletion; nil leaves it open.
func RegisterRoutes(rg *gin.RouterGroup, svc *service.Service, admin gin.HandlerFunc) {
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
		var req struct {
			TemplateID int64 `json:"templateId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := svc.Create(c.Request.Context(), req.TemplateID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, d)
	})

	rg.GET("/:id", func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	rg.GET("/:id/bindings", func(c *gin.Context) {
		bs, err := svc.Bindings(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, bs)
	})

	rg.PUT("/:id/bindings/:fonction", func(c *gin.Context) {
		var req struct {
			PersonneID int64 `json:"personneId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		b, err := svc.SetBinding(c.Request.Context(), pathID(c), c.Param("fonction"), req.PersonneID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	})

	rg.DELETE("/:id/bindings/:fonction", func(c *gin.Context) {
		if err := svc.RemoveBinding(c.Request.Context(), pathID(c), c.Param("fonction")); err != nil {
			writeErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	rg.GET("/:id/render", func(c *gin.Context) {
		id := pathID(c)
		pdf, err := svc.Render(c.Request.Context(), id)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="document_%d.pdf"`, id))
		c.Data(http.StatusOK, "application/pdf", pdf)
	})

	rg.POST("/:id/archive", func(c *gin.Context) {
		d, err := svc.Archive(c.Request.Context(), pathID(c), middleware.ActorID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	rg.POST("/:id/restore", func(c *gin.Context) {
		d, err := svc.Restore(c.Request.Context(), pathID(c))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
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
