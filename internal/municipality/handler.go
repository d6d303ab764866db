package municipality

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
)

// RegisterRoutes mounts the municipality endpoints under rg (expected to be
// /api/v1/mairie).
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.GET("", func(c *gin.Context) {
		m, err := svc.Get(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	})

	rg.PUT("", func(c *gin.Context) {
		var in Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m, err := svc.Update(c.Request.Context(), in)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	})

	rg.POST("/logo", func(c *gin.Context) {
		fh, err := c.FormFile("logo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "logo file missing"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		key, err := svc.UploadLogo(c.Request.Context(), fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"logoKey": key})
	})

	rg.GET("/logo", func(c *gin.Context) {
		url, err := svc.LogoURL(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	})
}

func writeErr(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
