package templates

import (
	"log"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// RenderTempl writes component as the HTML response. Pages are marked
// private and uncacheable.
func RenderTempl(c *gin.Context, status int, component templ.Component) {
	header := c.Writer.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Cache-Control", "private, no-store")
	header.Set("X-Content-Type-Options", "nosniff")
	c.Status(status)

	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		// the status line may already be out
		log.Printf("[Templates] render %s: %v", c.Request.URL.Path, err)
		_ = c.Error(err)
	}
}
