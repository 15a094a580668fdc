package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const viewStateKey = "viewState"

// ViewState is the per-request presentation state the navigation
// templates need. Each request computes its own copy; there is no
// process-wide active-route variable.
type ViewState struct {
	ActiveRoute     string
	ViewingCategory string
}

// Locals derives the view state for this request and stores it in the
// context for handlers to pass into renders. The active route is the
// first path segment, so /posts/delete/3 highlights the /posts section.
func Locals() gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Split(strings.TrimPrefix(c.Request.URL.Path, "/"), "/")
		active := "/"
		if len(parts) > 0 && parts[0] != "" {
			active = "/" + parts[0]
		}
		c.Set(viewStateKey, ViewState{
			ActiveRoute:     active,
			ViewingCategory: c.Query("category"),
		})
		c.Next()
	}
}

// State returns the view state placed by Locals. A zero value comes
// back for requests that skipped the middleware.
func State(c *gin.Context) ViewState {
	v, ok := c.Get(viewStateKey)
	if !ok {
		return ViewState{ActiveRoute: "/"}
	}
	state, ok := v.(ViewState)
	if !ok {
		return ViewState{ActiveRoute: "/"}
	}
	return state
}
