package handler

import (
	"net/http"

	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/service"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the authenticated category pages.
type CategoryHandler struct {
	Content *service.ContentService
}

func NewCategoryHandler(content *service.ContentService) *CategoryHandler {
	return &CategoryHandler{Content: content}
}

// List shows all categories annotated with the caller's ownership.
func (h *CategoryHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	categories, err := h.Content.ListCategories(c.Request.Context(), user.ID.Hex())
	if err != nil {
		h.renderCategories(c, nil, "unable to load categories")
		return
	}
	if len(categories) == 0 {
		h.renderCategories(c, nil, "no results")
		return
	}
	h.renderCategories(c, categories, "")
}

func (h *CategoryHandler) renderCategories(c *gin.Context, categories []service.CategoryView, message string) {
	user, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "categories.html", gin.H{
		"title":      "Categories",
		"state":      middleware.State(c),
		"session":    user,
		"categories": categories,
		"message":    message,
	})
}

// NewForm renders the add-category form.
func (h *CategoryHandler) NewForm(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "addCategory.html", gin.H{
		"title":   "Add Category",
		"state":   middleware.State(c),
		"session": user,
	})
}

// Create stores a new category owned by the caller.
func (h *CategoryHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if _, err := h.Content.AddCategory(c.Request.Context(), c.PostForm("category"), user.ID.Hex()); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to create category")
		return
	}
	c.Redirect(http.StatusFound, "/categories")
}

// Delete removes a category the caller owns; posts keep their label
// reference. Non-owner requests are no-ops.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/categories")
		return
	}

	if err := h.Content.DeleteCategoryByID(c.Request.Context(), id, user.ID.Hex()); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to delete category")
		return
	}
	c.Redirect(http.StatusFound, "/categories")
}
