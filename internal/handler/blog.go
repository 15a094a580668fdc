package handler

import (
	"net/http"
	"strconv"

	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/models"
	"github.com/c-victorino/dishcord-web-app/internal/service"

	"github.com/gin-gonic/gin"
)

// BlogHandler serves the public pages: the home page with aggregate
// counts and the paginated blog of published posts.
type BlogHandler struct {
	Auth         *service.AuthService
	Content      *service.ContentService
	PostsPerPage int
}

func NewBlogHandler(auth *service.AuthService, content *service.ContentService, postsPerPage int) *BlogHandler {
	if postsPerPage <= 0 {
		postsPerPage = 6
	}
	return &BlogHandler{Auth: auth, Content: content, PostsPerPage: postsPerPage}
}

// Home renders the landing page with user/post/category counts. Each
// count that fails to load degrades to its own error message instead of
// failing the page.
func (h *BlogHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	view := gin.H{
		"title":   "Home",
		"state":   middleware.State(c),
		"session": user,
	}

	if userCount, err := h.Auth.UserCount(ctx); err != nil {
		view["userErr"] = "unavailable"
	} else {
		view["userCount"] = userCount
	}
	if categoryCount, err := h.Content.CategoryCount(ctx); err != nil {
		view["categoryErr"] = "unavailable"
	} else {
		view["categoryCount"] = categoryCount
	}
	if postCount, err := h.Content.PostCount(ctx); err != nil {
		view["postErr"] = "unavailable"
	} else {
		view["postCount"] = postCount
	}

	c.HTML(http.StatusOK, "home.html", view)
}

// blogViewData collects everything the blog template renders. Any
// section that fails to load carries its own message, so a partial page
// still renders.
type blogViewData struct {
	Posts         []models.Post
	Post          *models.Post
	Categories    []service.CategoryView
	Pages         []int
	CurrentPage   int
	QCategory     string
	PostMessage   string
	PageMessage   string
	CategoriesMsg string
}

// Blog renders one page of published posts, optionally filtered with
// ?category= and positioned with ?page= (default 1).
func (h *BlogHandler) Blog(c *gin.Context) {
	data := h.loadBlogPage(c)
	// highlight the first post of the page
	if len(data.Posts) > 0 {
		data.Post = &data.Posts[0]
	}
	h.renderBlog(c, data)
}

// BlogPost renders the blog page focused on one post by id.
func (h *BlogHandler) BlogPost(c *gin.Context) {
	data := h.loadBlogPage(c)

	if id, err := parseID(c.Param("id")); err == nil {
		if post, err := h.Content.GetPostByID(c.Request.Context(), id); err == nil {
			data.Post = post
		} else {
			data.PostMessage = "no results"
		}
	} else {
		data.PostMessage = "no results"
	}

	h.renderBlog(c, data)
}

func (h *BlogHandler) loadBlogPage(c *gin.Context) blogViewData {
	ctx := c.Request.Context()

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	category := c.Query("category")

	data := blogViewData{CurrentPage: page, QCategory: category}

	pages, err := h.Content.PaginationPages(ctx, h.PostsPerPage, category)
	if err != nil {
		data.PageMessage = "unable to determine needed pages"
	} else if len(pages) > 1 {
		data.Pages = pages
	}

	posts, err := h.Content.PaginatedPosts(ctx, h.PostsPerPage, page, category)
	if err != nil || len(posts) == 0 {
		data.PostMessage = "no results"
	} else {
		data.Posts = posts
	}

	categories, err := h.Content.ListCategories(ctx, viewerID(c))
	if err != nil || len(categories) == 0 {
		data.CategoriesMsg = "no categories"
	} else {
		data.Categories = categories
	}

	return data
}

func (h *BlogHandler) renderBlog(c *gin.Context, data blogViewData) {
	user, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "blog.html", gin.H{
		"title":   "Blog",
		"state":   middleware.State(c),
		"session": user,
		"data":    data,
	})
}

// UserHistory renders the caller's login history.
func (h *BlogHandler) UserHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "userHistory.html", gin.H{
		"title":   "Login History",
		"state":   middleware.State(c),
		"session": user,
	})
}

// viewerID returns the hex id of the logged-in user, or the empty
// string for anonymous visitors (who own nothing).
func viewerID(c *gin.Context) string {
	if user, ok := middleware.CurrentUser(c); ok {
		return user.ID.Hex()
	}
	return ""
}
