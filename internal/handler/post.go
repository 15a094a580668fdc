package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/service"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
)

// Uploader stores an uploaded image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// PostHandler serves the authenticated post management pages.
type PostHandler struct {
	Content  *service.ContentService
	Uploader Uploader
}

func NewPostHandler(content *service.ContentService, uploader Uploader) *PostHandler {
	return &PostHandler{Content: content, Uploader: uploader}
}

// List shows the caller's view of all posts, optionally filtered by
// ?category= or ?minDate= (YYYY-MM-DD).
func (h *PostHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	viewer := user.ID.Hex()
	ctx := c.Request.Context()

	var (
		posts []service.PostView
		err   error
	)
	category := c.Query("category")
	minDateStr := c.Query("minDate")

	switch {
	case category != "":
		posts, err = h.Content.ListPostsByCategory(ctx, category, viewer)
	case minDateStr != "":
		var minDate time.Time
		minDate, err = time.Parse("2006-01-02", minDateStr)
		if err != nil {
			h.renderPosts(c, nil, "minDate must be formatted as YYYY-MM-DD")
			return
		}
		posts, err = h.Content.ListPostsByMinDate(ctx, minDate, viewer)
	default:
		posts, err = h.Content.ListAllPosts(ctx, viewer)
	}

	if err != nil {
		h.renderPosts(c, nil, "unable to load posts")
		return
	}
	if len(posts) == 0 {
		h.renderPosts(c, nil, "no results")
		return
	}
	h.renderPosts(c, posts, "")
}

func (h *PostHandler) renderPosts(c *gin.Context, posts []service.PostView, message string) {
	user, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "posts.html", gin.H{
		"title":   "Posts",
		"state":   middleware.State(c),
		"session": user,
		"posts":   posts,
		"message": message,
	})
}

// Get returns a single post as JSON.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post id")
		return
	}

	post, err := h.Content.GetPostByID(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no results returned")
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to load post")
		return
	}

	util.Success(c, util.Response{"post": post})
}

// NewForm renders the add-post form with the category choices.
func (h *PostHandler) NewForm(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	categories, err := h.Content.ListCategories(c.Request.Context(), user.ID.Hex())
	if err != nil {
		categories = nil
	}
	c.HTML(http.StatusOK, "addPost.html", gin.H{
		"title":      "Add Post",
		"state":      middleware.State(c),
		"session":    user,
		"categories": categories,
	})
}

// Create stores a new post owned by the caller. A failed image upload
// aborts the creation.
func (h *PostHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	imageURL, err := h.uploadFeatureImage(c)
	if err != nil {
		util.Error(c, http.StatusBadGateway, util.CodeServerErr, "image upload failed")
		return
	}

	data := service.PostData{
		Title:        c.PostForm("title"),
		Body:         c.PostForm("body"),
		Published:    c.PostForm("published"),
		Category:     c.PostForm("category"),
		FeatureImage: imageURL,
	}

	if _, err := h.Content.CreatePost(ctx, data, user.ID.Hex()); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to create post")
		return
	}
	c.Redirect(http.StatusFound, "/posts")
}

// EditForm renders the edit form for a post the caller owns; others are
// sent back to the list.
func (h *PostHandler) EditForm(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/posts")
		return
	}

	owner, err := h.Content.PostOwner(ctx, id)
	if err != nil || owner != user.ID.Hex() {
		c.Redirect(http.StatusFound, "/posts")
		return
	}

	post, err := h.Content.GetPostByID(ctx, id)
	if err != nil {
		c.Redirect(http.StatusFound, "/posts")
		return
	}
	categories, err := h.Content.ListCategories(ctx, user.ID.Hex())
	if err != nil {
		categories = nil
	}

	c.HTML(http.StatusOK, "addPost.html", gin.H{
		"title":      "Edit Post",
		"state":      middleware.State(c),
		"session":    user,
		"update":     post,
		"postId":     post.ID,
		"categories": categories,
	})
}

// Update edits a post. The ownership filter lives inside the update
// statement; an edit to somebody else's post is a silent no-op and the
// caller lands back on the list either way.
func (h *PostHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/posts")
		return
	}

	imageURL, err := h.uploadFeatureImage(c)
	if err != nil {
		util.Error(c, http.StatusBadGateway, util.CodeServerErr, "image upload failed")
		return
	}

	data := service.PostData{
		Title:        c.PostForm("title"),
		Body:         c.PostForm("body"),
		Published:    c.PostForm("published"),
		Category:     c.PostForm("category"),
		FeatureImage: imageURL,
	}

	if err := h.Content.UpdatePost(ctx, id, user.ID.Hex(), data); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to update post")
		return
	}
	c.Redirect(http.StatusFound, "/posts")
}

// Delete removes a post the caller owns. A non-owner's request is a
// no-op that still redirects back to the list.
func (h *PostHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/posts")
		return
	}

	if err := h.Content.DeletePostByID(c.Request.Context(), id, user.ID.Hex()); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to delete post")
		return
	}
	c.Redirect(http.StatusFound, "/posts")
}

// uploadFeatureImage pushes the optional featureImage form file to the
// image store and returns its URL, or "" when no file was attached.
func (h *PostHandler) uploadFeatureImage(c *gin.Context) (string, error) {
	file, header, err := c.Request.FormFile("featureImage")
	if err != nil {
		// no file attached
		return "", nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return h.Uploader.Upload(c.Request.Context(), data, header.Header.Get("Content-Type"))
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
