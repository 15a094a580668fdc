package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/models"
	"github.com/c-victorino/dishcord-web-app/internal/service"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

type stubUploader struct {
	url string
	err error
}

func (u *stubUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	return u.url, u.err
}

type stubUserLookup struct {
	user *models.User
}

func (s *stubUserLookup) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID.Hex() == id {
		return s.user, nil
	}
	return nil, fmt.Errorf("no user with id %s", id)
}

func newTestContent(t *testing.T) *service.ContentService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handler.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Post{}, &models.Category{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return service.NewContentService(db)
}

// postRouter wires the JSON and mutation routes the way the app router
// does, with a real session middleware in front.
func postRouter(t *testing.T, content *service.ContentService, uploader Uploader, user *models.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewPostHandler(content, uploader)
	r := gin.New()
	r.Use(middleware.Session(testJWTSecret, &stubUserLookup{user: user}))
	r.Use(middleware.Locals())
	auth := r.Group("/", middleware.RequireLogin())
	auth.GET("/post/:id", h.Get)
	auth.POST("/posts/add", h.Create)
	auth.POST("/posts/edit/:id", h.Update)
	auth.GET("/posts/delete/:id", h.Delete)
	return r
}

func loginCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := util.GenerateToken(testJWTSecret, "dishcord", user.ID.Hex(), 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func testUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), UserName: "alice"}
}

func TestGetPost_JSON(t *testing.T) {
	content := newTestContent(t)
	user := testUser()
	r := postRouter(t, content, &stubUploader{}, user)

	post, err := content.CreatePost(context.Background(), service.PostData{Title: "hello"}, user.ID.Hex())
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/post/%d", post.ID), nil)
	req.AddCookie(loginCookie(t, user))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Code int `json:"code"`
		Data struct {
			Post models.Post `json:"post"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Code != util.CodeOK {
		t.Errorf("code = %d, want %d", envelope.Code, util.CodeOK)
	}
	if envelope.Data.Post.Title != "hello" {
		t.Errorf("post title = %q, want hello", envelope.Data.Post.Title)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	content := newTestContent(t)
	user := testUser()
	r := postRouter(t, content, &stubUploader{}, user)

	req := httptest.NewRequest(http.MethodGet, "/post/999", nil)
	req.AddCookie(loginCookie(t, user))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no results returned") {
		t.Errorf("body = %s, want a no-results message", rec.Body.String())
	}
}

func TestGetPost_RequiresLogin(t *testing.T) {
	content := newTestContent(t)
	r := postRouter(t, content, &stubUploader{}, testUser())

	req := httptest.NewRequest(http.MethodGet, "/post/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect target = %q, want /login", loc)
	}
}

func TestCreatePost_Form(t *testing.T) {
	content := newTestContent(t)
	user := testUser()
	r := postRouter(t, content, &stubUploader{}, user)

	form := url.Values{
		"title":     {"new dish"},
		"body":      {"<p>steps</p>"},
		"published": {"on"},
		"category":  {"mains"},
	}
	req := httptest.NewRequest(http.MethodPost, "/posts/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(loginCookie(t, user))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302, body %s", rec.Code, rec.Body.String())
	}

	posts, err := content.ListAllPosts(context.Background(), user.ID.Hex())
	if err != nil {
		t.Fatalf("ListAllPosts returned error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("stored %d posts, want 1", len(posts))
	}
	if posts[0].Title != "new dish" || !posts[0].Published {
		t.Errorf("stored post = %+v, want published \"new dish\"", posts[0].Post)
	}
	if posts[0].Owner != user.ID.Hex() {
		t.Errorf("owner = %q, want the caller", posts[0].Owner)
	}
}

func TestDeletePost_NonOwnerRedirectsWithoutDeleting(t *testing.T) {
	content := newTestContent(t)
	owner := testUser()
	intruder := testUser()
	r := postRouter(t, content, &stubUploader{}, intruder)

	post, err := content.CreatePost(context.Background(), service.PostData{Title: "keep me"}, owner.ID.Hex())
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/delete/%d", post.ID), nil)
	req.AddCookie(loginCookie(t, intruder))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if _, err := content.GetPostByID(context.Background(), post.ID); err != nil {
		t.Fatalf("post was deleted by a non-owner: %v", err)
	}
}

func TestUpdatePost_SilentNoopForNonOwner(t *testing.T) {
	content := newTestContent(t)
	owner := testUser()
	intruder := testUser()
	r := postRouter(t, content, &stubUploader{}, intruder)

	post, err := content.CreatePost(context.Background(), service.PostData{Title: "original"}, owner.ID.Hex())
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	form := url.Values{"title": {"hijacked"}}
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/edit/%d", post.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(loginCookie(t, intruder))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	got, err := content.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID returned error: %v", err)
	}
	if got.Title != "original" {
		t.Errorf("title = %q after non-owner edit, want original", got.Title)
	}
}
