package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/models"

	"gorm.io/gorm"
)

// ContentService owns all post and category access. Ownership is
// enforced inside the store queries themselves: deletes and updates are
// keyed on both id and owner, so a call against a row the caller does
// not own matches nothing and succeeds as a no-op.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// PostView is a post plus the viewer-specific ownership flag. The flag
// is derived on every read and never stored, so a row fetched for one
// viewer cannot leak another viewer's flag.
type PostView struct {
	models.Post
	IsOwnedByViewer bool
}

// CategoryView mirrors PostView for categories.
type CategoryView struct {
	models.Category
	IsOwnedByViewer bool
}

// PostData carries the create/edit form fields. Published holds the raw
// checkbox value ("on" when ticked, empty when not); the service
// normalizes it to a strict boolean.
type PostData struct {
	Title        string
	Body         string
	FeatureImage string
	Published    string
	Category     string
}

// nullable maps blank form values to an absent value.
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func annotatePosts(posts []models.Post, viewerID string) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{Post: p, IsOwnedByViewer: p.Owner == viewerID})
	}
	return views
}

// ListAllPosts returns every post, newest first, annotated for the
// given viewer.
func (s *ContentService) ListAllPosts(ctx context.Context, viewerID string) ([]PostView, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Order("post_date DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", ErrPersistence, err)
	}
	return annotatePosts(posts, viewerID), nil
}

// ListPostsByCategory returns the posts whose category label matches
// exactly, annotated for the viewer.
func (s *ContentService) ListPostsByCategory(ctx context.Context, category, viewerID string) ([]PostView, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("post_date DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: list posts by category: %v", ErrPersistence, err)
	}
	return annotatePosts(posts, viewerID), nil
}

// ListPostsByMinDate returns the posts dated on or after minDate,
// annotated for the viewer.
func (s *ContentService) ListPostsByMinDate(ctx context.Context, minDate time.Time, viewerID string) ([]PostView, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Where("post_date >= ?", minDate).
		Order("post_date DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: list posts by min date: %v", ErrPersistence, err)
	}
	return annotatePosts(posts, viewerID), nil
}

// GetPostByID returns a single post regardless of owner or publish
// state. The router gates this behind the login check.
func (s *ContentService) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get post: %v", ErrPersistence, err)
	}
	return &post, nil
}

// CreatePost stores a new post. Owner and PostDate are stamped server
// side; client-supplied values for either are ignored.
func (s *ContentService) CreatePost(ctx context.Context, data PostData, ownerID string) (*models.Post, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: missing owner", ErrValidation)
	}
	post := models.Post{
		Title:        strings.TrimSpace(data.Title),
		Body:         data.Body,
		FeatureImage: nullable(data.FeatureImage),
		Published:    data.Published != "",
		Category:     nullable(data.Category),
		Owner:        ownerID,
		PostDate:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("%w: create post: %v", ErrPersistence, err)
	}
	return &post, nil
}

// UpdatePost edits a post in place, marking it updated and refreshing
// its update time. The statement is keyed on both id and owner, the
// same discipline as the deletes: when the caller does not own the post
// nothing matches and the call returns without error. A missing
// FeatureImage leaves the stored image untouched.
func (s *ContentService) UpdatePost(ctx context.Context, postID uint, ownerID string, data PostData) error {
	updates := map[string]interface{}{
		"title":      strings.TrimSpace(data.Title),
		"body":       data.Body,
		"published":  data.Published != "",
		"category":   nullable(data.Category),
		"is_updated": true,
	}
	if img := nullable(data.FeatureImage); img != nil {
		updates["feature_image"] = img
	}
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND owner = ?", postID, ownerID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("%w: update post: %v", ErrPersistence, err)
	}
	return nil
}

// PostOwner returns the owner tag of a post, or the empty string when
// the post does not exist. The router uses this to decide whether to
// offer the edit form at all; the mutation itself re-checks ownership.
func (s *ContentService) PostOwner(ctx context.Context, postID uint) (string, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Select("owner").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: get post owner: %v", ErrPersistence, err)
	}
	return post.Owner, nil
}

// DeletePostByID removes the post only when both id and owner match.
// Zero matching rows is success: the contract is "no owned row
// remains", not "one existed".
func (s *ContentService) DeletePostByID(ctx context.Context, id uint, ownerID string) error {
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner = ?", id, ownerID).
		Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("%w: delete post: %v", ErrPersistence, err)
	}
	return nil
}

// AddCategory stores a new category with the caller as owner.
func (s *ContentService) AddCategory(ctx context.Context, label, ownerID string) (*models.Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: category label is required", ErrValidation)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: missing owner", ErrValidation)
	}
	category := models.Category{Label: label, Owner: ownerID}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("%w: create category: %v", ErrPersistence, err)
	}
	return &category, nil
}

// ListCategories returns all categories in label order, annotated for
// the viewer.
func (s *ContentService) ListCategories(ctx context.Context, viewerID string) ([]CategoryView, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("label ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrPersistence, err)
	}
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, CategoryView{Category: c, IsOwnedByViewer: c.Owner == viewerID})
	}
	return views, nil
}

// DeleteCategoryByID removes the category only when both id and owner
// match; posts referencing the deleted label are left alone. Zero
// matching rows is success.
func (s *ContentService) DeleteCategoryByID(ctx context.Context, id uint, ownerID string) error {
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner = ?", id, ownerID).
		Delete(&models.Category{}).Error; err != nil {
		return fmt.Errorf("%w: delete category: %v", ErrPersistence, err)
	}
	return nil
}

// PaginationPages returns the 1-based consecutive page numbers needed
// to cover all posts at pageSize per page, optionally restricted to one
// category. An empty slice means there is nothing to page over.
func (s *ContentService) PaginationPages(ctx context.Context, pageSize int, category string) ([]int, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrValidation)
	}
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: count posts: %v", ErrPersistence, err)
	}
	pageCount := int((total + int64(pageSize) - 1) / int64(pageSize))
	pages := make([]int, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages = append(pages, i)
	}
	return pages, nil
}

// PaginatedPosts returns one page of published posts, most recently
// updated first. A page past the end comes back empty, not as an error.
func (s *ContentService) PaginatedPosts(ctx context.Context, pageSize, page int, category string) ([]models.Post, error) {
	if pageSize <= 0 || page <= 0 {
		return nil, fmt.Errorf("%w: page and page size must be positive", ErrValidation)
	}
	q := s.db.WithContext(ctx).Where("published = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var posts []models.Post
	if err := q.Order("updated_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: paginated posts: %v", ErrPersistence, err)
	}
	return posts, nil
}

// PostCount returns the number of published posts.
func (s *ContentService) PostCount(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("published = ?", true).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("%w: count posts: %v", ErrPersistence, err)
	}
	return total, nil
}

// CategoryCount returns the number of categories.
func (s *ContentService) CategoryCount(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("%w: count categories: %v", ErrPersistence, err)
	}
	return total, nil
}
