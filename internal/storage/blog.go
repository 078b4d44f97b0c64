package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/content"
	"farmland-portal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogFilters narrows blog listings. PublishedOnly is forced on for the
// public route; admins may list drafts.
type BlogFilters struct {
	Category      string `json:"category,omitempty"`
	Tag           string `json:"tag,omitempty"`
	PublishedOnly bool   `json:"published_only"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}

// BlogPage is a page of posts plus the total match count
type BlogPage struct {
	Items []models.BlogPost `json:"items"`
	Paginated
}

// GetBlogPosts lists posts, most recently published first
func (s *Storage) GetBlogPosts(ctx context.Context, f BlogFilters) (*BlogPage, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset, 10)

	key := cacheKey("blog", "list", f)
	var page BlogPage
	if s.getCached(ctx, key, &page) {
		return &page, nil
	}

	query := s.db.WithContext(ctx).Model(&models.BlogPost{})
	if f.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Tag != "" {
		// Tags are stored as a JSON array; match the quoted element
		query = query.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[storage] GetBlogPosts count failed: %v", err)
		return nil, apperr.Database(err)
	}

	var items []models.BlogPost
	err := query.
		Order("published_at DESC, created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		log.Printf("[storage] GetBlogPosts failed: %v", err)
		return nil, apperr.Database(err)
	}

	page = BlogPage{Items: items, Paginated: Paginated{Limit: f.Limit, Offset: f.Offset, Total: total}}
	s.setCached(ctx, key, &page)
	return &page, nil
}

// GetBlogPostBySlug returns a single post. Public callers only see
// published posts; the view counter bump is best effort and deliberately
// not reflected in cached copies.
func (s *Storage) GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	key := cacheKey("blog", "slug", map[string]interface{}{"slug": slug, "published": publishedOnly})

	var post models.BlogPost
	if s.getCached(ctx, key, &post) {
		s.bumpBlogViews(ctx, post.ID)
		return &post, nil
	}

	query := s.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Blog post not found")
	}
	if err != nil {
		log.Printf("[storage] GetBlogPostBySlug failed slug=%s: %v", slug, err)
		return nil, apperr.Database(err)
	}

	s.setCached(ctx, key, &post)
	s.bumpBlogViews(ctx, post.ID)
	return &post, nil
}

func (s *Storage) bumpBlogViews(ctx context.Context, id string) {
	if err := s.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		log.Printf("[storage] blog view bump failed id=%s: %v", id, err)
	}
}

// CreateBlogPost inserts a post. Excerpt and reading time are derived from
// the HTML content when not supplied.
func (s *Storage) CreateBlogPost(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("slug = ?", post.Slug).
		Count(&count).Error; err != nil {
		log.Printf("[storage] CreateBlogPost slug check failed slug=%s: %v", post.Slug, err)
		return nil, apperr.Database(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("Blog post with this slug already exists")
	}

	post.ID = uuid.NewString()
	post.ReadingTime = content.ReadingTime(post.Content)
	if post.Excerpt == "" {
		post.Excerpt = content.Excerpt(post.Content)
	}
	if post.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		log.Printf("[storage] CreateBlogPost failed slug=%s: %v", post.Slug, err)
		return nil, apperr.Database(err)
	}

	s.invalidate(ctx, "blog")
	log.Printf("[storage] blog post created id=%s slug=%s published=%v", post.ID, post.Slug, post.Published)
	return post, nil
}

// BlogPatch carries the updatable post fields; the slug is immutable
type BlogPatch struct {
	Title         *string
	Excerpt       *string
	Content       *string
	FeaturedImage *string
	Category      *string
	Tags          []string
	Published     *bool
}

// UpdateBlogPost applies a partial update, re-deriving reading time when
// the content changes and stamping published_at on first publish
func (s *Storage) UpdateBlogPost(ctx context.Context, id string, patch BlogPatch) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Blog post not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Excerpt != nil {
		updates["excerpt"] = *patch.Excerpt
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
		updates["reading_time"] = content.ReadingTime(*patch.Content)
		if patch.Excerpt == nil && post.Excerpt == "" {
			updates["excerpt"] = content.Excerpt(*patch.Content)
		}
	}
	if patch.FeaturedImage != nil {
		updates["featured_image"] = *patch.FeaturedImage
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Published != nil {
		updates["published"] = *patch.Published
		if *patch.Published && post.PublishedAt == nil {
			updates["published_at"] = time.Now()
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.Tags != nil {
			post.Tags = patch.Tags
			if err := tx.Model(&post).Select("tags").Updates(&post).Error; err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.BlogPost{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[storage] UpdateBlogPost failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}

	s.invalidate(ctx, "blog")

	var fresh models.BlogPost
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&fresh).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return &fresh, nil
}

// DeleteBlogPost removes a post permanently. Posts have no referencing
// children, so unlike projects this is a hard delete.
func (s *Storage) DeleteBlogPost(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlogPost{})
	if result.Error != nil {
		log.Printf("[storage] DeleteBlogPost failed id=%s: %v", id, result.Error)
		return apperr.Database(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Blog post not found")
	}

	s.invalidate(ctx, "blog")
	return nil
}
