package storage

import (
	"context"
	"strings"
	"testing"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePost(slug string, published bool) *models.BlogPost {
	return &models.BlogPost{
		Slug:      slug,
		Title:     "Why Coconut Farms Hold Value",
		Content:   "<p>" + strings.Repeat("coconut farmland investment ", 80) + "</p>",
		Category:  "investing",
		Tags:      []string{"coconut", "returns"},
		Published: published,
	}
}

func TestCreateBlogPostDerivesMetadata(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateBlogPost(ctx, samplePost("coconut-value", true))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Excerpt)
	assert.GreaterOrEqual(t, created.ReadingTime, 1)
	require.NotNil(t, created.PublishedAt)
}

func TestCreateBlogPostSlugConflict(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateBlogPost(ctx, samplePost("coconut-value", true))
	require.NoError(t, err)

	_, err = s.CreateBlogPost(ctx, samplePost("coconut-value", false))
	assert.True(t, apperr.IsConflict(err))
}

func TestPublicBlogListExcludesDrafts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateBlogPost(ctx, samplePost("published-post", true))
	require.NoError(t, err)
	_, err = s.CreateBlogPost(ctx, samplePost("draft-post", false))
	require.NoError(t, err)

	public, err := s.GetBlogPosts(ctx, BlogFilters{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, "published-post", public.Items[0].Slug)

	all, err := s.GetBlogPosts(ctx, BlogFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestGetBlogPostBySlugPublishedGate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateBlogPost(ctx, samplePost("draft-post", false))
	require.NoError(t, err)

	_, err = s.GetBlogPostBySlug(ctx, "draft-post", true)
	assert.True(t, apperr.IsNotFound(err))

	// Admin view sees the draft
	post, err := s.GetBlogPostBySlug(ctx, "draft-post", false)
	require.NoError(t, err)
	assert.Equal(t, "draft-post", post.Slug)
}

func TestBlogFilterByTag(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateBlogPost(ctx, samplePost("coconut-value", true))
	require.NoError(t, err)

	other := samplePost("spice-post", true)
	other.Tags = []string{"spice"}
	_, err = s.CreateBlogPost(ctx, other)
	require.NoError(t, err)

	page, err := s.GetBlogPosts(ctx, BlogFilters{PublishedOnly: true, Tag: "coconut"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "coconut-value", page.Items[0].Slug)
}

func TestUpdateBlogPostPublishStampsDate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateBlogPost(ctx, samplePost("draft-post", false))
	require.NoError(t, err)
	require.Nil(t, created.PublishedAt)

	published := true
	updated, err := s.UpdateBlogPost(ctx, created.ID, BlogPatch{Published: &published})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	require.NotNil(t, updated.PublishedAt)
}

func TestUpdateBlogPostContentRederivesReadingTime(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateBlogPost(ctx, samplePost("coconut-value", true))
	require.NoError(t, err)

	short := "<p>tiny update</p>"
	updated, err := s.UpdateBlogPost(ctx, created.ID, BlogPatch{Content: &short})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ReadingTime)
}

func TestDeleteBlogPost(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateBlogPost(ctx, samplePost("coconut-value", true))
	require.NoError(t, err)

	require.NoError(t, s.DeleteBlogPost(ctx, created.ID))
	assert.True(t, apperr.IsNotFound(s.DeleteBlogPost(ctx, created.ID)))

	_, err = s.GetBlogPostBySlug(ctx, "coconut-value", false)
	assert.True(t, apperr.IsNotFound(err))
}
