package storage

import (
	"context"
	"testing"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetProjectBySlug(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)

	got, err := s.GetProjectBySlug(ctx, "palm-grove")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{"irrigation", "fencing"}, got.Features)
}

func TestCreateProjectSlugConflict(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	_, err = s.CreateProject(ctx, sampleProject("palm-grove"))
	assert.True(t, apperr.IsConflict(err))
}

func TestSlugConflictIncludesInactiveProjects(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteProject(ctx, created.ID))

	// Slug stays reserved even after soft delete
	_, err = s.CreateProject(ctx, sampleProject("palm-grove"))
	assert.True(t, apperr.IsConflict(err))
}

func TestGetProjectBySlugUnknown(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetProjectBySlug(context.Background(), "nope")
	assert.True(t, apperr.IsNotFound(err))
}

func TestSoftDeleteHidesFromPublicReads(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(ctx, created.ID))

	_, err = s.GetProjectBySlug(ctx, "palm-grove")
	assert.True(t, apperr.IsNotFound(err))

	// Admin read still sees the row
	got, err := s.GetProjectByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDeleteProjectIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(ctx, created.ID))
	// Second delete of an already-inactive project succeeds quietly
	require.NoError(t, s.DeleteProject(ctx, created.ID))

	assert.True(t, apperr.IsNotFound(s.DeleteProject(ctx, "missing-id")))
}

func TestGetProjectsOrderingAndFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	plain := sampleProject("alpha-farm")
	plain.Name = "Alpha Farm"
	_, err := s.CreateProject(ctx, plain)
	require.NoError(t, err)

	featured := sampleProject("zeta-farm")
	featured.Name = "Zeta Farm"
	featured.Featured = true
	featured.ProjectType = models.ProjectTypeSpice
	_, err = s.CreateProject(ctx, featured)
	require.NoError(t, err)

	page, err := s.GetProjects(ctx, ProjectFilters{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)

	// Featured first despite later alphabetical name
	assert.Equal(t, "Zeta Farm", page.Items[0].Name)
	assert.Equal(t, "Alpha Farm", page.Items[1].Name)

	spice, err := s.GetProjects(ctx, ProjectFilters{Type: models.ProjectTypeSpice})
	require.NoError(t, err)
	require.Len(t, spice.Items, 1)
	assert.Equal(t, "zeta-farm", spice.Items[0].Slug)
}

func TestGetProjectsLocationFilterCaseInsensitive(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	page, err := s.GetProjects(ctx, ProjectFilters{Location: "PALAK"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestGetProjectsPriceRange(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cheap := sampleProject("cheap-farm")
	cheap.PricePerSqFt = 100
	_, err := s.CreateProject(ctx, cheap)
	require.NoError(t, err)

	dear := sampleProject("dear-farm")
	dear.PricePerSqFt = 900
	_, err = s.CreateProject(ctx, dear)
	require.NoError(t, err)

	min := 500.0
	page, err := s.GetProjects(ctx, ProjectFilters{MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "dear-farm", page.Items[0].Slug)
}

func TestUpdateProjectPatch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	name := "Renamed Estate"
	price := 300.0
	coords := &models.Coordinates{Lat: 10.5, Lng: 76.2}
	updated, err := s.UpdateProject(ctx, created.ID, ProjectPatch{
		Name:         &name,
		PricePerSqFt: &price,
		Coordinates:  coords,
		Features:     []string{"solar"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed Estate", updated.Name)
	assert.Equal(t, 300.0, updated.PricePerSqFt)
	require.NotNil(t, updated.Coordinates)
	assert.Equal(t, 10.5, updated.Coordinates.Lat)
	assert.Equal(t, []string{"solar"}, updated.Features)
	// Slug never changes
	assert.Equal(t, "palm-grove", updated.Slug)
}

func TestListCacheInvalidatedOnWrite(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	first, err := s.GetProjects(ctx, ProjectFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Total)

	_, err = s.CreateProject(ctx, sampleProject("second-farm"))
	require.NoError(t, err)

	second, err := s.GetProjects(ctx, ProjectFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Total)
}
