package storage

import (
	"context"
	"testing"
	"time"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead(email string) *models.Lead {
	return &models.Lead{
		Name:  "Asha Nair",
		Email: email,
		Phone: "+91 9000000000",
	}
}

func TestCreateLeadDefaults(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	lead, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, models.LeadSourceWebsite, lead.Source)
}

func TestCreateLeadDuplicateWindow(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)

	// Same email inside the window, different case and whitespace
	_, err = s.CreateLead(ctx, sampleLead("  ASHA@Example.COM "))
	assert.True(t, apperr.IsConflict(err))

	// A different address is fine
	_, err = s.CreateLead(ctx, sampleLead("ravi@example.com"))
	assert.NoError(t, err)
}

func TestCreateLeadDuplicateWindowExpires(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)

	// Age the first submission past the window
	backdated := time.Now().Add(-duplicateWindow - time.Hour)
	require.NoError(t, s.db.Model(&models.Lead{}).
		Where("id = ?", first.ID).
		Update("created_at", backdated).Error)

	second, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateLeadBumpsProjectInquiryCount(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	project, err := s.CreateProject(ctx, sampleProject("palm-grove"))
	require.NoError(t, err)

	lead := sampleLead("asha@example.com")
	lead.ProjectInterest = &project.ID
	_, err = s.CreateLead(ctx, lead)
	require.NoError(t, err)

	got, err := s.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.InquiryCount)
}

func TestGetLeadsFilterByStatus(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)
	_, err = s.CreateLead(ctx, sampleLead("ravi@example.com"))
	require.NoError(t, err)

	contacted := models.LeadStatusContacted
	_, err = s.UpdateLead(ctx, created.ID, LeadPatch{Status: &contacted}, "admin-1")
	require.NoError(t, err)

	page, err := s.GetLeads(ctx, LeadFilters{Status: models.LeadStatusContacted})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
}

func TestUpdateLeadStatusWritesActivity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)

	qualified := models.LeadStatusQualified
	updated, err := s.UpdateLead(ctx, created.ID, LeadPatch{Status: &qualified}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusQualified, updated.Status)

	activities, err := s.GetLeadActivities(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityStatusChange, activities[0].ActivityType)
	require.NotNil(t, activities[0].UserID)
	assert.Equal(t, "admin-1", *activities[0].UserID)
	assert.Contains(t, activities[0].Description, "new")
	assert.Contains(t, activities[0].Description, "qualified")
}

func TestUpdateLeadSameStatusNoActivity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)

	notes := "called, no answer"
	_, err = s.UpdateLead(ctx, created.ID, LeadPatch{Notes: &notes}, "admin-1")
	require.NoError(t, err)

	activities, err := s.GetLeadActivities(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestUpdateLeadInvalidStatus(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, sampleLead("asha@example.com"))
	require.NoError(t, err)

	bogus := models.LeadStatus("bogus")
	_, err = s.UpdateLead(ctx, created.ID, LeadPatch{Status: &bogus}, "admin-1")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.From(err).Code)
}

func TestGetLeadActivitiesUnknownLead(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetLeadActivities(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
}
