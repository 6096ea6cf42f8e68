package businessflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/app/services"
	"github.com/amirphl/Kitsune/config"
	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/repository"
	testingutil "github.com/amirphl/Kitsune/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadFlowHarness struct {
	flow     LeadFlow
	fixtures *testingutil.TestFixtures
	whatsapp *services.MockWhatsAppService
	testDB   *testingutil.TestDB
}

func setupLeadFlow(t *testing.T) *leadFlowHarness {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testDB.TeardownTestDB()
	})
	require.NoError(t, testDB.ClearAllTables())

	leadRepo := repository.NewLeadRepository(testDB.DB)
	commentRepo := repository.NewCommentRepository(testDB.DB)
	followUpRepo := repository.NewFollowUpRepository(testDB.DB)
	activityRepo := repository.NewActivityRepository(testDB.DB)
	staffRepo := repository.NewStaffRepository(testDB.DB)
	staffDirectory := NewStaffDirectory(staffRepo, nil, &config.CacheConfig{})

	whatsapp := services.NewMockWhatsAppService()
	notificationSvc := services.NewNotificationService(whatsapp)

	flow := NewLeadFlow(leadRepo, commentRepo, followUpRepo, activityRepo, staffDirectory, notificationSvc, testDB.DB)

	return &leadFlowHarness{
		flow:     flow,
		fixtures: testingutil.NewTestFixtures(testDB),
		whatsapp: whatsapp,
		testDB:   testDB,
	}
}

func (h *leadFlowHarness) activityDescriptions(t *testing.T, leadID uint) []string {
	t.Helper()

	var activities []models.Activity
	require.NoError(t, h.testDB.DB.
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&activities).Error)

	descriptions := make([]string, 0, len(activities))
	for _, a := range activities {
		descriptions = append(descriptions, a.Description)
	}
	return descriptions
}

func TestCreateLeadDerivesActivity(t *testing.T) {
	h := setupLeadFlow(t)

	actor, err := h.fixtures.CreateTestStaff("Dr. (CA) Amit Garg")
	require.NoError(t, err)
	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	resp, err := h.flow.CreateLead(context.Background(), &dto.CreateLeadRequest{
		Title:      "Warehouse acquisition",
		Division:   models.DivisionTrading,
		AssignedTo: assignee.Name,
	}, actor.PhoneNumber, testMetadata())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Warehouse acquisition", resp.Data.Title)
	assert.Equal(t, models.LeadStatusNew, resp.Data.Status)

	var activities []models.Activity
	require.NoError(t, h.testDB.DB.Where("lead_id = ?", resp.Data.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityLeadCreated, activities[0].Description)
	assert.Equal(t, actor.Name, activities[0].Author)
}

func TestCreateLeadRejectsUnknownDivision(t *testing.T) {
	h := setupLeadFlow(t)

	actor, err := h.fixtures.CreateTestStaff("Mr. Prabhakaran")
	require.NoError(t, err)

	_, err = h.flow.CreateLead(context.Background(), &dto.CreateLeadRequest{
		Title:      "Warehouse acquisition",
		Division:   "Space Tourism",
		AssignedTo: actor.Name,
	}, actor.PhoneNumber, testMetadata())
	assert.True(t, IsInvalidDivision(err))
}

func TestUpdateLeadStatusAuthorization(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)
	other, err := h.fixtures.CreateTestStaff("Mr. Prabhakaran")
	require.NoError(t, err)

	lead, err := h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)

	closed := models.LeadStatusClosed

	// Only the assignee may close a lead
	_, err = h.flow.UpdateLead(context.Background(), lead.ID, &dto.UpdateLeadRequest{
		Status: &closed,
	}, other.PhoneNumber, testMetadata())
	assert.True(t, IsStatusChangeNotAllowed(err))

	resp, err := h.flow.UpdateLead(context.Background(), lead.ID, &dto.UpdateLeadRequest{
		Status: &closed,
	}, assignee.PhoneNumber, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusClosed, resp.Data.Status)

	descriptions := h.activityDescriptions(t, lead.ID)
	require.Len(t, descriptions, 1)
	assert.Equal(t, models.ActivityLeadUpdated, descriptions[0])
}

func TestUpdateLeadPartialFieldsKeepOthers(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	lead, err := h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)

	newTitle := "Warehouse acquisition (revised)"
	resp, err := h.flow.UpdateLead(context.Background(), lead.ID, &dto.UpdateLeadRequest{
		Title: &newTitle,
	}, assignee.PhoneNumber, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, newTitle, resp.Data.Title)
	assert.Equal(t, lead.Division, resp.Data.Division)
	assert.Equal(t, lead.AssignedTo, resp.Data.AssignedTo)
	assert.Equal(t, lead.Status, resp.Data.Status)
}

func TestUpdateLeadNotFound(t *testing.T) {
	h := setupLeadFlow(t)

	actor, err := h.fixtures.CreateTestStaff("Mr. Prabhakaran")
	require.NoError(t, err)

	title := "ghost"
	_, err = h.flow.UpdateLead(context.Background(), 999999, &dto.UpdateLeadRequest{
		Title: &title,
	}, actor.PhoneNumber, testMetadata())
	assert.True(t, IsLeadNotFound(err))
}

func TestDeleteLeadCascades(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	lead, err := h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)
	_, err = h.fixtures.CreateTestComment(lead.ID, "first touchpoint", assignee.Name)
	require.NoError(t, err)
	_, err = h.fixtures.CreateTestFollowUp(lead.ID, "call back")
	require.NoError(t, err)

	resp, err := h.flow.DeleteLead(context.Background(), lead.ID, assignee.PhoneNumber, testMetadata())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, lead.ID, resp.Data.ID)

	for table, model := range map[string]interface{}{
		"leads":      &models.Lead{},
		"comments":   &models.Comment{},
		"follow_ups": &models.FollowUp{},
		"activities": &models.Activity{},
	} {
		var count int64
		require.NoError(t, h.testDB.DB.Model(model).Count(&count).Error, table)
		assert.Zero(t, count, "expected no rows left in %s", table)
	}
}

func TestDeleteLeadNotFound(t *testing.T) {
	h := setupLeadFlow(t)

	actor, err := h.fixtures.CreateTestStaff("Mr. Prabhakaran")
	require.NoError(t, err)

	_, err = h.flow.DeleteLead(context.Background(), 999999, actor.PhoneNumber, testMetadata())
	assert.True(t, IsLeadNotFound(err))
}

func TestAddCommentDerivesActivity(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	lead, err := h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)

	resp, err := h.flow.AddComment(context.Background(), lead.ID, &dto.AddCommentRequest{
		Text:   "Client asked for revised terms",
		Author: "Mr. Prabhakaran",
	}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "Client asked for revised terms", resp.Data.Text)
	assert.Equal(t, "Mr. Prabhakaran", resp.Data.Author)

	var activities []models.Activity
	require.NoError(t, h.testDB.DB.Where("lead_id = ?", lead.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityCommentAdded, activities[0].Description)
	assert.Equal(t, "Mr. Prabhakaran", activities[0].Author)
}

func TestListCommentsOldestFirst(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	lead, err := h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := h.fixtures.CreateTestComment(lead.ID, fmt.Sprintf("note %d", i), assignee.Name)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := h.flow.ListComments(context.Background(), lead.ID)
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "note 1", resp.Data[0].Text)
	assert.Equal(t, "note 3", resp.Data[2].Text)
}

func TestAddFollowUpDerivesActivity(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	lead, err := h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)

	resp, err := h.flow.AddFollowUp(context.Background(), lead.ID, &dto.AddFollowUpRequest{
		Description:   "Call to confirm meeting",
		ScheduledDate: "2026-10-01",
		ScheduledTime: "14:30",
		Author:        "Mr. Prabhakaran",
	}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", resp.Data.ScheduledDate)
	assert.Equal(t, "14:30", resp.Data.ScheduledTime)

	var activities []models.Activity
	require.NoError(t, h.testDB.DB.Where("lead_id = ?", lead.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityFollowUpScheduled, activities[0].Description)
	// The activity is attributed to whoever scheduled the follow-up, not the assignee
	assert.Equal(t, "Mr. Prabhakaran", activities[0].Author)
}

func TestValidationRejectsWhitespaceOnlyFields(t *testing.T) {
	lf := &LeadFlowImpl{}

	err := lf.validateCreateLeadRequest(&dto.CreateLeadRequest{
		Title:      " \t ",
		Division:   models.DivisionTrading,
		AssignedTo: "Mr. Sumesh Paul",
	})
	assert.True(t, IsLeadTitleRequired(err))

	err = lf.validateAddCommentRequest(&dto.AddCommentRequest{
		Text:   "   ",
		Author: "Mr. Prabhakaran",
	})
	assert.True(t, IsCommentTextRequired(err))

	err = lf.validateAddFollowUpRequest(&dto.AddFollowUpRequest{
		Description:   "  \n ",
		ScheduledDate: "2026-10-01",
		ScheduledTime: "14:30",
		Author:        "Mr. Prabhakaran",
	})
	assert.True(t, IsFollowUpDescriptionRequired(err))

	err = lf.validateAddFollowUpRequest(&dto.AddFollowUpRequest{
		Description:   "Call to confirm meeting",
		ScheduledDate: "2026-10-01",
		ScheduledTime: "14:30",
		Author:        "   ",
	})
	assert.True(t, IsFollowUpAuthorRequired(err))

	blank := "  "
	err = lf.validateUpdateLeadRequest(&dto.UpdateLeadRequest{Title: &blank})
	assert.True(t, IsLeadTitleRequired(err))
}

func TestValidationTrimsPersistedFields(t *testing.T) {
	lf := &LeadFlowImpl{}

	req := &dto.CreateLeadRequest{
		Title:      "  Warehouse acquisition  ",
		Division:   " " + models.DivisionTrading + " ",
		AssignedTo: " Mr. Sumesh Paul ",
	}
	require.NoError(t, lf.validateCreateLeadRequest(req))
	assert.Equal(t, "Warehouse acquisition", req.Title)
	assert.Equal(t, models.DivisionTrading, req.Division)
	assert.Equal(t, "Mr. Sumesh Paul", req.AssignedTo)

	comment := &dto.AddCommentRequest{Text: " note ", Author: " Mr. Prabhakaran "}
	require.NoError(t, lf.validateAddCommentRequest(comment))
	assert.Equal(t, "note", comment.Text)
	assert.Equal(t, "Mr. Prabhakaran", comment.Author)
}

func TestAddCommentLeadNotFound(t *testing.T) {
	h := setupLeadFlow(t)

	_, err := h.flow.AddComment(context.Background(), 999999, &dto.AddCommentRequest{
		Text:   "orphan",
		Author: "Mr. Prabhakaran",
	}, testMetadata())
	assert.True(t, IsLeadNotFound(err))
}

func TestListLeadsNewestFirstWithRelations(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	first, err := h.fixtures.CreateTestLead("First lead", assignee.Name)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := h.fixtures.CreateTestLead("Second lead", assignee.Name)
	require.NoError(t, err)

	_, err = h.fixtures.CreateTestComment(first.ID, "on the first", assignee.Name)
	require.NoError(t, err)

	resp, err := h.flow.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, second.ID, resp.Data[0].ID)
	assert.Equal(t, first.ID, resp.Data[1].ID)
	assert.Len(t, resp.Data[1].Comments, 1)
	assert.NotNil(t, resp.Data[0].Comments)
}

func TestGetLeadNotFound(t *testing.T) {
	h := setupLeadFlow(t)

	_, err := h.flow.GetLead(context.Background(), 999999)
	assert.True(t, IsLeadNotFound(err))
}

func TestExportLeads(t *testing.T) {
	h := setupLeadFlow(t)

	assignee, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)
	_, err = h.fixtures.CreateTestLead("Warehouse acquisition", assignee.Name)
	require.NoError(t, err)

	filename, content, err := h.flow.ExportLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("leads_%s.xlsx", time.Now().UTC().Format("2006-01-02")), filename)
	assert.NotEmpty(t, content)
}
