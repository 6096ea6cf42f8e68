// Package businessflow contains the core business logic and use cases for lead tracking workflows
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/app/services"
	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/repository"
	"github.com/amirphl/Kitsune/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// LeadFlow handles lead lifecycle operations and their derived activity trail
type LeadFlow interface {
	ListLeads(ctx context.Context) (*dto.ListLeadsResponse, error)
	GetLead(ctx context.Context, leadID uint) (*dto.LeadResponse, error)
	CreateLead(ctx context.Context, request *dto.CreateLeadRequest, actorPhone string, metadata *ClientMetadata) (*dto.LeadResponse, error)
	UpdateLead(ctx context.Context, leadID uint, request *dto.UpdateLeadRequest, actorPhone string, metadata *ClientMetadata) (*dto.LeadResponse, error)
	DeleteLead(ctx context.Context, leadID uint, actorPhone string, metadata *ClientMetadata) (*dto.DeleteLeadResponse, error)
	AddComment(ctx context.Context, leadID uint, request *dto.AddCommentRequest, metadata *ClientMetadata) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, leadID uint) (*dto.ListCommentsResponse, error)
	AddFollowUp(ctx context.Context, leadID uint, request *dto.AddFollowUpRequest, metadata *ClientMetadata) (*dto.FollowUpResponse, error)
	ListFollowUps(ctx context.Context, leadID uint) (*dto.ListFollowUpsResponse, error)
	ExportLeads(ctx context.Context) (filename string, content []byte, err error)
}

// LeadFlowImpl implements the lead business flow
type LeadFlowImpl struct {
	leadRepo        repository.LeadRepository
	commentRepo     repository.CommentRepository
	followUpRepo    repository.FollowUpRepository
	activityRepo    repository.ActivityRepository
	staffDirectory  StaffDirectory
	notificationSvc services.NotificationService
	db              *gorm.DB
}

// NewLeadFlow creates a new lead flow instance
func NewLeadFlow(
	leadRepo repository.LeadRepository,
	commentRepo repository.CommentRepository,
	followUpRepo repository.FollowUpRepository,
	activityRepo repository.ActivityRepository,
	staffDirectory StaffDirectory,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) LeadFlow {
	return &LeadFlowImpl{
		leadRepo:        leadRepo,
		commentRepo:     commentRepo,
		followUpRepo:    followUpRepo,
		activityRepo:    activityRepo,
		staffDirectory:  staffDirectory,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// ListLeads returns every lead with its nested collections, newest first
func (lf *LeadFlowImpl) ListLeads(ctx context.Context) (*dto.ListLeadsResponse, error) {
	leads, err := lf.leadRepo.ListWithRelations(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_LEADS_FAILED", "Failed to list leads", err)
	}

	resp := &dto.ListLeadsResponse{
		Success: true,
		Message: "Leads retrieved",
		Data:    make([]dto.LeadDTO, 0, len(leads)),
	}
	for _, lead := range leads {
		resp.Data = append(resp.Data, ToLeadDTO(*lead))
	}

	return resp, nil
}

// GetLead returns a single lead with its nested collections
func (lf *LeadFlowImpl) GetLead(ctx context.Context, leadID uint) (*dto.LeadResponse, error) {
	lead, err := lf.leadRepo.WithRelations(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("GET_LEAD_FAILED", "Failed to get lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	return &dto.LeadResponse{
		Success: true,
		Message: "Lead retrieved",
		Data:    ToLeadDTO(*lead),
	}, nil
}

// CreateLead persists a new lead and derives its creation activity in the
// same transaction. The assignee is notified after commit.
func (lf *LeadFlowImpl) CreateLead(ctx context.Context, request *dto.CreateLeadRequest, actorPhone string, metadata *ClientMetadata) (*dto.LeadResponse, error) {
	if err := lf.validateCreateLeadRequest(request); err != nil {
		return nil, NewBusinessError("CREATE_LEAD_VALIDATION_FAILED", "Lead validation failed", err)
	}

	actor := lf.resolveActor(ctx, actorPhone)

	var lead *models.Lead

	resp, err := lf.WithLeadTransaction(ctx, func(ctx context.Context) (*dto.LeadResponse, error) {
		status := request.Status
		if status == "" {
			status = models.LeadStatusNew
		}

		now := utils.UTCNow()
		lead = &models.Lead{
			Title:      request.Title,
			Division:   request.Division,
			AssignedTo: request.AssignedTo,
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := lf.leadRepo.Save(ctx, lead); err != nil {
			return nil, err
		}

		activity := &models.Activity{
			LeadID:      lead.ID,
			Description: models.ActivityLeadCreated,
			Author:      actor,
		}
		if err := lf.activityRepo.Save(ctx, activity); err != nil {
			return nil, err
		}
		lead.Activities = []models.Activity{*activity}

		return &dto.LeadResponse{
			Success: true,
			Message: "Lead created",
			Data:    ToLeadDTO(*lead),
		}, nil
	})
	if err != nil {
		return nil, NewBusinessError("CREATE_LEAD_FAILED", "Failed to create lead", err)
	}

	lf.notifyAssignee(lead.AssignedTo, fmt.Sprintf("New lead assigned to you: %s", lead.Title))

	return resp, nil
}

// UpdateLead applies a partial update to a lead. Moving a lead to Closed or
// Terminated is allowed only for its current assignee.
func (lf *LeadFlowImpl) UpdateLead(ctx context.Context, leadID uint, request *dto.UpdateLeadRequest, actorPhone string, metadata *ClientMetadata) (*dto.LeadResponse, error) {
	if err := lf.validateUpdateLeadRequest(request); err != nil {
		return nil, NewBusinessError("UPDATE_LEAD_VALIDATION_FAILED", "Lead validation failed", err)
	}

	actor := lf.resolveActor(ctx, actorPhone)

	var lead *models.Lead

	resp, err := lf.WithLeadTransaction(ctx, func(ctx context.Context) (*dto.LeadResponse, error) {
		var err error
		lead, err = lf.leadRepo.ByID(ctx, leadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}

		if request.Status != nil && *request.Status != lead.Status {
			if !CanChangeStatus(actor, *lead, *request.Status) {
				return nil, ErrStatusChangeNotAllowed
			}
		}

		if request.Title != nil {
			lead.Title = *request.Title
		}
		if request.Division != nil {
			lead.Division = *request.Division
		}
		if request.AssignedTo != nil {
			lead.AssignedTo = *request.AssignedTo
		}
		if request.Status != nil {
			lead.Status = *request.Status
		}
		lead.UpdatedAt = utils.UTCNow()

		if err := lf.leadRepo.Update(ctx, lead); err != nil {
			return nil, err
		}

		activity := &models.Activity{
			LeadID:      lead.ID,
			Description: models.ActivityLeadUpdated,
			Author:      actor,
		}
		if err := lf.activityRepo.Save(ctx, activity); err != nil {
			return nil, err
		}

		updated, err := lf.leadRepo.WithRelations(ctx, lead.ID)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, ErrLeadNotFound
		}

		return &dto.LeadResponse{
			Success: true,
			Message: "Lead updated",
			Data:    ToLeadDTO(*updated),
		}, nil
	})
	if err != nil {
		return nil, NewBusinessError("UPDATE_LEAD_FAILED", "Failed to update lead", err)
	}

	lf.notifyAssignee(lead.AssignedTo, fmt.Sprintf("Lead updated: %s", lead.Title))

	return resp, nil
}

// DeleteLead removes a lead together with its activities, comments, and
// follow-ups in a single transaction.
func (lf *LeadFlowImpl) DeleteLead(ctx context.Context, leadID uint, actorPhone string, metadata *ClientMetadata) (*dto.DeleteLeadResponse, error) {
	resp, err := lf.WithDeleteLeadTransaction(ctx, func(ctx context.Context) (*dto.DeleteLeadResponse, error) {
		lead, err := lf.leadRepo.ByID(ctx, leadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}

		if err := lf.leadRepo.DeleteCascade(ctx, leadID); err != nil {
			return nil, err
		}

		out := &dto.DeleteLeadResponse{
			Success: true,
			Message: "Lead deleted",
		}
		out.Data.ID = leadID

		return out, nil
	})
	if err != nil {
		return nil, NewBusinessError("DELETE_LEAD_FAILED", "Failed to delete lead", err)
	}

	return resp, nil
}

// AddComment appends a comment to a lead and derives the matching activity.
// The assignee is notified after commit.
func (lf *LeadFlowImpl) AddComment(ctx context.Context, leadID uint, request *dto.AddCommentRequest, metadata *ClientMetadata) (*dto.CommentResponse, error) {
	if err := lf.validateAddCommentRequest(request); err != nil {
		return nil, NewBusinessError("ADD_COMMENT_VALIDATION_FAILED", "Comment validation failed", err)
	}

	var lead *models.Lead

	resp, err := lf.WithCommentTransaction(ctx, func(ctx context.Context) (*dto.CommentResponse, error) {
		var err error
		lead, err = lf.leadRepo.ByID(ctx, leadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}

		comment := &models.Comment{
			LeadID: leadID,
			Text:   request.Text,
			Author: request.Author,
		}
		if err := lf.commentRepo.Save(ctx, comment); err != nil {
			return nil, err
		}

		activity := &models.Activity{
			LeadID:      leadID,
			Description: models.ActivityCommentAdded,
			Author:      request.Author,
		}
		if err := lf.activityRepo.Save(ctx, activity); err != nil {
			return nil, err
		}

		return &dto.CommentResponse{
			Success: true,
			Message: "Comment added",
			Data:    ToCommentDTO(*comment),
		}, nil
	})
	if err != nil {
		return nil, NewBusinessError("ADD_COMMENT_FAILED", "Failed to add comment", err)
	}

	lf.notifyAssignee(lead.AssignedTo, fmt.Sprintf("New comment on lead %q by %s", lead.Title, request.Author))

	return resp, nil
}

// ListComments returns a lead's comments, oldest first
func (lf *LeadFlowImpl) ListComments(ctx context.Context, leadID uint) (*dto.ListCommentsResponse, error) {
	if err := lf.ensureLeadExists(ctx, leadID); err != nil {
		return nil, err
	}

	comments, err := lf.commentRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("LIST_COMMENTS_FAILED", "Failed to list comments", err)
	}

	resp := &dto.ListCommentsResponse{
		Success: true,
		Message: "Comments retrieved",
		Data:    make([]dto.CommentDTO, 0, len(comments)),
	}
	for _, comment := range comments {
		resp.Data = append(resp.Data, ToCommentDTO(*comment))
	}

	return resp, nil
}

// AddFollowUp schedules a follow-up on a lead and derives the matching
// activity. The assignee is notified after commit.
func (lf *LeadFlowImpl) AddFollowUp(ctx context.Context, leadID uint, request *dto.AddFollowUpRequest, metadata *ClientMetadata) (*dto.FollowUpResponse, error) {
	if err := lf.validateAddFollowUpRequest(request); err != nil {
		return nil, NewBusinessError("ADD_FOLLOW_UP_VALIDATION_FAILED", "Follow-up validation failed", err)
	}

	var lead *models.Lead

	resp, err := lf.WithFollowUpTransaction(ctx, func(ctx context.Context) (*dto.FollowUpResponse, error) {
		var err error
		lead, err = lf.leadRepo.ByID(ctx, leadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}

		followUp := &models.FollowUp{
			LeadID:        leadID,
			Description:   request.Description,
			ScheduledDate: request.ScheduledDate,
			ScheduledTime: request.ScheduledTime,
		}
		if err := lf.followUpRepo.Save(ctx, followUp); err != nil {
			return nil, err
		}

		activity := &models.Activity{
			LeadID:      leadID,
			Description: models.ActivityFollowUpScheduled,
			Author:      request.Author,
		}
		if err := lf.activityRepo.Save(ctx, activity); err != nil {
			return nil, err
		}

		return &dto.FollowUpResponse{
			Success: true,
			Message: "Follow-up scheduled",
			Data:    ToFollowUpDTO(*followUp),
		}, nil
	})
	if err != nil {
		return nil, NewBusinessError("ADD_FOLLOW_UP_FAILED", "Failed to schedule follow-up", err)
	}

	lf.notifyAssignee(lead.AssignedTo, fmt.Sprintf("New follow-up on lead %q scheduled for %s %s", lead.Title, request.ScheduledDate, request.ScheduledTime))

	return resp, nil
}

// ListFollowUps returns a lead's follow-ups ordered by schedule
func (lf *LeadFlowImpl) ListFollowUps(ctx context.Context, leadID uint) (*dto.ListFollowUpsResponse, error) {
	if err := lf.ensureLeadExists(ctx, leadID); err != nil {
		return nil, err
	}

	followUps, err := lf.followUpRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("LIST_FOLLOW_UPS_FAILED", "Failed to list follow-ups", err)
	}

	resp := &dto.ListFollowUpsResponse{
		Success: true,
		Message: "Follow-ups retrieved",
		Data:    make([]dto.FollowUpDTO, 0, len(followUps)),
	}
	for _, followUp := range followUps {
		resp.Data = append(resp.Data, ToFollowUpDTO(*followUp))
	}

	return resp, nil
}

// ExportLeads builds an xlsx workbook with one row per lead
func (lf *LeadFlowImpl) ExportLeads(ctx context.Context) (string, []byte, error) {
	leads, err := lf.leadRepo.ListWithRelations(ctx)
	if err != nil {
		return "", nil, NewBusinessError("LEAD_EXPORT_FAILED", "Failed to fetch leads for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Leads"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "title", "division", "assigned_to", "status", "created_at", "updated_at", "comments", "follow_ups"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, lead := range leads {
		record := []string{
			strconv.FormatUint(uint64(lead.ID), 10),
			lead.Title,
			lead.Division,
			lead.AssignedTo,
			lead.Status,
			lead.CreatedAt.UTC().Format(time.RFC3339),
			lead.UpdatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(len(lead.Comments)),
			strconv.Itoa(len(lead.FollowUps)),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("leads_%s.xlsx", utils.UTCNow().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

// ensureLeadExists returns a lead-not-found business error when the lead is missing
func (lf *LeadFlowImpl) ensureLeadExists(ctx context.Context, leadID uint) error {
	exists, err := lf.leadRepo.Exists(ctx, models.LeadFilter{ID: &leadID})
	if err != nil {
		return NewBusinessError("GET_LEAD_FAILED", "Failed to get lead", err)
	}
	if !exists {
		return NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}
	return nil
}

// resolveActor maps the authenticated phone number to a staff display name.
// An unknown actor resolves to the empty string, which can never satisfy the
// status authorization rule.
func (lf *LeadFlowImpl) resolveActor(ctx context.Context, actorPhone string) string {
	if actorPhone == "" {
		return ""
	}

	staff, err := lf.staffDirectory.ByPhoneNumber(ctx, actorPhone)
	if err != nil || staff == nil {
		return ""
	}
	return staff.Name
}

// notifyAssignee sends a best-effort WhatsApp message to the lead's assignee
// after the surrounding transaction has committed. Delivery failures never
// affect the API response.
func (lf *LeadFlowImpl) notifyAssignee(assignedTo, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		staff, err := lf.staffDirectory.ByName(ctx, assignedTo)
		if err != nil || staff == nil {
			return
		}

		_, _ = lf.notificationSvc.Send(ctx, staff.PhoneNumber, message)
	}()
}

// The validate helpers trim the request in place so whitespace-only values
// are rejected and trimmed values are what gets persisted.

func (lf *LeadFlowImpl) validateCreateLeadRequest(request *dto.CreateLeadRequest) error {
	request.Title = strings.TrimSpace(request.Title)
	request.Division = strings.TrimSpace(request.Division)
	request.AssignedTo = strings.TrimSpace(request.AssignedTo)
	request.Status = strings.TrimSpace(request.Status)

	if request.Title == "" {
		return ErrLeadTitleRequired
	}
	if request.Division == "" {
		return ErrLeadDivisionRequired
	}
	if request.AssignedTo == "" {
		return ErrLeadAssignedToRequired
	}
	if !models.IsValidDivision(request.Division) {
		return ErrInvalidDivision
	}
	if request.Status != "" && !models.IsValidLeadStatus(request.Status) {
		return ErrInvalidLeadStatus
	}
	return nil
}

func (lf *LeadFlowImpl) validateUpdateLeadRequest(request *dto.UpdateLeadRequest) error {
	trimField(request.Title)
	trimField(request.Division)
	trimField(request.AssignedTo)
	trimField(request.Status)

	if request.Title != nil && *request.Title == "" {
		return ErrLeadTitleRequired
	}
	if request.AssignedTo != nil && *request.AssignedTo == "" {
		return ErrLeadAssignedToRequired
	}
	if request.Division != nil && !models.IsValidDivision(*request.Division) {
		return ErrInvalidDivision
	}
	if request.Status != nil && !models.IsValidLeadStatus(*request.Status) {
		return ErrInvalidLeadStatus
	}
	return nil
}

func (lf *LeadFlowImpl) validateAddCommentRequest(request *dto.AddCommentRequest) error {
	request.Text = strings.TrimSpace(request.Text)
	request.Author = strings.TrimSpace(request.Author)

	if request.Text == "" {
		return ErrCommentTextRequired
	}
	if request.Author == "" {
		return ErrCommentAuthorRequired
	}
	return nil
}

func (lf *LeadFlowImpl) validateAddFollowUpRequest(request *dto.AddFollowUpRequest) error {
	request.Description = strings.TrimSpace(request.Description)
	request.ScheduledDate = strings.TrimSpace(request.ScheduledDate)
	request.ScheduledTime = strings.TrimSpace(request.ScheduledTime)
	request.Author = strings.TrimSpace(request.Author)

	if request.Description == "" {
		return ErrFollowUpDescriptionRequired
	}
	if request.ScheduledDate == "" || request.ScheduledTime == "" {
		return ErrFollowUpScheduleRequired
	}
	if request.Author == "" {
		return ErrFollowUpAuthorRequired
	}
	return nil
}

func trimField(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func (lf *LeadFlowImpl) WithLeadTransaction(ctx context.Context, fn func(context.Context) (*dto.LeadResponse, error)) (*dto.LeadResponse, error) {
	var result *dto.LeadResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LeadFlowImpl) WithDeleteLeadTransaction(ctx context.Context, fn func(context.Context) (*dto.DeleteLeadResponse, error)) (*dto.DeleteLeadResponse, error) {
	var result *dto.DeleteLeadResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LeadFlowImpl) WithCommentTransaction(ctx context.Context, fn func(context.Context) (*dto.CommentResponse, error)) (*dto.CommentResponse, error) {
	var result *dto.CommentResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LeadFlowImpl) WithFollowUpTransaction(ctx context.Context, fn func(context.Context) (*dto.FollowUpResponse, error)) (*dto.FollowUpResponse, error) {
	var result *dto.FollowUpResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
