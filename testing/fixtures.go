// Package testing provides test utilities and database setup for testing the lead tracking system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestStaff creates an active staff member with a random UAE phone number
func (tf *TestFixtures) CreateTestStaff(name string) (*models.Staff, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	staff := &models.Staff{
		Name:        name,
		PhoneNumber: fmt.Sprintf("+971%s", randomDigits),
		IsActive:    utils.ToPtr(true),
	}

	err := tf.DB.DB.Create(staff).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test staff member: %w", err)
	}

	return staff, nil
}

// CreateInactiveStaff creates a deactivated staff member
func (tf *TestFixtures) CreateInactiveStaff(name string) (*models.Staff, error) {
	staff, err := tf.CreateTestStaff(name)
	if err != nil {
		return nil, err
	}

	staff.IsActive = utils.ToPtr(false)
	if err := tf.DB.DB.Save(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate test staff member: %w", err)
	}

	return staff, nil
}

// CreateTestLead creates a lead assigned to the given staff name
func (tf *TestFixtures) CreateTestLead(title, assignedTo string) (*models.Lead, error) {
	lead := &models.Lead{
		Title:      title,
		Division:   models.DivisionManagementConsulting,
		AssignedTo: assignedTo,
		Status:     models.LeadStatusNew,
	}

	err := tf.DB.DB.Create(lead).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}

// CreateTestComment creates a comment on the given lead
func (tf *TestFixtures) CreateTestComment(leadID uint, text, author string) (*models.Comment, error) {
	comment := &models.Comment{
		LeadID: leadID,
		Text:   text,
		Author: author,
	}

	err := tf.DB.DB.Create(comment).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test comment: %w", err)
	}

	return comment, nil
}

// CreateTestFollowUp creates a follow-up on the given lead
func (tf *TestFixtures) CreateTestFollowUp(leadID uint, description string) (*models.FollowUp, error) {
	followUp := &models.FollowUp{
		LeadID:        leadID,
		Description:   description,
		ScheduledDate: "2026-10-01",
		ScheduledTime: "14:30",
	}

	err := tf.DB.DB.Create(followUp).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test follow-up: %w", err)
	}

	return followUp, nil
}

// CreateTestVerificationCode creates a verification code for a phone number
func (tf *TestFixtures) CreateTestVerificationCode(phoneNumber, code string) (*models.VerificationCode, error) {
	vc := &models.VerificationCode{
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   utils.UTCNowAdd(utils.VerificationCodeExpiry),
	}

	err := tf.DB.DB.Create(vc).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test verification code: %w", err)
	}

	return vc, nil
}

// CreateExpiredVerificationCode creates a verification code that expired an hour ago
func (tf *TestFixtures) CreateExpiredVerificationCode(phoneNumber, code string) (*models.VerificationCode, error) {
	vc := &models.VerificationCode{
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   utils.UTCNowAdd(-1 * utils.VerificationCodeExpiry * 6),
	}

	err := tf.DB.DB.Create(vc).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create expired verification code: %w", err)
	}

	return vc, nil
}
