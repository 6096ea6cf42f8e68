// Package businessflow contains the core business logic and use cases for lead tracking workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Staff and authentication errors
	ErrStaffNotFound         = errors.New("user not found")
	ErrStaffInactive         = errors.New("user is inactive")
	ErrInvalidPhoneNumber    = errors.New("invalid phone number")
	ErrPhoneNumberRequired   = errors.New("phone number is required")
	ErrNoValidCodeFound      = errors.New("invalid or expired verification code")
	ErrVerificationSendFault = errors.New("failed to send verification code")

	// Lead-related errors
	ErrLeadNotFound           = errors.New("lead not found")
	ErrLeadTitleRequired      = errors.New("lead title is required")
	ErrLeadDivisionRequired   = errors.New("lead division is required")
	ErrLeadAssignedToRequired = errors.New("lead assignee is required")
	ErrInvalidDivision        = errors.New("invalid division")
	ErrInvalidLeadStatus      = errors.New("invalid lead status")
	ErrStatusChangeNotAllowed = errors.New("only the assigned user can close or terminate a lead")

	// Comment and follow-up errors
	ErrCommentTextRequired         = errors.New("comment text is required")
	ErrCommentAuthorRequired       = errors.New("comment author is required")
	ErrFollowUpDescriptionRequired = errors.New("follow-up description is required")
	ErrFollowUpScheduleRequired    = errors.New("follow-up date and time are required")
	ErrFollowUpAuthorRequired      = errors.New("follow-up author is required")

	// Notification errors
	ErrRecipientsRequired = errors.New("at least one recipient is required")
	ErrMessageRequired    = errors.New("message text is required")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsStaffNotFound(err error) bool {
	return errors.Is(err, ErrStaffNotFound)
}

func IsStaffInactive(err error) bool {
	return errors.Is(err, ErrStaffInactive)
}

func IsInvalidPhoneNumber(err error) bool {
	return errors.Is(err, ErrInvalidPhoneNumber)
}

func IsPhoneNumberRequired(err error) bool {
	return errors.Is(err, ErrPhoneNumberRequired)
}

func IsNoValidCodeFound(err error) bool {
	return errors.Is(err, ErrNoValidCodeFound)
}

func IsVerificationSendFault(err error) bool {
	return errors.Is(err, ErrVerificationSendFault)
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsLeadTitleRequired(err error) bool {
	return errors.Is(err, ErrLeadTitleRequired)
}

func IsLeadDivisionRequired(err error) bool {
	return errors.Is(err, ErrLeadDivisionRequired)
}

func IsLeadAssignedToRequired(err error) bool {
	return errors.Is(err, ErrLeadAssignedToRequired)
}

func IsInvalidDivision(err error) bool {
	return errors.Is(err, ErrInvalidDivision)
}

func IsInvalidLeadStatus(err error) bool {
	return errors.Is(err, ErrInvalidLeadStatus)
}

func IsStatusChangeNotAllowed(err error) bool {
	return errors.Is(err, ErrStatusChangeNotAllowed)
}

func IsCommentTextRequired(err error) bool {
	return errors.Is(err, ErrCommentTextRequired)
}

func IsCommentAuthorRequired(err error) bool {
	return errors.Is(err, ErrCommentAuthorRequired)
}

func IsFollowUpDescriptionRequired(err error) bool {
	return errors.Is(err, ErrFollowUpDescriptionRequired)
}

func IsFollowUpScheduleRequired(err error) bool {
	return errors.Is(err, ErrFollowUpScheduleRequired)
}

func IsFollowUpAuthorRequired(err error) bool {
	return errors.Is(err, ErrFollowUpAuthorRequired)
}

func IsRecipientsRequired(err error) bool {
	return errors.Is(err, ErrRecipientsRequired)
}

func IsMessageRequired(err error) bool {
	return errors.Is(err, ErrMessageRequired)
}
