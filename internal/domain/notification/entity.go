package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveRequestSubmitted      NotificationType = "LEAVE_REQUEST_SUBMITTED"
	TypeLeaveRequestApproved       NotificationType = "LEAVE_REQUEST_APPROVED"
	TypeLeaveRequestRejected       NotificationType = "LEAVE_REQUEST_REJECTED"
	TypeOvertimeRequestSubmitted   NotificationType = "OVERTIME_REQUEST_SUBMITTED"
	TypeOvertimeRequestApproved    NotificationType = "OVERTIME_REQUEST_APPROVED"
	TypeOvertimeRequestRejected    NotificationType = "OVERTIME_REQUEST_REJECTED"
	TypePermissionRequestSubmitted NotificationType = "PERMISSION_REQUEST_SUBMITTED"
	TypePermissionRequestApproved  NotificationType = "PERMISSION_REQUEST_APPROVED"
	TypePermissionRequestRejected  NotificationType = "PERMISSION_REQUEST_REJECTED"
	TypeAttendanceAlert            NotificationType = "ATTENDANCE_ALERT"
	TypeSystemAlert                NotificationType = "SYSTEM_ALERT"
)

// RecipientAdmin addresses the administrators' shared inbox.
const RecipientAdmin = "ADMIN"

type RecipientType string

const (
	RecipientTypeEmployee RecipientType = "EMPLOYEE"
	RecipientTypeAdmin    RecipientType = "ADMIN"
)

// Notification represents a notification entity
type Notification struct {
	ID                string
	RecipientID       string
	RecipientType     RecipientType
	Type              NotificationType
	Title             string
	Message           string
	RelatedEntityType *string
	RelatedEntityID   *string
	ActionURL         *string
	Data              map[string]any
	IsRead            bool
	ReadAt            *time.Time
	CreatedAt         time.Time
}
