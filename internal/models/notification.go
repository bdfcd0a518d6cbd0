package models

import "time"

type NotificationType string

const (
	NotificationAlert      NotificationType = "alert"
	NotificationAssessment NotificationType = "assessment"
	NotificationFeedback   NotificationType = "feedback"
	NotificationEmployee   NotificationType = "employee"
)

type Notification struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	Type       NotificationType `json:"type" gorm:"not null;size:30;index"`
	Message    string           `json:"message" gorm:"type:text"`
	Date       time.Time        `json:"date" gorm:"not null;index"`
	Read       bool             `json:"read" gorm:"default:false"`
	EmployeeID *string          `json:"employee_id,omitempty" gorm:"size:255;index"`
	Image      *string          `json:"image,omitempty" gorm:"size:500"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Feedback is a message from HR to one employee.
type Feedback struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EmployeeID string    `json:"employee_id" gorm:"not null;size:255;index"`
	Message    string    `json:"message" gorm:"not null;type:text"`
	Date       time.Time `json:"date" gorm:"not null;index"`
	Read       bool      `json:"read" gorm:"default:false"`
}

func (Feedback) TableName() string {
	return "feedback"
}
