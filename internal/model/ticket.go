package model

import "time"

// Ticket statuses.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

type Ticket struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Status            string    `gorm:"size:20;not null" json:"status"`
	User              string    `gorm:"size:50;not null" json:"user"`
	Title             string    `gorm:"size:50;not null" json:"title"`
	Desc              string    `gorm:"size:255;not null" json:"desc"`
	PriorityGiven     string    `gorm:"size:50;default:Normal" json:"priority_given"`
	EstimatedPriority int       `gorm:"default:0" json:"estimated_priority"`
	Label             string    `gorm:"size:80" json:"label"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}
