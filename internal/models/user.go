package models

import "strings"

type User struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string
	Deleted   bool `gorm:"not null;default:false"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// FullName returns "firstname lastname".
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
