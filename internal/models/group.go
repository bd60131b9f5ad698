package models

type Group struct {
	ID       int64  `gorm:"primaryKey"`
	CourseID int64  `gorm:"index;not null"`
	Name     string `gorm:"type:varchar(254);not null"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "course_groups"
}

type GroupMember struct {
	GroupID int64 `gorm:"primaryKey"`
	UserID  int64 `gorm:"primaryKey;index"`
}

// TableName specifies the table name for GORM
func (GroupMember) TableName() string {
	return "course_groups_members"
}
