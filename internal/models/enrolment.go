package models

// Role short names used by the report.
const (
	RoleStudent        = "student"
	RoleTeacher        = "teacher"
	RoleEditingTeacher = "editingteacher"
	RoleManager        = "manager"
)

// Enrolment status values; zero means active for both enrol instances and
// user enrolments.
const (
	EnrolStatusActive    = 0
	EnrolStatusSuspended = 1
)

type Role struct {
	ID        int64  `gorm:"primaryKey"`
	ShortName string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// TableName specifies the table name for GORM
func (Role) TableName() string {
	return "roles"
}

type RoleAssignment struct {
	ID        int64 `gorm:"primaryKey"`
	RoleID    int64 `gorm:"index;not null"`
	ContextID int64 `gorm:"index;not null"`
	UserID    int64 `gorm:"index;not null"`
}

// TableName specifies the table name for GORM
func (RoleAssignment) TableName() string {
	return "role_assignments"
}

// Enrol is an enrolment method instance of a course.
type Enrol struct {
	ID       int64 `gorm:"primaryKey"`
	CourseID int64 `gorm:"index;not null"`
	Status   int   `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (Enrol) TableName() string {
	return "enrol"
}

type UserEnrolment struct {
	ID      int64 `gorm:"primaryKey"`
	EnrolID int64 `gorm:"index;not null"`
	UserID  int64 `gorm:"index;not null"`
	Status  int   `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (UserEnrolment) TableName() string {
	return "user_enrolments"
}
