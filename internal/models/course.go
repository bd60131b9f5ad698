package models

// SiteID is the id of the front page course that represents the whole site.
const SiteID int64 = 1

type Course struct {
	ID        int64  `gorm:"primaryKey"`
	ShortName string `gorm:"type:varchar(255);not null"`
	FullName  string `gorm:"type:varchar(254);not null"`
	Visible   bool   `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// IsSite reports whether the course is the site front page.
func (c *Course) IsSite() bool {
	return c.ID == SiteID
}

// CourseModule is one activity or resource placed in a course section.
type CourseModule struct {
	ID          int64  `gorm:"primaryKey"`
	CourseID    int64  `gorm:"index;not null"`
	ModuleName  string `gorm:"type:varchar(20);not null"` // quiz, assign, resource, ...
	Name        string `gorm:"type:varchar(255);not null"`
	Section     int    `gorm:"not null;default:0"`
	SectionName string `gorm:"type:varchar(255)"`
	Visible     bool   `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (CourseModule) TableName() string {
	return "course_modules"
}

// Component returns the plugin component name of the module, e.g. mod_quiz.
func (cm *CourseModule) Component() string {
	return "mod_" + cm.ModuleName
}
