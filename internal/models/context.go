package models

// Context levels of the host platform's scope hierarchy.
const (
	ContextSystem         = 10
	ContextUser           = 30
	ContextCourseCategory = 40
	ContextCourse         = 50
	ContextModule         = 70
	ContextBlock          = 80
)

// Context disambiguates where an event happened.
type Context struct {
	ID           int64 `gorm:"primaryKey"`
	ContextLevel int   `gorm:"uniqueIndex:idx_context_instance;not null"`
	InstanceID   int64 `gorm:"uniqueIndex:idx_context_instance;not null"`
}

// TableName specifies the table name for GORM
func (Context) TableName() string {
	return "contexts"
}
