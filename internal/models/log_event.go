package models

// Well-known values stored in the component, action and crud columns.
const (
	ComponentCore   = "core"
	ComponentLegacy = "legacy"
	ComponentQuiz   = "mod_quiz"
	ComponentAssign = "mod_assign"
	ComponentFile   = "mod_resource"

	ActionViewed   = "viewed"
	ActionUpdated  = "updated"
	ActionError    = "error"
	ActionInfected = "infected"
	ActionFailed   = "failed"

	CRUDCreate = "c"
	CRUDRead   = "r"
	CRUDUpdate = "u"
	CRUDDelete = "d"
)

// LogEvent is one row of the standard log store. Column names follow the
// host platform schema so that selections can be written against it.
type LogEvent struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"                               json:"id"`
	EventName         string `gorm:"column:eventname;type:varchar(255);not null"            json:"eventname"`
	Component         string `gorm:"column:component;type:varchar(100);index;not null"      json:"component"`
	Action            string `gorm:"column:action;type:varchar(100);not null"               json:"action"`
	Target            string `gorm:"column:target;type:varchar(100);not null"               json:"target"`
	ObjectTable       string `gorm:"column:objecttable;type:varchar(50)"                    json:"objecttable,omitempty"`
	ObjectID          int64  `gorm:"column:objectid"                                        json:"objectid,omitempty"`
	CRUD              string `gorm:"column:crud;type:char(1);not null"                      json:"crud"`
	EduLevel          int    `gorm:"column:edulevel;not null"                               json:"edulevel"`
	ContextID         int64  `gorm:"column:contextid;index;not null"                        json:"contextid"`
	ContextLevel      int    `gorm:"column:contextlevel;not null"                           json:"contextlevel"`
	ContextInstanceID int64  `gorm:"column:contextinstanceid;not null"                      json:"contextinstanceid"`
	UserID            int64  `gorm:"column:userid;index;not null"                           json:"userid"`
	CourseID          int64  `gorm:"column:courseid;index:idx_course_time;not null"         json:"courseid"`
	RelatedUserID     int64  `gorm:"column:relateduserid"                                   json:"relateduserid,omitempty"`
	Anonymous         int    `gorm:"column:anonymous;not null;default:0"                    json:"anonymous"`
	Other             string `gorm:"column:other;type:text"                                 json:"other,omitempty"`
	TimeCreated       int64  `gorm:"column:timecreated;index:idx_course_time;not null"      json:"timecreated"`
	Origin            string `gorm:"column:origin;type:varchar(10)"                         json:"origin,omitempty"`
	IP                string `gorm:"column:ip;type:varchar(45)"                             json:"ip,omitempty"`
	RealUserID        int64  `gorm:"column:realuserid"                                      json:"realuserid,omitempty"`
}

// TableName specifies the table name for GORM
func (LogEvent) TableName() string {
	return "logstore_standard_log"
}

// IsCore reports whether the event was emitted by the core subsystem.
func (e *LogEvent) IsCore() bool {
	return e.Component == ComponentCore || e.Component == ComponentLegacy
}
