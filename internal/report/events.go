package report

// Identity of the events the report writes about itself.
const (
	EventComponent         = "coursereport_course_log"
	EventTarget            = "report"
	ActionReportViewed     = "viewed"
	ActionReportDownloaded = "downloaded"

	EventNameReportViewed     = `\coursereport_course_log\event\report_viewed`
	EventNameReportDownloaded = `\coursereport_course_log\event\report_downloaded`
)
