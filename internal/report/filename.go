package report

import (
	"strings"
	"time"
	"unicode"

	"github.com/jimmy-wims/course-log/internal/models"
)

// FilenameTimeLayout is the timestamp layout of export filenames.
const FilenameTimeLayout = "20060102-1504"

// ExportFilename returns the base name (no extension) of an export:
// logs_<shortname>_<timestamp>, or logs_<timestamp> for the site course.
func ExportFilename(course *models.Course, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	stamp := now.In(loc).Format(FilenameTimeLayout)
	if course == nil || course.IsSite() {
		return "logs_" + stamp
	}
	return CleanFilename("logs_" + course.ShortName + "_" + stamp)
}

// CleanFilename drops control characters and characters that are unsafe in
// file names or Content-Disposition headers.
func CleanFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune("&<>\"`|':\\/*?", r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "." || cleaned == ".." {
		return ""
	}
	return cleaned
}
