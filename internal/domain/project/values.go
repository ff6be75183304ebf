package project

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

const (
	maxTitleLen         = 200
	maxDescriptionLen   = 4000
	maxProjectKeyLen    = 32
	maxProjectNameLen   = 200
	maxMilestoneNameLen = 200
	maxLoginLen         = 64
	maxDisplayNameLen   = 128

	dateLayout       = "2006-01-02"
	projectKeyFormat = "PRJ-%06d"
)

const (
	fieldProjectName   = "projectName"
	fieldProjectDesc   = "projectDescription"
	fieldMilestoneName = "milestoneName"
	fieldDateRange     = "dateRange"
	fieldProjectKey    = "projectKey"
	fieldTitle         = "title"
	fieldDescription   = "description"
	fieldLogin         = "login"
	fieldDisplayName   = "displayName"
)

const (
	reasonBlank           = "must not be blank"
	reasonRangeOutOfOrder = "start must be <= end"
)

func nonBlank(field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", domainagg.InvalidValue(field, reasonBlank)
	}
	return v, nil
}

func maxLen(field, v string, max int) error {
	if utf8.RuneCountInString(v) > max {
		return domainagg.InvalidValue(field, fmt.Sprintf("length must be <= %d", max))
	}
	return nil
}

func boundedNonBlank(field, raw string, max int) (string, error) {
	v, err := nonBlank(field, raw)
	if err != nil {
		return "", err
	}
	if err := maxLen(field, v, max); err != nil {
		return "", err
	}
	return v, nil
}

// Title is a trimmed, non-blank ticket or bug title.
type Title struct{ value string }

func NewTitle(raw string) (Title, error) {
	v, err := boundedNonBlank(fieldTitle, raw, maxTitleLen)
	if err != nil {
		return Title{}, err
	}
	return Title{value: v}, nil
}

func (t Title) String() string { return t.value }

// Description may be empty.
type Description struct{ value string }

func NewDescription(raw string) (Description, error) {
	return newDescription(fieldDescription, raw)
}

func newDescription(field, raw string) (Description, error) {
	v := strings.TrimSpace(raw)
	if err := maxLen(field, v, maxDescriptionLen); err != nil {
		return Description{}, err
	}
	return Description{value: v}, nil
}

func (d Description) String() string { return d.value }

// ProjectKey is the immutable human-readable project handle.
type ProjectKey struct{ value string }

func NewProjectKey(raw string) (ProjectKey, error) {
	v, err := boundedNonBlank(fieldProjectKey, raw, maxProjectKeyLen)
	if err != nil {
		return ProjectKey{}, err
	}
	return ProjectKey{value: v}, nil
}

// FormatProjectKey renders the n-th generated key.
func FormatProjectKey(n int64) string {
	return fmt.Sprintf(projectKeyFormat, n)
}

func (k ProjectKey) String() string { return k.value }

// DateRange is an inclusive calendar range.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = civilDate(start), civilDate(end)
	if start.After(end) {
		return DateRange{}, domainagg.InvalidValue(fieldDateRange, reasonRangeOutOfOrder)
	}
	return DateRange{start: start, end: end}, nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(field, raw string) (time.Time, error) {
	v, err := nonBlank(field, raw)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, domainagg.InvalidValue(field, "must be YYYY-MM-DD")
	}
	return d, nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
