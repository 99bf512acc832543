package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnnouncementVisibleAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	before, after := now.Add(-time.Hour), now.Add(time.Hour)

	cases := []struct {
		name     string
		status   AnnouncementStatus
		from, to *time.Time
		visible  bool
	}{
		{"open window", AnnouncementPublished, nil, nil, true},
		{"inside", AnnouncementPublished, &before, &after, true},
		{"not yet", AnnouncementPublished, &after, nil, false},
		{"expired", AnnouncementPublished, nil, &before, false},
		{"boundary", AnnouncementPublished, &now, &now, true},
		{"draft", AnnouncementDraft, nil, nil, false},
		{"archived", AnnouncementArchived, &before, &after, false},
	}
	for _, tc := range cases {
		a := Announcement{Status: tc.status, VisibleFrom: tc.from, VisibleTo: tc.to}
		assert.Equal(t, tc.visible, a.VisibleAt(now), tc.name)
	}
}

func TestReportEnums(t *testing.T) {
	assert.True(t, ReportInReview.Valid())
	assert.False(t, ReportStatus("reviewed").Valid())
	assert.True(t, ValidReportTarget(ReportTargetProduct))
	assert.False(t, ValidReportTarget("comment"))
}
