package timetable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/gradplan/internal/timetable"
)

func overlappingSections() []timetable.Section {
	return []timetable.Section{
		{
			CRN: "L01", CourseCode: "csci1000u", Subject: "csci", Type: timetable.Lecture,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 900, EndMinute: 1000, Weekdays: []timetable.Weekday{0}}},
		},
		{
			CRN: "L02", CourseCode: "csci2000u", Subject: "csci", Type: timetable.Lecture,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 930, EndMinute: 1030, Weekdays: []timetable.Weekday{0}}},
		},
	}
}

func TestSolveNoOverlapPicksAtMostOneOfOverlappingLectures(t *testing.T) {
	s := timetable.New()
	result, err := s.Solve(timetable.Request{
		Sections: overlappingSections(),
		FilterConstraints: []timetable.FilterConstraint{
			{Name: "csci", Filter: timetable.Filter{Subjects: []string{"csci"}}},
		},
		Objective: timetable.CoursesTaken,
	})
	require.NoError(t, err)
	require.Equal(t, "FEASIBLE", result.Status)
	require.NotNil(t, result.Schedule)
	assert.LessOrEqual(t, len(result.Schedule.Sections), 1)
}

func TestSolveLinkedSectionRequiresOneFromEachGroup(t *testing.T) {
	sections := []timetable.Section{
		{
			CRN: "LEC1", CourseCode: "csci1000u", Subject: "csci", Type: timetable.Lecture,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 900, EndMinute: 1000, Weekdays: []timetable.Weekday{0}}},
			LinkGroups:   [][]string{{"LAB01", "LAB02"}, {"TUT01"}},
		},
		{
			CRN: "LAB01", CourseCode: "csci1000u", Subject: "csci", Type: timetable.Lab,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 1100, EndMinute: 1200, Weekdays: []timetable.Weekday{0}}},
		},
		{
			CRN: "LAB02", CourseCode: "csci1000u", Subject: "csci", Type: timetable.Lab,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 1300, EndMinute: 1400, Weekdays: []timetable.Weekday{0}}},
		},
		{
			CRN: "TUT01", CourseCode: "csci1000u", Subject: "csci", Type: timetable.Tutorial,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 1500, EndMinute: 1600, Weekdays: []timetable.Weekday{0}}},
		},
	}

	s := timetable.New()
	result, err := s.Solve(timetable.Request{
		Sections: sections,
		FilterConstraints: []timetable.FilterConstraint{
			{Name: "force-lecture", Filter: timetable.Filter{CourseNames: []string{"csci1000u"}}, EQ: intPtr(1)},
		},
		Objective: timetable.CoursesTaken,
	})
	require.NoError(t, err)
	require.Equal(t, "FEASIBLE", result.Status)
	require.NotNil(t, result.Schedule)

	taken := make(map[string]bool)
	for _, sec := range result.Schedule.Sections {
		taken[sec.CRN] = true
	}
	require.True(t, taken["LEC1"])
	assert.True(t, taken["LAB01"] || taken["LAB02"], "exactly one lab group member must be taken")
	assert.False(t, taken["LAB01"] && taken["LAB02"], "both lab alternatives cannot be taken at once")
	assert.True(t, taken["TUT01"], "the singleton tutorial group must be taken")
}

func intPtr(i int) *int { return &i }

func TestFilterNarrowsConjunctively(t *testing.T) {
	f := timetable.Filter{Subjects: []string{"math"}, CourseNames: []string{"math2050u"}}
	assert.True(t, f.Matches("math2050u", "math", 2))
	assert.False(t, f.Matches("math1850u", "math", 1), "right subject, not in the code list")
	assert.False(t, f.Matches("math2050u", "phys", 2), "listed code, wrong subject")

	empty := timetable.Filter{}
	assert.True(t, empty.Matches("anything", "any-subject", 1))
}

func TestEnumerateSchedulesYieldsDistinctCourseSets(t *testing.T) {
	sections := []timetable.Section{
		{CRN: "A1", CourseCode: "csci1000u", Subject: "csci", Type: timetable.Lecture,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 900, EndMinute: 1000, Weekdays: []timetable.Weekday{0}}}},
		{CRN: "B1", CourseCode: "csci2000u", Subject: "csci", Type: timetable.Lecture,
			MeetingTimes: []timetable.MeetingTime{{BeginMinute: 1100, EndMinute: 1200, Weekdays: []timetable.Weekday{0}}}},
	}

	s := timetable.New()
	var schedules []*timetable.Schedule
	err := s.EnumerateSchedules(timetable.Request{
		Sections: sections,
		FilterConstraints: []timetable.FilterConstraint{
			{Name: "csci", Filter: timetable.Filter{Subjects: []string{"csci"}}},
		},
		Objective:    timetable.CoursesTaken,
		MaxSolutions: 10,
	}, func(sched *timetable.Schedule) bool {
		schedules = append(schedules, sched)
		return true
	})
	require.NoError(t, err)
	require.NotEmpty(t, schedules)

	seen := make(map[string]bool)
	for _, sched := range schedules {
		key := ""
		for _, sec := range sched.Sections {
			key += sec.CourseCode + ","
		}
		assert.False(t, seen[key], "duplicate course-set schedule yielded: %s", key)
		seen[key] = true
	}
}
