package httpapi

import (
	"time"

	"github.com/campusforge/gradplan/internal/diagnose"
	"github.com/campusforge/gradplan/internal/planner"
	"github.com/campusforge/gradplan/internal/timetable"
)

// CourseSemesterDTO pairs a course code with a 1-indexed semester.
type CourseSemesterDTO struct {
	Code     string `json:"code" validate:"required"`
	Semester int    `json:"semester" validate:"required,min=1"`
}

// PlannerGenerateRequest is the /planner-generate request body.
type PlannerGenerateRequest struct {
	CompletedCourses    []CourseSemesterDTO `json:"completed_courses"`
	TakenIn             []CourseSemesterDTO `json:"taken_in"`
	CourseMap           string              `json:"course_map" validate:"required"`
	SemesterLayout      map[string]int      `json:"semester_layout"`
	CourseRatings       map[string]int      `json:"course_ratings"`
	MustTake            []string            `json:"must_take"`
	MustNotTake         []string            `json:"must_not_take"`
	SemesterCourseLimit int                 `json:"semester_course_limit"`
}

func (r PlannerGenerateRequest) toGenerateRequest(timeLimit time.Duration) planner.GenerateRequest {
	return planner.GenerateRequest{
		CompletedCourses:    toPlannerCourseSemesters(r.CompletedCourses),
		TakenIn:             toPlannerCourseSemesters(r.TakenIn),
		SemesterLayout:      r.SemesterLayout,
		CourseRatings:       r.CourseRatings,
		MustTake:            r.MustTake,
		MustNotTake:         r.MustNotTake,
		SemesterCourseLimit: r.SemesterCourseLimit,
		TimeLimit:           timeLimit,
	}
}

func toPlannerCourseSemesters(in []CourseSemesterDTO) []planner.CourseSemester {
	out := make([]planner.CourseSemester, len(in))
	for i, cs := range in {
		out[i] = planner.CourseSemester{Code: cs.Code, Semester: cs.Semester}
	}
	return out
}

// GraduationVerificationRequest is the /graduation-verification request
// body: a subset of PlannerGenerateRequest's fields.
type GraduationVerificationRequest struct {
	CompletedCourses []CourseSemesterDTO `json:"completed_courses"`
	TakenIn          []CourseSemesterDTO `json:"taken_in"`
	CourseMap        string              `json:"course_map" validate:"required"`
	SemesterLayout   map[string]int      `json:"semester_layout"`
	MustTake         []string            `json:"must_take"`
	MustNotTake      []string            `json:"must_not_take"`
}

func (r GraduationVerificationRequest) toVerifyRequest(timeLimit time.Duration) diagnose.VerifyRequest {
	return diagnose.VerifyRequest{
		CompletedCourses: toDiagnoseCourseSemesters(r.CompletedCourses),
		TakenIn:          toDiagnoseCourseSemesters(r.TakenIn),
		SemesterLayout:   r.SemesterLayout,
		MustTake:         r.MustTake,
		MustNotTake:      r.MustNotTake,
		TimeLimit:        timeLimit,
	}
}

func toDiagnoseCourseSemesters(in []CourseSemesterDTO) []diagnose.CourseSemester {
	out := make([]diagnose.CourseSemester, len(in))
	for i, cs := range in {
		out[i] = diagnose.CourseSemester{Code: cs.Code, Semester: cs.Semester}
	}
	return out
}

// MeetingTimeDTO mirrors timetable.MeetingTime over the wire.
type MeetingTimeDTO struct {
	BeginMinute int   `json:"begin_minute" validate:"min=0,max=2359"`
	EndMinute   int   `json:"end_minute" validate:"min=0,max=2359"`
	Weekdays    []int `json:"weekdays"`
}

// SectionDTO mirrors timetable.Section over the wire.
type SectionDTO struct {
	CRN          string           `json:"crn" validate:"required"`
	CourseCode   string           `json:"course_code" validate:"required"`
	Subject      string           `json:"subject"`
	Type         string           `json:"type"`
	YearLevel    int              `json:"year_level"`
	MeetingTimes []MeetingTimeDTO `json:"meeting_times"`
	LinkGroups   [][]string       `json:"link_groups"`
}

func (d SectionDTO) toSection() timetable.Section {
	mts := make([]timetable.MeetingTime, len(d.MeetingTimes))
	for i, mt := range d.MeetingTimes {
		days := make([]timetable.Weekday, len(mt.Weekdays))
		for j, w := range mt.Weekdays {
			days[j] = timetable.Weekday(w)
		}
		mts[i] = timetable.MeetingTime{BeginMinute: mt.BeginMinute, EndMinute: mt.EndMinute, Weekdays: days}
	}
	return timetable.Section{
		CRN: d.CRN, CourseCode: d.CourseCode, Subject: d.Subject,
		Type: sectionTypeFromString(d.Type), YearLevel: d.YearLevel,
		MeetingTimes: mts, LinkGroups: d.LinkGroups,
	}
}

func sectionTypeFromString(s string) timetable.SectionType {
	switch s {
	case "Lab":
		return timetable.Lab
	case "Tutorial":
		return timetable.Tutorial
	default:
		return timetable.Lecture
	}
}

// ForcedConflictDTO mirrors timetable.ForcedConflict over the wire.
type ForcedConflictDTO struct {
	Weekday     int `json:"weekday"`
	BeginMinute int `json:"begin_minute"`
	EndMinute   int `json:"end_minute"`
}

// TTFilterConstraintDTO mirrors timetable.FilterConstraint over the wire.
type TTFilterConstraintDTO struct {
	Name        string   `json:"name" validate:"required"`
	CourseNames []string `json:"course_names"`
	Subjects    []string `json:"subjects"`
	YearLevels  []int    `json:"year_levels"`
	EQ          *int     `json:"eq"`
	LTE         *int     `json:"lte"`
	GTE         *int     `json:"gte"`
}

func (d TTFilterConstraintDTO) toFilterConstraint() timetable.FilterConstraint {
	return timetable.FilterConstraint{
		Name: d.Name,
		Filter: timetable.Filter{
			CourseNames: d.CourseNames,
			Subjects:    d.Subjects,
			YearLevels:  d.YearLevels,
		},
		EQ: d.EQ, LTE: d.LTE, GTE: d.GTE,
	}
}

// TimeTableRequest is the /time-table and /all-time-tables request body.
type TimeTableRequest struct {
	Sections           []SectionDTO            `json:"sections" validate:"required,min=1,dive"`
	ForcedConflicts    []ForcedConflictDTO     `json:"forced_conflicts"`
	FilterConstraints  []TTFilterConstraintDTO `json:"filter_constraints"`
	OptimizationTarget string                  `json:"optimization_target"`
}

func (r TimeTableRequest) toRequest(timeLimit time.Duration, maxSolutions int) timetable.Request {
	sections := make([]timetable.Section, len(r.Sections))
	for i, s := range r.Sections {
		sections[i] = s.toSection()
	}
	forced := make([]timetable.ForcedConflict, len(r.ForcedConflicts))
	for i, f := range r.ForcedConflicts {
		forced[i] = timetable.ForcedConflict{Weekday: timetable.Weekday(f.Weekday), BeginMinute: f.BeginMinute, EndMinute: f.EndMinute}
	}
	filters := make([]timetable.FilterConstraint, len(r.FilterConstraints))
	for i, f := range r.FilterConstraints {
		filters[i] = f.toFilterConstraint()
	}
	return timetable.Request{
		Sections: sections, ForcedConflicts: forced, FilterConstraints: filters,
		Objective: objectiveFromString(r.OptimizationTarget),
		TimeLimit: timeLimit, MaxSolutions: maxSolutions,
	}
}

func objectiveFromString(s string) timetable.Objective {
	switch s {
	case "DaysOnCampus":
		return timetable.DaysOnCampus
	case "TimeOnCampus":
		return timetable.TimeOnCampus
	default:
		return timetable.CoursesTaken
	}
}

// ProcessPDFRequest is the /process-pdf request body: already-OCR'd
// transcript text.
type ProcessPDFRequest struct {
	Text string `json:"text" validate:"required"`
}

// PlanDTO, ViolationDTO, and ScheduleDTO are the response shapes.

type PlannedCourseDTO struct {
	Code string `json:"code"`
	Kind string `json:"kind"`
}

type PlanDTO struct {
	Semesters map[int][]PlannedCourseDTO `json:"semesters"`
}

func toPlanDTO(p *planner.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	out := &PlanDTO{Semesters: make(map[int][]PlannedCourseDTO, len(p.Semesters))}
	for sem, courses := range p.Semesters {
		list := make([]PlannedCourseDTO, len(courses))
		for i, c := range courses {
			list[i] = PlannedCourseDTO{Code: c.Code, Kind: c.Kind.String()}
		}
		out.Semesters[sem] = list
	}
	return out
}

type PlannerGenerateResponse struct {
	Status         string         `json:"status"`
	Plan           *PlanDTO       `json:"plan,omitempty"`
	Violations     []ViolationDTO `json:"violations,omitempty"`
	UnknownPrereqs []string       `json:"unknown_prereqs,omitempty"`
}

type ViolationDTO struct {
	Category     string   `json:"category"`
	Reason       string   `json:"reason"`
	Current      *float64 `json:"current,omitempty"`
	LTE          *float64 `json:"lte,omitempty"`
	GTE          *float64 `json:"gte,omitempty"`
	Contributing []string `json:"contributing,omitempty"`
}

func toViolationDTOs(in []diagnose.Violation) []ViolationDTO {
	out := make([]ViolationDTO, len(in))
	for i, v := range in {
		out[i] = ViolationDTO{
			Category: string(v.Category), Reason: v.Reason,
			Current: v.Current, LTE: v.LTE, GTE: v.GTE, Contributing: v.Contributing,
		}
	}
	return out
}

type GraduationVerificationResponse struct {
	Status     string         `json:"status"`
	Violations []ViolationDTO `json:"violations"`
}

type ScheduledSectionDTO struct {
	CRN        string `json:"crn"`
	CourseCode string `json:"course_code"`
	Type       string `json:"type"`
}

type ScheduleDTO struct {
	Sections []ScheduledSectionDTO `json:"sections"`
}

func toScheduleDTO(s *timetable.Schedule) *ScheduleDTO {
	if s == nil {
		return nil
	}
	out := &ScheduleDTO{Sections: make([]ScheduledSectionDTO, len(s.Sections))}
	for i, sec := range s.Sections {
		out.Sections[i] = ScheduledSectionDTO{CRN: sec.CRN, CourseCode: sec.CourseCode, Type: sec.Type.String()}
	}
	return out
}

type TimeTableResponse struct {
	Status   string       `json:"status"`
	Schedule *ScheduleDTO `json:"schedule,omitempty"`
}

type ProcessPDFResponse struct {
	Courses []string `json:"courses"`
}
