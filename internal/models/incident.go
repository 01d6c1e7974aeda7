package models

// Incident is a behavioral incident record. Student, teacher and type
// display fields are copied in at creation time so reports stay correct
// even if the referenced entity is later edited or deleted; they are never
// resynchronized.
//
// CreatedAt is a unix-millisecond stamp set on every save and is the
// canonical chronological sort key. Records written before the field
// existed carry zero and are ordered by their Date string instead.
type Incident struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName"`
	Course      string  `json:"course"`
	TeacherID   string  `json:"teacherId"`
	TeacherName string  `json:"teacherName"`
	TypeID      string  `json:"typeId"`
	TypeName    string  `json:"typeName"`
	Period      int     `json:"period"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	HasFollowUp bool    `json:"hasFollowUp"`
	EvidenceURL *string `json:"evidenceUrl"`
	CreatedAt   int64   `json:"createdAt"`
}

// Report scopes for incident queries.
const (
	ScopeSchool  = "school"
	ScopeCourse  = "course"
	ScopeStudent = "student"
)

// ReportFilter narrows an incident list for reports and exports.
// Period zero means all periods. Scope defaults to the whole institution;
// student/course scopes with an empty Value match nothing, so an unset
// selector can never leak the full dataset.
type ReportFilter struct {
	Period int    `form:"period" json:"period"`
	Scope  string `form:"scope" json:"scope"`
	Value  string `form:"value" json:"value"`
}

// CountPair is a (label, count) aggregation bucket.
type CountPair struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
