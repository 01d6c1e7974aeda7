package models

// Field length ceilings enforced before any write reaches a store.
const (
	MaxStudentNameLen = 45
	MaxCourseLen      = 4
)

// Student is an enrolled student. Course is a free-form code like "601".
type Student struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Course   string `json:"course"`
}

// Teacher is a staff member who can be referenced from incidents.
type Teacher struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// IncidentType is a free-form category label for incidents.
type IncidentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
