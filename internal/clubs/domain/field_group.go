package domain

import "fmt"

// FieldGroup names one of the four category triples of a ClubRecord.
type FieldGroup string

const (
	LeadSources    FieldGroup = "lead_sources"
	StrategicFocus FieldGroup = "strategic_focus"
	Objections     FieldGroup = "objections"
	Complaints     FieldGroup = "complaints"
)

var groupAttributes = map[FieldGroup][3]string{
	LeadSources:    {"LEAD SOURCES 1", "LEAD SOURCES 2", "LEAD SOURCES 3"},
	StrategicFocus: {"STRATEGIC FOCUS 1", "STRATEGIC FOCUS 2", "STRATEGIC FOCUS 3"},
	Objections:     {"OBJECTIONS 1", "OBJECTIONS 2", "OBJECTIONS 3"},
	Complaints:     {"COMPLAINTS 1", "COMPLAINTS 2", "COMPLAINTS 3"},
}

// payload keys of the three values, in order
var groupPayloadKeys = map[FieldGroup][3]string{
	LeadSources:    {"first", "second", "third"},
	StrategicFocus: {"first", "second", "third"},
	Objections:     {"objection1", "objection2", "objection3"},
	Complaints:     {"complaint1", "complaint2", "complaint3"},
}

var groupColumns = map[FieldGroup][3]string{
	LeadSources:    {"lead_source_1", "lead_source_2", "lead_source_3"},
	StrategicFocus: {"strategic_focus_1", "strategic_focus_2", "strategic_focus_3"},
	Objections:     {"objection_1", "objection_2", "objection_3"},
	Complaints:     {"complaint_1", "complaint_2", "complaint_3"},
}

func (g FieldGroup) Valid() bool {
	_, ok := groupAttributes[g]
	return ok
}

// Attributes returns the stored attribute names of the group.
func (g FieldGroup) Attributes() [3]string {
	return groupAttributes[g]
}

func (g FieldGroup) PayloadKeys() [3]string {
	return groupPayloadKeys[g]
}

// Columns returns the SQL column names of the group.
func (g FieldGroup) Columns() [3]string {
	return groupColumns[g]
}

// Apply overwrites the group's three fields on r.
func (g FieldGroup) Apply(r *ClubRecord, v [3]string) error {
	switch g {
	case LeadSources:
		r.LeadSource1, r.LeadSource2, r.LeadSource3 = v[0], v[1], v[2]
	case StrategicFocus:
		r.StrategicFocus1, r.StrategicFocus2, r.StrategicFocus3 = v[0], v[1], v[2]
	case Objections:
		r.Objection1, r.Objection2, r.Objection3 = v[0], v[1], v[2]
	case Complaints:
		r.Complaint1, r.Complaint2, r.Complaint3 = v[0], v[1], v[2]
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFieldGroup, string(g))
	}
	return nil
}
