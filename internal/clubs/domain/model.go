package domain

// ClubRecord is one dated snapshot of a club's CRM categories. Attribute
// names keep the upper-case, space separated form the front end reads.
type ClubRecord struct {
	ID        int64  `json:"ID" dynamodbav:"ID"`
	UserEmail string `json:"User_Email" dynamodbav:"User_Email"`
	Club      string `json:"Club" dynamodbav:"Club"`
	DateTime  string `json:"Date_Time" dynamodbav:"Date_Time"`

	LeadSource1 string `json:"LEAD SOURCES 1" dynamodbav:"LEAD SOURCES 1"`
	LeadSource2 string `json:"LEAD SOURCES 2" dynamodbav:"LEAD SOURCES 2"`
	LeadSource3 string `json:"LEAD SOURCES 3" dynamodbav:"LEAD SOURCES 3"`

	StrategicFocus1 string `json:"STRATEGIC FOCUS 1" dynamodbav:"STRATEGIC FOCUS 1"`
	StrategicFocus2 string `json:"STRATEGIC FOCUS 2" dynamodbav:"STRATEGIC FOCUS 2"`
	StrategicFocus3 string `json:"STRATEGIC FOCUS 3" dynamodbav:"STRATEGIC FOCUS 3"`

	Objection1 string `json:"OBJECTIONS 1" dynamodbav:"OBJECTIONS 1"`
	Objection2 string `json:"OBJECTIONS 2" dynamodbav:"OBJECTIONS 2"`
	Objection3 string `json:"OBJECTIONS 3" dynamodbav:"OBJECTIONS 3"`

	Complaint1 string `json:"COMPLAINTS 1" dynamodbav:"COMPLAINTS 1"`
	Complaint2 string `json:"COMPLAINTS 2" dynamodbav:"COMPLAINTS 2"`
	Complaint3 string `json:"COMPLAINTS 3" dynamodbav:"COMPLAINTS 3"`
}

// ClubOption is the label/value pair the club picker consumes.
type ClubOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
