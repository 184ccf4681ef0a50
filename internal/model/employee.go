package model

// Employee is the read-only directory entry schedules are generated
// for, mapped to employees. This subsystem never mutates it.
type Employee struct {
	EmployeeID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	FirstName  string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName   string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	PhotoURL   *string `gorm:"type:varchar(500)"                              json:"photo_url,omitempty"`
	TeamID     *string `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	IsActive   bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName sets the table name.
func (Employee) TableName() string { return "employees" }

// FullName joins first and last name for display and confirmation
// prompts.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
