package model

// Team groups employees under a manager's scope, mapped to teams.
type Team struct {
	TeamID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	Name      string  `gorm:"type:varchar(100);not null"                     json:"name"`
	CompanyID *string `gorm:"type:uuid"                                      json:"company_id,omitempty"`
	IsActive  bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName sets the table name.
func (Team) TableName() string { return "teams" }
