package model

// Reviewer roles. Only these three may drive the validation workflow;
// managers are additionally scoped to their own team.
const (
	RoleAdmin    = "admin"
	RoleDirector = "director"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// IsReviewerRole reports whether a role may approve or reject drafts.
func IsReviewerRole(role string) bool {
	return role == RoleAdmin || role == RoleDirector || role == RoleManager
}

// User is an account that can sign in, mapped to users.
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	FirstName    string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	TeamID       *string `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	VersionedModel

	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
