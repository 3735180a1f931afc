package models

// User is an account record. The password is stored only as a bcrypt hash,
// never in plaintext. Users are created at signup and never mutated.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:200;not null"`

	// Relationship: one user owns many images
	Images []Image `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
