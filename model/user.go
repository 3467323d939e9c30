package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User struct
type User struct {
	ID              uint                        `gorm:"primaryKey"`
	CreatedAt       time.Time                   `gorm:"not null"`
	UpdatedAt       time.Time
	Username        string                      `gorm:"uniqueIndex;not null"`
	Password        string                      `gorm:"not null" json:"-"`
	ProfileName     string                      `gorm:"not null"`
	Age             int                         `gorm:"not null"`
	Gender          string                      `gorm:"not null"`
	Location        string                      `gorm:"not null"`
	Bio             *string
	Occupation      *string
	Education       *string
	LookingFor      string                      `gorm:"not null"`
	Interests       datatypes.JSONSlice[string] `gorm:"not null"`
	ProfileVideoURL *string
	Role            string                      `gorm:"not null;default:user"`

	OtpEnabled bool   `gorm:"default:false;"`
	OtpSecret  string `json:"-"`
}

// PublicUser is the only user shape written to responses and socket frames.
type PublicUser struct {
	ID              uint      `json:"id"`
	Username        string    `json:"username"`
	ProfileName     string    `json:"profileName"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	Location        string    `json:"location"`
	Bio             *string   `json:"bio"`
	Occupation      *string   `json:"occupation"`
	Education       *string   `json:"education"`
	LookingFor      string    `json:"lookingFor"`
	Interests       []string  `json:"interests"`
	ProfileVideoURL *string   `json:"profileVideoUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	interests := []string(u.Interests)
	if interests == nil {
		interests = []string{}
	}
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		ProfileName:     u.ProfileName,
		Age:             u.Age,
		Gender:          u.Gender,
		Location:        u.Location,
		Bio:             u.Bio,
		Occupation:      u.Occupation,
		Education:       u.Education,
		LookingFor:      u.LookingFor,
		Interests:       interests,
		ProfileVideoURL: u.ProfileVideoURL,
		CreatedAt:       u.CreatedAt,
	}
}

func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}
