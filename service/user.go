package service

import (
	"context"
	"strings"

	"matchai-service/database"
	"matchai-service/model"

	"gorm.io/datatypes"
)

// UserUpdate holds the profile fields a user may change. Nil fields are left
// untouched.
type UserUpdate struct {
	ProfileName     *string   `json:"profileName"`
	Age             *int      `json:"age"`
	Gender          *string   `json:"gender"`
	Location        *string   `json:"location"`
	Bio             *string   `json:"bio"`
	Occupation      *string   `json:"occupation"`
	Education       *string   `json:"education"`
	LookingFor      *string   `json:"lookingFor"`
	Interests       *[]string `json:"interests"`
	ProfileVideoURL *string   `json:"profileVideoUrl"`
}

func (u *UserUpdate) fields() (map[string]any, error) {
	out := map[string]any{}
	bad := map[string]string{}

	text := func(column, name string, v *string) {
		if v == nil {
			return
		}
		if strings.TrimSpace(*v) == "" {
			bad[name] = "must not be empty"
			return
		}
		out[column] = strings.TrimSpace(*v)
	}
	text("profile_name", "profileName", u.ProfileName)
	text("gender", "gender", u.Gender)
	text("location", "location", u.Location)
	text("looking_for", "lookingFor", u.LookingFor)

	if u.Age != nil {
		if *u.Age < 18 {
			bad["age"] = "must be at least 18"
		} else {
			out["age"] = *u.Age
		}
	}
	if u.Bio != nil {
		out["bio"] = *trimPtr(u.Bio)
	}
	if u.Occupation != nil {
		out["occupation"] = *u.Occupation
	}
	if u.Education != nil {
		out["education"] = *u.Education
	}
	if u.Interests != nil {
		interests := *u.Interests
		if interests == nil {
			interests = []string{}
		}
		out["interests"] = datatypes.JSONSlice[string](interests)
	}
	if u.ProfileVideoURL != nil {
		out["profile_video_url"] = *u.ProfileVideoURL
	}

	if len(bad) > 0 {
		return nil, model.NewValidationError("Invalid user data", bad)
	}
	return out, nil
}

type UserService struct {
	store database.UserStore
}

func NewUserService(store database.UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.PublicUser, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("User")
	}
	p := user.Public()
	return &p, nil
}

// Update changes the profile of id. Only the owner may do it.
func (s *UserService) Update(ctx context.Context, callerID, id uint, in UserUpdate) (*model.PublicUser, error) {
	if callerID != id {
		return nil, model.NewUnauthorizedError("Not authorized")
	}

	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.store.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("User")
	}
	p := user.Public()
	return &p, nil
}
