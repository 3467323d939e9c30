package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"matchai-service/database"
	"matchai-service/model"
	"matchai-service/utils"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// RoleAssigner records which role a subject holds. The casbin enforcer
// satisfies it.
type RoleAssigner interface {
	AddGroupingPolicy(params ...interface{}) (bool, error)
}

type AuthOptions struct {
	BcryptCost int
	OtpIssuer  string
	// Admins lists usernames that are given the admin role on registration.
	Admins []string
}

type RegisterInput struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	ProfileName string   `json:"profileName"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Location    string   `json:"location"`
	Bio         *string  `json:"bio"`
	Occupation  *string  `json:"occupation"`
	Education   *string  `json:"education"`
	LookingFor  string   `json:"lookingFor"`
	Interests   []string `json:"interests"`
}

type Session struct {
	User   *model.PublicUser
	Tokens *utils.Tokens
	Otp    bool
}

type OtpSecret struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type AuthService struct {
	users  database.UserStore
	tokens database.TokenStore
	roles  RoleAssigner
	opts   AuthOptions
}

func NewAuthService(users database.UserStore, tokens database.TokenStore, roles RoleAssigner, opts AuthOptions) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 14
	}
	if opts.OtpIssuer == "" {
		opts.OtpIssuer = "matchai"
	}
	return &AuthService{users: users, tokens: tokens, roles: roles, opts: opts}
}

func (in *RegisterInput) validate() error {
	fields := map[string]string{}
	if len(strings.TrimSpace(in.Username)) < 3 {
		fields["username"] = "must be at least 3 characters"
	}
	if len(in.Password) < 6 {
		fields["password"] = "must be at least 6 characters"
	}
	if strings.TrimSpace(in.ProfileName) == "" {
		fields["profileName"] = "is required"
	}
	if in.Age < 18 {
		fields["age"] = "must be at least 18"
	}
	if strings.TrimSpace(in.Gender) == "" {
		fields["gender"] = "is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "is required"
	}
	if strings.TrimSpace(in.LookingFor) == "" {
		fields["lookingFor"] = "is required"
	}
	if len(fields) > 0 {
		return model.NewValidationError("Invalid user data", fields)
	}
	return nil
}

// Register creates the account, assigns its role and opens a session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, model.NewValidationError("Username already exists", map[string]string{
			"username": "is taken",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, internal(err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.opts.OtpIssuer,
		AccountName: in.Username,
		SecretSize:  15,
	})
	if err != nil {
		return nil, internal(err)
	}

	role := model.RoleUser
	if slices.Contains(s.opts.Admins, in.Username) {
		role = model.RoleAdmin
	}

	interests := in.Interests
	if interests == nil {
		interests = []string{}
	}
	user := &model.User{
		Username:    in.Username,
		Password:    string(hash),
		ProfileName: strings.TrimSpace(in.ProfileName),
		Age:         in.Age,
		Gender:      in.Gender,
		Location:    in.Location,
		Bio:         trimPtr(in.Bio),
		Occupation:  in.Occupation,
		Education:   in.Education,
		LookingFor:  in.LookingFor,
		Interests:   datatypes.JSONSlice[string](interests),
		Role:        role,
		OtpSecret:   key.Secret(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, internal(err)
	}

	if _, err := s.roles.AddGroupingPolicy(subject(user.ID), user.Role); err != nil {
		return nil, internal(err)
	}

	slog.Info("user registered", "userId", user.ID, "role", user.Role)
	return s.open(ctx, user, false)
}

// Login checks the credentials. Accounts with 2FA enabled get otp flagged
// tokens that must be exchanged through OtpValidate.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError("Invalid login or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.NewUnauthorizedError("Invalid login or password")
	}
	return s.open(ctx, user, user.OtpEnabled)
}

// Renew rotates the token pair. A refresh token can be used once.
func (s *AuthService) Renew(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := utils.CheckAndExtractTokenMetadata(refreshToken, "JWT_REFRESH_KEY")
	if err != nil {
		return nil, model.NewUnauthorizedError("Invalid token")
	}

	stored, err := s.tokens.Refresh(ctx, claims.Id)
	if err != nil {
		return nil, internal(err)
	}
	if stored != refreshToken {
		return nil, model.NewUnauthorizedError("Unauthorized, your refresh token was already used")
	}

	tokens, err := utils.GenerateTokens(claims.Id, claims.Otp)
	if err != nil {
		return nil, internal(err)
	}
	if err := s.tokens.SaveRefresh(ctx, claims.Id, tokens.Refresh, utils.RefreshTTL()); err != nil {
		return nil, internal(err)
	}
	return &Session{Tokens: tokens, Otp: claims.Otp}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return internal(s.tokens.RevokeRefresh(ctx, subject(userID)))
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*model.PublicUser, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := user.Public()
	return &p, nil
}

func (s *AuthService) OtpSecret(ctx context.Context, userID uint, password string) (*OtpSecret, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.NewUnauthorizedError("Invalid password")
	}
	return &OtpSecret{
		Secret: user.OtpSecret,
		URL: fmt.Sprintf("otpauth://totp/%s:%s?algorithm=SHA1&digits=6&issuer=%s&period=30&secret=%s",
			s.opts.OtpIssuer, user.Username, s.opts.OtpIssuer, user.OtpSecret),
	}, nil
}

// OtpVerify enables 2FA once the user proves they hold the secret.
func (s *AuthService) OtpVerify(ctx context.Context, userID uint, code string) error {
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if user.OtpEnabled {
		return model.NewUnauthorizedError("Verification has already been performed earlier")
	}
	if !totp.Validate(code, user.OtpSecret) {
		return model.NewValidationError("Invalid token", nil)
	}
	_, err = s.users.UpdateUser(ctx, userID, map[string]any{"otp_enabled": true})
	return internal(err)
}

// OtpValidate exchanges a valid code for a fully authenticated token pair.
func (s *AuthService) OtpValidate(ctx context.Context, userID uint, code string) (*Session, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.OtpEnabled {
		return nil, model.NewValidationError("2FA has been disabled", nil)
	}
	if !totp.Validate(code, user.OtpSecret) {
		return nil, model.NewValidationError("Invalid token", nil)
	}
	return s.open(ctx, user, false)
}

func (s *AuthService) OtpDisable(ctx context.Context, userID uint, password, code string) error {
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if !user.OtpEnabled {
		return model.NewValidationError("2FA not enabled", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.NewUnauthorizedError("Invalid password")
	}
	if !totp.Validate(code, user.OtpSecret) {
		return model.NewValidationError("Invalid token", nil)
	}
	_, err = s.users.UpdateUser(ctx, userID, map[string]any{"otp_enabled": false})
	return internal(err)
}

func (s *AuthService) open(ctx context.Context, user *model.User, otp bool) (*Session, error) {
	id := subject(user.ID)
	tokens, err := utils.GenerateTokens(id, otp)
	if err != nil {
		return nil, internal(err)
	}
	if err := s.tokens.SaveRefresh(ctx, id, tokens.Refresh, utils.RefreshTTL()); err != nil {
		return nil, internal(err)
	}
	p := user.Public()
	return &Session{User: &p, Tokens: tokens, Otp: otp}, nil
}

func (s *AuthService) user(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("User")
	}
	return user, nil
}

func subject(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
