// Package validation defines the typed parameter structs for every
// server-side action, and validates them before any business logic runs.
//
// Each action receives one of these structs, already checked: by the time a
// service method sees the params, malformed input has been rejected with a
// ValidationError. Rules live in struct tags and are enforced by
// go-playground/validator, so the contract is readable in one place.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/devforum/internal/apperror"
)

// validate is the package-level validator instance.
// Initialized in init() with custom validators.
var validate *validator.Validate

func init() {
	validate = validator.New()

	// "username" — letters, digits and underscores only.
	_ = validate.RegisterValidation("username", validateUsername)
	// "password" — at least one upper, lower, digit and special character.
	_ = validate.RegisterValidation("password", validatePassword)
}

func validateUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func validatePassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// Check validates any params struct and converts the first violation into
// an apperror.ValidationFailed so handlers map it to 400 without knowing
// anything about the validator library.
func Check(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s failed validation on rule %q", field, fe.Tag()))
	}
	return apperror.ValidationFailed("", err.Error())
}

// --- Auth ---

type SignUpParams struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Name     string `json:"name"     validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100,password"`
}

type SignInParams struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// OAuthSignInParams carries a verified provider profile into the
// user+account upsert. The provider field is constrained to the two
// configured providers.
type OAuthSignInParams struct {
	Provider          string `json:"provider"          validate:"required,oneof=github google"`
	ProviderAccountID string `json:"providerAccountId" validate:"required"`
	Name              string `json:"name"              validate:"required"`
	Username          string `json:"username"          validate:"required,min=3"`
	Email             string `json:"email"             validate:"required,email"`
	Image             string `json:"image"             validate:"omitempty,url"`
}

// --- Questions ---

type CreateQuestionParams struct {
	Title   string   `json:"title"   validate:"required,max=100"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"    validate:"required,min=1,max=5,dive,required,max=30"`
}

type EditQuestionParams struct {
	QuestionID string   `json:"questionId" validate:"required"`
	Title      string   `json:"title"      validate:"required,max=100"`
	Content    string   `json:"content"    validate:"required"`
	Tags       []string `json:"tags"       validate:"required,min=1,max=5,dive,required,max=30"`
}

// --- Answers ---

type CreateAnswerParams struct {
	QuestionID string `json:"questionId" validate:"required"`
	Content    string `json:"content"    validate:"required,min=100"`
}

// --- Votes ---

type CreateVoteParams struct {
	TargetID   string `json:"targetId"   validate:"required"`
	TargetType string `json:"targetType" validate:"required,oneof=question answer"`
	VoteType   string `json:"voteType"   validate:"required,oneof=upvote downvote"`
}

type VoteStatusParams struct {
	TargetID   string `json:"targetId"   validate:"required"`
	TargetType string `json:"targetType" validate:"required,oneof=question answer"`
}

// --- Collections ---

type CollectionParams struct {
	QuestionID string `json:"questionId" validate:"required"`
}

// --- Listings ---

// PaginatedSearchParams is shared by every listing operation.
// Page/PageSize are clamped by the services; Query/Filter are free-form and
// interpreted per listing.
type PaginatedSearchParams struct {
	Page     int    `json:"page"     validate:"omitempty,min=1"`
	PageSize int    `json:"pageSize" validate:"omitempty,min=1,max=100"`
	Query    string `json:"query"`
	Filter   string `json:"filter"`
}

type GlobalSearchParams struct {
	Query string   `json:"query" validate:"required"`
	Types []string `json:"types" validate:"omitempty,dive,oneof=question answer user tag"`
}

// --- Profile ---

type UpdateProfileParams struct {
	Name      string `json:"name"      validate:"required,max=50"`
	Bio       string `json:"bio"       validate:"max=1000"`
	Image     string `json:"image"     validate:"omitempty,url"`
	Location  string `json:"location"  validate:"max=100"`
	Portfolio string `json:"portfolio" validate:"omitempty,url"`
}

// --- External APIs ---

type GetJobsParams struct {
	Query   string `json:"query"   validate:"required"`
	Country string `json:"country" validate:"omitempty,len=2"`
	Page    int    `json:"page"    validate:"omitempty,min=1"`
}

type AIAnswerParams struct {
	Question   string `json:"question"   validate:"required,min=3,max=130"`
	Content    string `json:"content"    validate:"required,min=100"`
	UserAnswer string `json:"userAnswer"`
}
