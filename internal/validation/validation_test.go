package validation

import (
	"errors"
	"testing"

	"github.com/sakif/devforum/internal/apperror"
)

func TestCheck_ValidQuestion(t *testing.T) {
	params := CreateQuestionParams{
		Title:   "How do I read a file in Go?",
		Content: "I want to read a whole file into memory.",
		Tags:    []string{"go", "files"},
	}
	if err := Check(params); err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}
}

func TestCheck_QuestionViolations(t *testing.T) {
	tests := []struct {
		name   string
		params CreateQuestionParams
	}{
		{
			name:   "missing title",
			params: CreateQuestionParams{Content: "body", Tags: []string{"go"}},
		},
		{
			name:   "no tags",
			params: CreateQuestionParams{Title: "t", Content: "body", Tags: []string{}},
		},
		{
			name: "too many tags",
			params: CreateQuestionParams{Title: "t", Content: "body",
				Tags: []string{"a", "b", "c", "d", "e", "f"}},
		},
		{
			name: "empty tag element",
			params: CreateQuestionParams{Title: "t", Content: "body",
				Tags: []string{"go", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.params)
			if err == nil {
				t.Fatal("Check() = nil, want validation error")
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCheck_SignUpPasswordRules(t *testing.T) {
	base := SignUpParams{
		Username: "gopher_1",
		Name:     "Gopher",
		Email:    "gopher@example.com",
	}

	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"all character classes", "Sup3r$ecret", true},
		{"missing uppercase", "sup3r$ecret", false},
		{"missing digit", "Super$ecret", false},
		{"missing special", "Sup3rSecret", false},
		{"too short", "S3$a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			params.Password = tt.password
			err := Check(params)
			if tt.wantOK && err != nil {
				t.Errorf("Check() error = %v, want nil", err)
			}
			if !tt.wantOK && !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCheck_UsernameCharset(t *testing.T) {
	params := SignUpParams{
		Username: "bad name!",
		Name:     "Gopher",
		Email:    "gopher@example.com",
		Password: "Sup3r$ecret",
	}
	if err := Check(params); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation for username with spaces", err)
	}
}

func TestCheck_VoteEnums(t *testing.T) {
	ok := CreateVoteParams{TargetID: "q1", TargetType: "question", VoteType: "upvote"}
	if err := Check(ok); err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}

	bad := CreateVoteParams{TargetID: "q1", TargetType: "comment", VoteType: "upvote"}
	if err := Check(bad); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation for bad target type", err)
	}
}
