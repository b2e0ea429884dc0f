package validation

import "testing"

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student recruiter"`
}

func TestStruct_Messages(t *testing.T) {
	v := New()

	cases := []struct {
		name string
		in   loginInput
		want string
	}{
		{"missing email", loginInput{Password: "secret1"}, "email is required"},
		{"bad email", loginInput{Email: "nope", Password: "secret1"}, "email must be a valid email address"},
		{"short password", loginInput{Email: "a@test.com", Password: "abc"}, "password must be at least 6 characters"},
		{"bad role", loginInput{Email: "a@test.com", Password: "secret1", Role: "admin"}, "role must be one of: student, recruiter"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			if err == nil {
				t.Fatalf("expected error")
			}
			if err.Error() != tc.want {
				t.Fatalf("got %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := New().Struct(loginInput{Email: "a@test.com", Password: "secret1", Role: "student"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
