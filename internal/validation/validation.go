// Package validation checks and normalizes request input before it reaches
// the engine flows. Every check returns a [Result] listing per-field
// messages instead of failing on the first error.
package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 50
	// bcrypt ignores input past 72 bytes.
	MaxPasswordBytes = 72
)

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordCharPattern = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]+$`)
)

// Result collects field errors. The zero value is a passing result.
type Result struct {
	Fields map[string]string
}

// OK reports whether no field failed.
func (r Result) OK() bool { return len(r.Fields) == 0 }

func (r *Result) add(field, msg string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	if _, exists := r.Fields[field]; exists {
		return
	}
	r.Fields[field] = msg
}

// Signup is the raw signup input.
type Signup struct {
	Email     string
	Password  string
	Name      string
	Gender    string
	UsageType string
	Company   string
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckSignup normalizes in and validates every field. UsageType defaults to
// personal.
func CheckSignup(in Signup) (Signup, Result) {
	var r Result

	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Company = strings.TrimSpace(in.Company)
	in.UsageType = strings.TrimSpace(in.UsageType)
	if in.UsageType == "" {
		in.UsageType = "personal"
	}

	checkEmail(&r, in.Email)
	checkPasswordPolicy(&r, "password", in.Password)
	checkName(&r, in.Name, true)
	checkGender(&r, in.Gender, true)
	checkUsageType(&r, in.UsageType)
	if in.UsageType == "work" && in.Company == "" {
		r.add("company", "Company is required when usageType is work")
	}

	return in, r
}

// CheckLogin normalizes the email and requires both fields.
func CheckLogin(email, password string) (string, Result) {
	var r Result
	email = NormalizeEmail(email)
	if email == "" {
		r.add("email", "Email is required")
	}
	if password == "" {
		r.add("password", "Password is required")
	}
	return email, r
}

// CheckRefresh requires both fields.
func CheckRefresh(userID, token string) Result {
	var r Result
	if strings.TrimSpace(userID) == "" {
		r.add("userId", "User id is required")
	}
	if strings.TrimSpace(token) == "" {
		r.add("refreshToken", "Refresh token is required")
	}
	return r
}

// CheckPasswordChange validates the old password length and applies the
// signup password rule to the new password.
func CheckPasswordChange(oldPassword, newPassword string) Result {
	var r Result
	if len(oldPassword) < MinPasswordLength {
		r.add("oldPassword", "Old password must be at least 8 characters long")
	}
	checkPasswordPolicy(&r, "newPassword", newPassword)
	return r
}

// ProfileUpdate is the raw profile update. Nil fields are absent.
type ProfileUpdate struct {
	Name      *string
	Gender    *string
	Avatar    *string
	UsageType *string
	Company   *string
}

// CheckProfileUpdate normalizes and validates present fields. currentUsage
// and currentCompany are the stored values, used to decide whether the
// merged record still has a company when its usage type is work.
func CheckProfileUpdate(in ProfileUpdate, currentUsage, currentCompany string) (ProfileUpdate, Result) {
	var r Result

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		checkName(&r, name, true)
	}
	if in.Gender != nil {
		checkGender(&r, *in.Gender, true)
	}
	if in.Avatar != nil {
		avatar := strings.TrimSpace(*in.Avatar)
		in.Avatar = &avatar
		if !isHTTPURL(avatar) {
			r.add("avatar", "Avatar must be a valid URL")
		}
	}
	if in.UsageType != nil {
		checkUsageType(&r, *in.UsageType)
	}
	if in.Company != nil {
		company := strings.TrimSpace(*in.Company)
		in.Company = &company
	}

	usage := currentUsage
	if in.UsageType != nil {
		usage = *in.UsageType
	}
	company := currentCompany
	if in.Company != nil {
		company = *in.Company
	}
	if usage == "work" && company == "" {
		r.add("company", "Company is required when usageType is work")
	}

	return in, r
}

func checkEmail(r *Result, email string) {
	switch {
	case email == "":
		r.add("email", "Email is required")
	case !emailPattern.MatchString(email):
		r.add("email", "Please provide a valid email")
	}
}

func checkPasswordPolicy(r *Result, field, pw string) {
	switch {
	case pw == "":
		r.add(field, "Password is required")
	case len(pw) < MinPasswordLength:
		r.add(field, "Password must be at least 8 characters")
	case len(pw) > MaxPasswordBytes:
		r.add(field, "Password cannot exceed 72 characters")
	case !passwordCharPattern.MatchString(pw) || !hasLetterAndDigit(pw):
		r.add(field, "Password must contain at least one letter and one number")
	}
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, c := range s {
		switch {
		case c <= unicode.MaxASCII && unicode.IsLetter(c):
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		}
	}
	return letter && digit
}

func checkName(r *Result, name string, required bool) {
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0 && required:
		r.add("name", "Name is required")
	case n > MaxNameLength:
		r.add("name", "Name cannot exceed 50 characters")
	}
}

func checkGender(r *Result, gender string, required bool) {
	switch gender {
	case "male", "female", "other":
	case "":
		if required {
			r.add("gender", "Gender must be male, female, or other")
		}
	default:
		r.add("gender", "Gender must be male, female, or other")
	}
}

func checkUsageType(r *Result, usage string) {
	if usage != "personal" && usage != "work" {
		r.add("usageType", "Usage type must be personal or work")
	}
}

func isHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
