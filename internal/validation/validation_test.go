package validation

import (
	"strings"
	"testing"
)

func validSignup() Signup {
	return Signup{
		Email:    "  A@B.com ",
		Password: "Abcdef12",
		Name:     " A ",
		Gender:   "male",
	}
}

func TestCheckSignupNormalizes(t *testing.T) {
	out, r := CheckSignup(validSignup())
	if !r.OK() {
		t.Fatalf("expected valid signup, got %v", r.Fields)
	}
	if out.Email != "a@b.com" {
		t.Fatalf("expected normalized email, got %q", out.Email)
	}
	if out.Name != "A" {
		t.Fatalf("expected trimmed name, got %q", out.Name)
	}
	if out.UsageType != "personal" {
		t.Fatalf("expected default usage type, got %q", out.UsageType)
	}
}

func TestCheckSignupRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Signup)
		field  string
	}{
		{"bad email", func(s *Signup) { s.Email = "not-an-email" }, "email"},
		{"email with space", func(s *Signup) { s.Email = "a b@c.com" }, "email"},
		{"short password", func(s *Signup) { s.Password = "Ab1" }, "password"},
		{"no digit", func(s *Signup) { s.Password = "Abcdefgh" }, "password"},
		{"no letter", func(s *Signup) { s.Password = "12345678" }, "password"},
		{"bad charset", func(s *Signup) { s.Password = "Abcdef12^" }, "password"},
		{"empty name", func(s *Signup) { s.Name = "   " }, "name"},
		{"long name", func(s *Signup) { s.Name = strings.Repeat("x", 51) }, "name"},
		{"bad gender", func(s *Signup) { s.Gender = "robot" }, "gender"},
		{"missing gender", func(s *Signup) { s.Gender = "" }, "gender"},
		{"bad usage", func(s *Signup) { s.UsageType = "hobby" }, "usageType"},
		{"work without company", func(s *Signup) { s.UsageType = "work" }, "company"},
	}

	for _, tc := range cases {
		in := validSignup()
		tc.mutate(&in)
		_, r := CheckSignup(in)
		if r.OK() {
			t.Fatalf("%s: expected failure", tc.name)
		}
		if _, ok := r.Fields[tc.field]; !ok {
			t.Fatalf("%s: expected field %q in %v", tc.name, tc.field, r.Fields)
		}
	}
}

func TestCheckSignupWorkWithCompany(t *testing.T) {
	in := validSignup()
	in.UsageType = "work"
	in.Company = " Acme "
	out, r := CheckSignup(in)
	if !r.OK() {
		t.Fatalf("expected valid, got %v", r.Fields)
	}
	if out.Company != "Acme" {
		t.Fatalf("expected trimmed company, got %q", out.Company)
	}
}

func TestCheckProfileUpdate(t *testing.T) {
	work := "work"
	empty := ""
	badURL := "not a url"
	goodURL := "https://cdn.example.com/a.png"
	company := "Acme"

	if _, r := CheckProfileUpdate(ProfileUpdate{UsageType: &work}, "personal", ""); r.OK() {
		t.Fatal("expected company to be required when switching to work")
	}
	if _, r := CheckProfileUpdate(ProfileUpdate{UsageType: &work, Company: &company}, "personal", ""); !r.OK() {
		t.Fatalf("expected valid update, got %v", r.Fields)
	}
	if _, r := CheckProfileUpdate(ProfileUpdate{Company: &empty}, "work", "Acme"); r.OK() {
		t.Fatal("expected clearing company of a work account to fail")
	}
	if _, r := CheckProfileUpdate(ProfileUpdate{Avatar: &badURL}, "personal", ""); r.OK() {
		t.Fatal("expected invalid avatar to fail")
	}
	if _, r := CheckProfileUpdate(ProfileUpdate{Avatar: &goodURL}, "personal", ""); !r.OK() {
		t.Fatalf("expected valid avatar, got %v", r.Fields)
	}
	if _, r := CheckProfileUpdate(ProfileUpdate{}, "work", "Acme"); !r.OK() {
		t.Fatalf("empty update should pass, got %v", r.Fields)
	}
}

func TestCheckPasswordChange(t *testing.T) {
	if r := CheckPasswordChange("short", "Newpass123"); r.OK() {
		t.Fatal("expected short old password to fail")
	}
	if r := CheckPasswordChange("Oldpass123", "weak"); r.OK() {
		t.Fatal("expected weak new password to fail")
	}
	if r := CheckPasswordChange("Oldpass123", "Newpass123"); !r.OK() {
		t.Fatalf("expected valid change, got %v", r.Fields)
	}
}

func TestCheckLoginAndRefresh(t *testing.T) {
	email, r := CheckLogin(" A@B.COM ", "x")
	if !r.OK() || email != "a@b.com" {
		t.Fatalf("unexpected login check: %q %v", email, r.Fields)
	}
	if _, r := CheckLogin("", ""); len(r.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", r.Fields)
	}
	if r := CheckRefresh("", " "); len(r.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", r.Fields)
	}
}
