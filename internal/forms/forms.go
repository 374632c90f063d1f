// Package forms holds the per-resource validation rules. Each form is
// filled from a request and validated explicitly; the result maps field
// names to error messages, in English (translation happens at render).
package forms

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

const (
	MsgRequired         = "This field is required."
	MsgDuplicateName    = "A record with this name already exists."
	MsgDuplicateUser    = "A user with that username already exists."
	MsgPasswordShort    = "Password must contain at least 3 characters."
	MsgPasswordMismatch = "The two password fields didn't match."
	MsgUsernameCharset  = "Username may contain only letters, digits and @/./+/-/_."
	MsgInvalidChoice    = "Select a valid choice."
)

func msgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this value has at most %d characters.", n)
}

var usernameRe = regexp.MustCompile(`^[\pL\pN@.+\-_]+$`)

// StatusForm and LabelForm share the single-name shape.
type NameForm struct {
	Name string
}

func NameFormFromRequest(r *http.Request) *NameForm {
	return &NameForm{Name: strings.TrimSpace(r.FormValue("name"))}
}

func (f *NameForm) Validate(nameTaken bool) Errors {
	errs := Errors{}
	switch {
	case f.Name == "":
		errs.Add("name", MsgRequired)
	case utf8.RuneCountInString(f.Name) > 100:
		errs.Add("name", msgMaxLength(100))
	case nameTaken:
		errs.Add("name", MsgDuplicateName)
	}
	return errs
}

type TaskForm struct {
	Name        string
	Description string
	Status      string
	Executor    string
	Labels      []string
}

// TaskFormFromRequest parses the body explicitly because the labels
// field is multi-valued and needs r.Form, not just FormValue.
func TaskFormFromRequest(r *http.Request) (*TaskForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &TaskForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Status:      r.FormValue("status"),
		Executor:    r.FormValue("executor"),
		Labels:      r.Form["labels"],
	}, nil
}

// Validate checks the field rules; an empty form yields exactly two
// errors, one for the missing name and one for the missing status.
func (f *TaskForm) Validate(nameTaken bool) Errors {
	errs := Errors{}
	switch {
	case f.Name == "":
		errs.Add("name", MsgRequired)
	case utf8.RuneCountInString(f.Name) > 255:
		errs.Add("name", msgMaxLength(255))
	case nameTaken:
		errs.Add("name", MsgDuplicateName)
	}
	if utf8.RuneCountInString(f.Description) > 150 {
		errs.Add("description", msgMaxLength(150))
	}
	if f.Status == "" {
		errs.Add("status", MsgRequired)
	}
	return errs
}

type UserForm struct {
	FirstName string
	LastName  string
	Username  string
	Password1 string
	Password2 string
}

func UserFormFromRequest(r *http.Request) *UserForm {
	return &UserForm{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Username:  strings.TrimSpace(r.FormValue("username")),
		Password1: r.FormValue("password1"),
		Password2: r.FormValue("password2"),
	}
}

// Validate checks the registration rules; an empty form yields exactly
// five errors, one per required field. A password mismatch errors only
// the confirmation field.
func (f *UserForm) Validate(usernameTaken bool) Errors {
	errs := Errors{}
	if f.FirstName == "" {
		errs.Add("first_name", MsgRequired)
	}
	if f.LastName == "" {
		errs.Add("last_name", MsgRequired)
	}
	switch {
	case f.Username == "":
		errs.Add("username", MsgRequired)
	case utf8.RuneCountInString(f.Username) > 150:
		errs.Add("username", msgMaxLength(150))
	case !usernameRe.MatchString(f.Username):
		errs.Add("username", MsgUsernameCharset)
	case usernameTaken:
		errs.Add("username", MsgDuplicateUser)
	}
	switch {
	case f.Password1 == "":
		errs.Add("password1", MsgRequired)
	case utf8.RuneCountInString(f.Password1) < 3:
		errs.Add("password1", MsgPasswordShort)
	}
	switch {
	case f.Password2 == "":
		errs.Add("password2", MsgRequired)
	case f.Password1 != "" && f.Password1 != f.Password2:
		errs.Add("password2", MsgPasswordMismatch)
	}
	return errs
}

type LoginForm struct {
	Username string
	Password string
}

func LoginFormFromRequest(r *http.Request) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	if f.Username == "" {
		errs.Add("username", MsgRequired)
	}
	if f.Password == "" {
		errs.Add("password", MsgRequired)
	}
	return errs
}
