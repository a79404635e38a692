package member

import (
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/nyaruka/phonenumbers"
	"github.com/pariz/gountries"
)

// countryTable is the ISO 3166 reference data used by the country rule. The
// dataset is static, loaded once per process.
var countryTable = gountries.New()

// ========================================
// REGISTRATION DTOs
// ========================================

// RegisterRequest carries one submitted registration payload. The same shape
// (and the same rules) is used by the update flow: all fields are required at
// the point of persistence, validation is the sole gate.
type RegisterRequest struct {
	Title      string `json:"title" form:"title"`
	FirstName  string `json:"first_name" form:"first_name"`
	MiddleName string `json:"middle_name" form:"middle_name"`
	LastName   string `json:"last_name" form:"last_name"`
	Address    string `json:"address" form:"address"`
	Email      string `json:"email" form:"email"`
	Gender     string `json:"gender" form:"gender"`
	BirthDate  string `json:"birth_date" form:"birth_date"`
	Phone      string `json:"phone" form:"phone"`
	Country    string `json:"country" form:"country"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.In(titleChoices()...).Error("invalid title"),
		),
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.MiddleName,
			validation.Required.Error("middle name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("last name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Address,
			validation.Required.Error("address is required"),
			validation.Length(1, 1024),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email address"),
			validation.Length(5, 200),
		),
		validation.Field(&r.Gender,
			validation.Required.Error("gender is required"),
			validation.In(genderChoices()...).Error("invalid gender"),
		),
		validation.Field(&r.BirthDate,
			validation.Required.Error("birth date is required"),
			validation.Date("2006-01-02").Error("birth date must be YYYY-MM-DD"),
		),
		validation.Field(&r.Phone,
			validation.Required.Error("phone is required"),
			validation.By(validPhone),
		),
		validation.Field(&r.Country,
			validation.Required.Error("country is required"),
			validation.By(validCountry),
		),
	)
}

// validPhone parses the raw value with no default region, so the input must
// carry its own country calling code. A parse failure and a parsed-but-not-
// assignable number collapse into the single user-facing message.
func validPhone(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil // Required handles presence
	}

	num, err := phonenumbers.Parse(raw, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("Invalid phone number")
	}
	return nil
}

// validCountry checks membership in the ISO country-name table. Matching is
// case-insensitive over common and official names.
func validCountry(value interface{}) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}

	if _, err := countryTable.FindCountryByName(name); err != nil {
		return errors.New("unrecognized country")
	}
	return nil
}

// ToMember maps a validated payload onto member fields, enumerated
// field-by-field so the compiler catches drift between form and model.
// RegistrationDate and PhotoKey are deliberately absent: the first is
// assigned by the service at creation, the second only by the photo workflow.
func (r RegisterRequest) ToMember() *Member {
	return &Member{
		Title:      Title(r.Title),
		FirstName:  r.FirstName,
		MiddleName: r.MiddleName,
		LastName:   r.LastName,
		Address:    r.Address,
		Email:      r.Email,
		Gender:     Gender(r.Gender),
		BirthDate:  r.BirthDate,
		Phone:      r.Phone,
		Country:    r.Country,
	}
}

// FieldErrors flattens a Validate() error into the field -> human-readable
// message map the registration form renders inline.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
	}
	return out
}

// ========================================
// RESPONSE DTOs
// ========================================

// MemberDTO is the public member representation.
type MemberDTO struct {
	ID               int64     `json:"id"`
	Title            Title     `json:"title"`
	FirstName        string    `json:"first_name"`
	MiddleName       string    `json:"middle_name"`
	LastName         string    `json:"last_name"`
	Address          string    `json:"address"`
	Email            string    `json:"email"`
	Gender           Gender    `json:"gender"`
	BirthDate        string    `json:"birth_date"`
	Phone            string    `json:"phone"`
	Country          string    `json:"country"`
	PhotoKey         *string   `json:"photo_key,omitempty"`
	RegistrationDate time.Time `json:"registration_date"`
}

func (m *Member) ToDTO() MemberDTO {
	return MemberDTO{
		ID:               m.ID,
		Title:            m.Title,
		FirstName:        m.FirstName,
		MiddleName:       m.MiddleName,
		LastName:         m.LastName,
		Address:          m.Address,
		Email:            m.Email,
		Gender:           m.Gender,
		BirthDate:        m.BirthDate,
		Phone:            m.Phone,
		Country:          m.Country,
		PhotoKey:         m.PhotoKey,
		RegistrationDate: m.RegistrationDate,
	}
}

// ChoicesDTO feeds the registration form: the fixed title/gender lists plus
// the ISO country names.
type ChoicesDTO struct {
	Titles    []Title  `json:"titles"`
	Genders   []Gender `json:"genders"`
	Countries []string `json:"countries"`
}

func Choices() ChoicesDTO {
	all := countryTable.FindAllCountries()
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name.Common)
	}
	sort.Strings(names)

	return ChoicesDTO{
		Titles:    AllTitles(),
		Genders:   AllGenders(),
		Countries: names,
	}
}

func titleChoices() []interface{} {
	titles := AllTitles()
	out := make([]interface{}, len(titles))
	for i, t := range titles {
		out[i] = string(t)
	}
	return out
}

func genderChoices() []interface{} {
	genders := AllGenders()
	out := make([]interface{}, len(genders))
	for i, g := range genders {
		out[i] = string(g)
	}
	return out
}
