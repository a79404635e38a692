package member

import (
	"fmt"
	"time"
)

// Member is the domain entity, mapped 1:1 onto the members table
// (migration 000001_create_members_table.up.sql).
type Member struct {
	ID int64 `db:"id" json:"id"`

	Title      Title  `db:"title" json:"title"`
	FirstName  string `db:"first_name" json:"first_name"`
	MiddleName string `db:"middle_name" json:"middle_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Address    string `db:"address" json:"address"`

	// Email is globally unique; the members_email_key constraint is the
	// real guarantee, the service-level pre-check is only a fast path.
	Email string `db:"email" json:"email"`

	Gender Gender `db:"gender" json:"gender"`

	// BirthDate is a calendar date kept as text (2006-01-02), matching the
	// column type.
	BirthDate string `db:"birth_date" json:"birth_date"`

	// Phone is stored exactly as submitted; validation happens before
	// persistence, normalization never does.
	Phone   string `db:"phone" json:"phone"`
	Country string `db:"country" json:"country"`

	// PhotoKey is the object-storage key of the uploaded photo, set by the
	// photo workflow. Nil until a photo has been attached.
	PhotoKey *string `db:"photo_key" json:"photo_key,omitempty"`

	// RegistrationDate is assigned once at creation (UTC) and never updated.
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
}

// FullName joins the three name parts with single spaces, the form used for
// photo object keys and local image filenames.
func (m *Member) FullName() string {
	return fmt.Sprintf("%s %s %s", m.FirstName, m.MiddleName, m.LastName)
}

// HasPhoto reports whether the photo workflow has completed for this member.
func (m *Member) HasPhoto() bool {
	return m.PhotoKey != nil && *m.PhotoKey != ""
}

// Title enum - the fixed application-defined choice list.
type Title string

const (
	TitleBrother    Title = "Brother"
	TitleSister     Title = "Sister"
	TitlePastor     Title = "Pastor"
	TitleBibleStudy Title = "Bible study"
	TitleTeacher    Title = "Teacher"
	TitleCellLeader Title = "Cell leader"
)

func AllTitles() []Title {
	return []Title{TitleBrother, TitleSister, TitlePastor, TitleBibleStudy, TitleTeacher, TitleCellLeader}
}

func (t Title) IsValid() bool {
	switch t {
	case TitleBrother, TitleSister, TitlePastor, TitleBibleStudy, TitleTeacher, TitleCellLeader:
		return true
	}
	return false
}

func (t Title) String() string {
	return string(t)
}

// Gender enum.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func AllGenders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) String() string {
	return string(g)
}
