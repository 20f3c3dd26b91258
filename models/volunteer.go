package models

// VolunteerRegistration is a submission from the public volunteer form.
// It is the only collection written by the site itself.
type VolunteerRegistration struct {
	Base
	FullName           *string    `json:"fullName,omitempty"`
	Email              *string    `gorm:"index" json:"email,omitempty"`
	PhoneNumber        *string    `json:"phoneNumber,omitempty"`
	Skills             *string    `gorm:"type:text" json:"skills,omitempty"`
	Availability       *string    `json:"availability,omitempty"`
	PastExperience     *string    `gorm:"type:text" json:"pastExperience,omitempty"`
	UploadedIDDocument *string    `gorm:"column:uploaded_id_document" json:"uploadedIdDocument,omitempty"`
	RegistrationDate   *Timestamp `json:"registrationDate,omitempty"`
}

// TableName specifies the table name for the VolunteerRegistration model.
func (VolunteerRegistration) TableName() string {
	return string(CollectionVolunteerRegistrations)
}

// CollectionName implements Record.
func (*VolunteerRegistration) CollectionName() Collection {
	return CollectionVolunteerRegistrations
}
