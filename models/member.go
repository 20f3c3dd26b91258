package models

import "time"

// MemberProfile is the opaque identity handed back by the identity provider
// once a visitor signs in.
type MemberProfile struct {
	MemberID   string    `json:"member_id"`
	LoginEmail string    `json:"login_email"`
	Nickname   string    `json:"nickname,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

// DisplayName picks the friendliest name available for greetings.
func (p *MemberProfile) DisplayName() string {
	switch {
	case p == nil:
		return "Volunteer"
	case p.Nickname != "":
		return p.Nickname
	case p.FirstName != "":
		return p.FirstName
	default:
		return "Volunteer"
	}
}
