package models

import (
	"net/url"
	"strings"
)

// avatarBaseURL generates a placeholder avatar from the person's name
// when the profile carries no explicit avatar.
const avatarBaseURL = "https://ui-avatars.com/api/?name="

// PersonnelProfile is a read-only personnel record fetched from the backend.
type PersonnelProfile struct {
	ID                   string `json:"personnelId"`
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	Role                 string `json:"role"`
	Type                 string `json:"type"`
	Email                string `json:"email"`
	Address              string `json:"address"`
	DayAvailable         string `json:"dayAvailable"`
	TimeAvailable        string `json:"timeAvailable"`
	CombinedAvailability string `json:"combinedAvailability"`
	Avatar               string `json:"avatarUrl"`
}

// FullName joins the non-empty name parts with a single space.
func (p *PersonnelProfile) FullName() string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(p.FirstName) != "" {
		parts = append(parts, strings.TrimSpace(p.FirstName))
	}
	if strings.TrimSpace(p.LastName) != "" {
		parts = append(parts, strings.TrimSpace(p.LastName))
	}
	return strings.Join(parts, " ")
}

// AvatarURL returns the explicit avatar when present, otherwise a
// generated URL containing the URL-encoded full name. Derived per call.
func (p *PersonnelProfile) AvatarURL() string {
	if strings.TrimSpace(p.Avatar) != "" {
		return p.Avatar
	}
	// PathEscape keeps spaces as %20, the form the avatar service expects.
	return avatarBaseURL + url.PathEscape(p.FullName())
}

// Availability prefers the combined field and falls back to day + time.
func (p *PersonnelProfile) Availability() string {
	if p.CombinedAvailability != "" {
		return p.CombinedAvailability
	}
	parts := make([]string, 0, 2)
	if p.DayAvailable != "" {
		parts = append(parts, p.DayAvailable)
	}
	if p.TimeAvailable != "" {
		parts = append(parts, p.TimeAvailable)
	}
	return strings.Join(parts, " ")
}
