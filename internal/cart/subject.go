package cart

import "strings"

// subjectSeparator joins rider and horse in display names: "Rider - Horse".
const subjectSeparator = " - "

// Subject is the rider/horse couple a photo or bundle belongs to.
type Subject struct {
	Rider string `json:"rider,omitempty"`
	Horse string `json:"horse,omitempty"`
}

// ParseSubject splits a display name such as "Rider - Horse".
func ParseSubject(display string) Subject {
	return Subject{Rider: display}.Normalize()
}

// Normalize trims both names and splits a rider that encodes "Rider - Horse".
// A horse without a rider is promoted to the primary name so that a bundle
// sold under the horse's name matches photos tagged with the horse only.
func (s Subject) Normalize() Subject {
	rider := strings.TrimSpace(s.Rider)
	horse := strings.TrimSpace(s.Horse)
	if i := strings.Index(rider, subjectSeparator); i >= 0 {
		encodedHorse := strings.TrimSpace(rider[i+len(subjectSeparator):])
		rider = strings.TrimSpace(rider[:i])
		if horse == "" {
			horse = encodedHorse
		}
	}
	if rider == "" {
		rider, horse = horse, ""
	}
	return Subject{Rider: rider, Horse: horse}
}

// IsZero reports whether the subject names nobody.
func (s Subject) IsZero() bool {
	n := s.Normalize()
	return n.Rider == "" && n.Horse == ""
}

// DisplayName renders "Rider - Horse", or whichever name is present.
func (s Subject) DisplayName() string {
	n := s.Normalize()
	if n.Horse == "" {
		return n.Rider
	}
	return n.Rider + subjectSeparator + n.Horse
}

// SameCouple compares riders case-insensitively, and horses the same way
// where both missing counts as a match.
func SameCouple(a, b Subject) bool {
	na, nb := a.Normalize(), b.Normalize()
	if na.Rider == "" || nb.Rider == "" {
		return false
	}
	return strings.EqualFold(na.Rider, nb.Rider) && strings.EqualFold(na.Horse, nb.Horse)
}
