package domain

import (
	"sort"
	"strings"
	"time"
)

// Profile is the public card a user publishes to find swap partners.
type Profile struct {
	ID                string    `json:"id" bson:"_id,omitempty"`
	Owner             string    `json:"owner" bson:"owner"`
	DisplayName       string    `json:"display_name" bson:"display_name"`
	Email             string    `json:"email,omitempty" bson:"email,omitempty"`
	Bio               string    `json:"bio,omitempty" bson:"bio,omitempty"`
	SkillsOffered     []string  `json:"skills_offered" bson:"skills_offered"`
	SkillsWanted      []string  `json:"skills_wanted" bson:"skills_wanted"`
	Availability      string    `json:"availability,omitempty" bson:"availability,omitempty"`
	YearsOfExperience int       `json:"years_of_experience" bson:"years_of_experience"`
	Contact           string    `json:"contact,omitempty" bson:"contact,omitempty"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// NormalizeSkills trims, lower-cases, de-duplicates and sorts a skill list.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
