package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"restroom-queue-backend/internal/model"
)

var (
	femaleRe = regexp.MustCompile(`(?i)(chicas?|niñas?|mujeres)`)
	maleRe   = regexp.MustCompile(`(?i)(chicos?|niños?|hombres)`)
	floorRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:ª|º)?\s*planta`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// ParsedName holds the structured data parsed from a stall's display name.
type ParsedName struct {
	Gender string
	Floor  int
}

// ParseName extracts the gender marker (and floor, when present) from a raw
// stall name such as "Aseo Chicas 1ª Planta". The gender marker is the
// eligibility hint the assignment engine matches waiting students against,
// so a name without one is an error.
func ParseName(raw string) (ParsedName, error) {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
	if s == "" {
		return ParsedName{}, fmt.Errorf("empty stall name")
	}

	var gender string
	switch {
	case femaleRe.MatchString(s):
		gender = model.GenderFemale
	case maleRe.MatchString(s):
		gender = model.GenderMale
	default:
		return ParsedName{}, fmt.Errorf("no gender marker in stall name: %q", raw)
	}

	floor := 0
	if m := floorRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			floor = n
		}
	}

	return ParsedName{Gender: gender, Floor: floor}, nil
}
