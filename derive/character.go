package derive

import (
	"strconv"
	"unicode"
)

// GradeScore turns a free-form grade string into a comparable rank.
// Digits embedded in the string win ("SSR 5" → 5); otherwise star runes are
// counted ("★★★" → 3); anything else scores 0.
func GradeScore(grade string) int {
	digits := ""
	for _, r := range grade {
		if unicode.IsDigit(r) {
			digits += string(r)
		} else if digits != "" {
			break
		}
	}
	if digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return n
		}
	}
	stars := 0
	for _, r := range grade {
		if r == '★' || r == '☆' {
			stars++
		}
	}
	return stars
}

// CharacterRank is the sortable projection of a character used for gallery
// ordering: grade first, then overpower, then level, all descending.
type CharacterRank struct {
	Grade     string
	Overpower int
	Level     int
}

// Less reports whether a ranks strictly higher than b.
func (a CharacterRank) Less(b CharacterRank) bool {
	ga, gb := GradeScore(a.Grade), GradeScore(b.Grade)
	if ga != gb {
		return ga > gb
	}
	if a.Overpower != b.Overpower {
		return a.Overpower > b.Overpower
	}
	return a.Level > b.Level
}
