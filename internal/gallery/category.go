package gallery

import (
	"fmt"
	"slices"
	"strings"
)

// Category classifies a gallery record. The set is closed.
type Category string

const (
	CategoryGeneral           Category = "GENERAL"
	CategoryClassrooms        Category = "CLASSROOMS"
	CategoryLaboratories      Category = "LABORATORIES"
	CategoryDormitories       Category = "DORMITORIES"
	CategoryDiningHall        Category = "DINING_HALL"
	CategorySportsFacilities  Category = "SPORTS_FACILITIES"
	CategoryTeaching          Category = "TEACHING"
	CategoryScienceLab        Category = "SCIENCE_LAB"
	CategoryComputerLab       Category = "COMPUTER_LAB"
	CategorySportsDay         Category = "SPORTS_DAY"
	CategoryMusicFestival     Category = "MUSIC_FESTIVAL"
	CategoryDramaPerformance  Category = "DRAMA_PERFORMANCE"
	CategoryArtExhibition     Category = "ART_EXHIBITION"
	CategoryDebateCompetition Category = "DEBATE_COMPETITION"
	CategoryScienceFair       Category = "SCIENCE_FAIR"
	CategoryAdminOffices      Category = "ADMIN_OFFICES"
	CategoryStaff             Category = "STAFF"
	CategoryPrincipal         Category = "PRINCIPAL"
	CategoryBoard             Category = "BOARD"
	CategoryGraduation        Category = "GRADUATION"
	CategoryAwardCeremony     Category = "AWARD_CEREMONY"
	CategoryParentsDay        Category = "PARENTS_DAY"
	CategoryOpenDay           Category = "OPEN_DAY"
	CategoryVisitors          Category = "VISITORS"
	CategoryStudentActivities Category = "STUDENT_ACTIVITIES"
	CategoryClubs             Category = "CLUBS"
	CategoryCouncil           Category = "COUNCIL"
	CategoryLeadership        Category = "LEADERSHIP"
	CategoryOther             Category = "OTHER"
)

var categories = []Category{
	CategoryGeneral,
	CategoryClassrooms,
	CategoryLaboratories,
	CategoryDormitories,
	CategoryDiningHall,
	CategorySportsFacilities,
	CategoryTeaching,
	CategoryScienceLab,
	CategoryComputerLab,
	CategorySportsDay,
	CategoryMusicFestival,
	CategoryDramaPerformance,
	CategoryArtExhibition,
	CategoryDebateCompetition,
	CategoryScienceFair,
	CategoryAdminOffices,
	CategoryStaff,
	CategoryPrincipal,
	CategoryBoard,
	CategoryGraduation,
	CategoryAwardCeremony,
	CategoryParentsDay,
	CategoryOpenDay,
	CategoryVisitors,
	CategoryStudentActivities,
	CategoryClubs,
	CategoryCouncil,
	CategoryLeadership,
	CategoryOther,
}

// Categories returns every recognized category in declaration order.
func Categories() []Category {
	return slices.Clone(categories)
}

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// ParseCategory matches s exactly against the category set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if c == "" {
		return "", fmt.Errorf("%w: category", ErrMissingField)
	}
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
