package crop

import (
	"fmt"
	"strings"
)

// IssueLevel says whether a validation issue blocks loading the catalog.
type IssueLevel string

const (
	IssueError   IssueLevel = "ERROR"
	IssueWarning IssueLevel = "WARNING"
)

// Issue is a single catalog authoring problem.
type Issue struct {
	Level   IssueLevel `json:"level"`
	CropID  string     `json:"crop_id,omitempty"`
	Message string     `json:"message"`
}

func (i Issue) String() string {
	if i.CropID == "" {
		return fmt.Sprintf("%s: %s", i.Level, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Level, i.CropID, i.Message)
}

var knownHabits = map[Habit]bool{
	HabitTree: true, HabitShrub: true, HabitVine: true, HabitHerb: true,
	HabitGroundCover: true, HabitUpright: true, HabitSpreading: true,
}

var knownCategories = map[Category]bool{
	CategoryStaple: true, CategoryNitrogenFixer: true,
	CategorySentinel: true, CategoryDyeFiber: true,
}

// Validate checks the catalog for authoring defects. Errors make the
// catalog unusable (duplicate or empty IDs, inverted zone bounds);
// warnings flag data the engines will treat as unknown.
func Validate(cat *Catalog) []Issue {
	var issues []Issue
	if cat == nil || len(cat.Crops) == 0 {
		return []Issue{{Level: IssueWarning, Message: "catalog is empty"}}
	}

	seen := make(map[string]bool, len(cat.Crops))
	for i := range cat.Crops {
		c := &cat.Crops[i]
		switch {
		case strings.TrimSpace(c.ID) == "":
			issues = append(issues, Issue{Level: IssueError, Message: fmt.Sprintf("crop #%d has no id", i)})
		case seen[c.ID]:
			issues = append(issues, Issue{Level: IssueError, CropID: c.ID, Message: "duplicate id"})
		}
		seen[c.ID] = true

		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, Issue{Level: IssueError, CropID: c.ID, Message: "missing name"})
		}
		if c.HardinessZoneMin != nil && c.HardinessZoneMax != nil && *c.HardinessZoneMin > *c.HardinessZoneMax {
			issues = append(issues, Issue{Level: IssueError, CropID: c.ID,
				Message: fmt.Sprintf("hardiness zone min %.1f exceeds max %.1f", *c.HardinessZoneMin, *c.HardinessZoneMax)})
		}
		if c.HarvestDays != nil && *c.HarvestDays <= 0 {
			issues = append(issues, Issue{Level: IssueWarning, CropID: c.ID, Message: "non-positive harvest_days"})
		}
		if c.GrowthHabit != "" && !knownHabits[c.GrowthHabit] {
			issues = append(issues, Issue{Level: IssueWarning, CropID: c.ID,
				Message: fmt.Sprintf("unknown growth habit %q scores as non-complementary", c.GrowthHabit)})
		}
		if !knownCategories[c.Category] {
			issues = append(issues, Issue{Level: IssueWarning, CropID: c.ID,
				Message: fmt.Sprintf("unknown category %q", c.Category)})
		}
		if !c.HasSeasonData() {
			issues = append(issues, Issue{Level: IssueWarning, CropID: c.ID,
				Message: "no planting season; never suggested as a succession crop"})
		}
		for _, frag := range c.CompanionCrops {
			if strings.TrimSpace(frag) == "" {
				issues = append(issues, Issue{Level: IssueWarning, CropID: c.ID, Message: "empty companion fragment"})
				break
			}
		}
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Level == IssueError {
			return true
		}
	}
	return false
}
