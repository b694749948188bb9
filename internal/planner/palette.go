// Package planner holds the pure parts of the study calendar: resolving task status from logs,
// grouping join rows into plans, building the year grid, expanding templates into dated tasks
// and parsing bulk imports. Nothing here touches the store.
package planner

// Palette holds the pastel plan colors, assigned by plan id.
var Palette = []string{
	"#FFB3BA", // pink
	"#FFDFBA", // orange
	"#FFFFBA", // yellow
	"#BAFFC9", // green
	"#BAE1FF", // blue
	"#D4BEEE", // purple
	"#FFDFD3", // peach
}

// DefaultColor is used for cells that belong to no plan.
const DefaultColor = "#E5E7EB"

// PlanColor returns the persisted override if there is one, otherwise Palette[(id-1) mod len(Palette)].
func PlanColor(id uint, override *string) string {
	if override != nil && *override != "" {
		return *override
	}
	n := len(Palette)
	idx := ((int(id)-1)%n + n) % n
	return Palette[idx]
}
