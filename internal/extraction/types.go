package extraction

import (
	"strings"

	"github.com/briefworks/rfpdb/internal/types"
)

// Item categories the oracles are allowed to emit.
const (
	CategoryFurniture = "Furniture"
	CategoryFixture   = "Fixture"
	CategoryAppliance = "Appliance"
	CategoryDecorItem = "Decor Item"
	CategoryOthers    = "Others"
)

// Categories lists the canonical category labels in display order.
var Categories = []string{
	CategoryFurniture,
	CategoryFixture,
	CategoryAppliance,
	CategoryDecorItem,
	CategoryOthers,
}

// CanonicalCategory maps an oracle-supplied category label onto the fixed
// enumeration, case-insensitively. Anything unrecognized becomes Others.
func CanonicalCategory(label string) string {
	trimmed := strings.TrimSpace(label)
	for _, c := range Categories {
		if strings.EqualFold(trimmed, c) {
			return c
		}
	}
	return CategoryOthers
}

// ProjectMetadata is the oracle's view of project-level fields. All
// optional; absent fields stay null rather than being invented.
type ProjectMetadata struct {
	Name        *string `json:"name"`
	ClientType  *string `json:"client_type"`
	Location    *string `json:"location"`
	Timeline    *string `json:"timeline"`
	BudgetRange *string `json:"budget_range"`
}

// ItemRequirement is one proposed item within a space. Quantity and
// Confidence come through the flex scalar types so quoted numbers parse
// and malformed confidence degrades to unset.
type ItemRequirement struct {
	Name               *string           `json:"name"`
	Category           string            `json:"category"`
	TechnicalSpecs     *string           `json:"technical_specs"`
	MaterialPreference *string           `json:"material_preference"`
	ColorPreference    *string           `json:"color_preference"`
	BrandPreference    *string           `json:"brand_preference"`
	SpecialInstruction *string           `json:"special_instruction"`
	Quantity           types.FlexInt     `json:"quantity"`
	Confidence         types.FlexFloat64 `json:"confidence"`
}

// ResolvedName returns the item name, falling back to the canonical
// category label when the oracle omitted it.
func (i ItemRequirement) ResolvedName() string {
	if i.Name != nil && strings.TrimSpace(*i.Name) != "" {
		return *i.Name
	}
	return CanonicalCategory(i.Category)
}

// SpaceRequirements is one proposed space with its items.
type SpaceRequirements struct {
	RoomType  string                          `json:"room_type"`
	Dimension *string                         `json:"dimension"`
	Area      *string                         `json:"area"`
	Items     types.FlexList[ItemRequirement] `json:"items"`
}

// Result is the full structured extraction for a document.
type Result struct {
	ProjectMetadata ProjectMetadata                   `json:"project_metadata"`
	Spaces          types.FlexList[SpaceRequirements] `json:"spaces"`
}
