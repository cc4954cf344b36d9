package simulation

// Category classifies what an eye ray (or a collision query) hit first.
// The numeric codes are stable: input encoding uses them as slot offsets.
type Category int

const (
	CategoryNone       Category = -1
	CategoryWall       Category = 0
	CategoryBeneficial Category = 1
	CategoryHarmful    Category = 2
	CategoryAgent      Category = 3
)

// NumSensedCategories is the number of input slots each eye contributes.
const NumSensedCategories = 4

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryWall:
		return "wall"
	case CategoryBeneficial:
		return "beneficial"
	case CategoryHarmful:
		return "harmful"
	case CategoryAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// ItemKind is the kind of consumable lying on the arena floor.
type ItemKind int

const (
	ItemBeneficial ItemKind = 1
	ItemHarmful    ItemKind = 2
)

// Category maps an item kind to the category an eye reports for it.
func (k ItemKind) Category() Category {
	if k == ItemHarmful {
		return CategoryHarmful
	}
	return CategoryBeneficial
}

func (k ItemKind) String() string {
	return k.Category().String()
}
