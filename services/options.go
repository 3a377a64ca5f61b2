package services

// UnitOptions is the list of measurement units offered for catalog entries.
var UnitOptions = []string{
	"UN",
	"M",
	"KG",
	"PC",
	"CJ",
	"KIT",
	"L",
	"M2",
	"M3",
	"RL",
	"PAR",
}

// ContextTypeOptions lists the recognized resolution-rule context types.
var ContextTypeOptions = []string{
	ContextPole,
	ContextConductor,
}

// CategoryOptions lists the line categories accepted on loose materials.
var CategoryOptions = []Category{
	CategoryPole,
	CategoryMaterial,
}
