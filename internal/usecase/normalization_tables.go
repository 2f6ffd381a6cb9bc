package usecase

// alias is one entry of an ordered lookup table
type alias struct {
	from string
	to   string
}

// subcategoryAliases maps subcategory spellings to their canonical value.
// Order matters: fuzzy fallback breaks score ties by table position.
// Every canonical value also appears as a key mapping to itself so that
// normalizing an already-normalized value is a no-op.
var subcategoryAliases = []alias{
	// Gifts
	{"Gift And Sampler", "Gifts and Samplers"},
	{"Gift and Sampler", "Gifts and Samplers"},
	{"Gifts And Sampler", "Gifts and Samplers"},
	{"Gift & Sampler", "Gifts and Samplers"},
	{"Gifts & Sampler", "Gifts and Samplers"},
	{"Gift and Samplers", "Gifts and Samplers"},
	{"Gift And Samplers", "Gifts and Samplers"},
	{"Gifts and Samplers", "Gifts and Samplers"},

	// Beer
	{"Beer & Cider", "Beer"},
	{"Beer and Cider", "Beer"},
	{"Beer & Ciders", "Beer"},
	{"Beer", "Beer"},

	// Wine
	{"Red Wine", "Red Wines"},
	{"White Wine", "White Wines"},
	{"Rose Wine", "Rose Wines"},
	{"Sparkling Wine", "Sparkling Wines"},
	{"Dessert Wine", "Dessert Wines"},
	{"Fortified Wine", "Fortified Wines"},
	{"Red Wines", "Red Wines"},
	{"White Wines", "White Wines"},
	{"Rose Wines", "Rose Wines"},
	{"Sparkling Wines", "Sparkling Wines"},
	{"Dessert Wines", "Dessert Wines"},
	{"Fortified Wines", "Fortified Wines"},

	// Whisky
	{"Whisky", "Whiskey"},
	{"Whiskey", "Whiskey"},
	{"Scotch", "Scotch Whisky"},
	{"Scotch Whiskey", "Scotch Whisky"},
	{"Scotch Whisky", "Scotch Whisky"},
	{"Bourbon", "Bourbon Whiskey"},
	{"Bourbon Whisky", "Bourbon Whiskey"},
	{"Bourbon Whiskey", "Bourbon Whiskey"},
	{"Rye", "Rye Whiskey"},
	{"Rye Whisky", "Rye Whiskey"},
	{"Rye Whiskey", "Rye Whiskey"},
	{"Canadian Whisky", "Canadian Whiskey"},
	{"Canadian Whiskey", "Canadian Whiskey"},

	// Vodka
	{"Vodka", "Vodka"},
	{"Flavoured Vodka", "Flavored Vodka"},
	{"Flavored Vodka", "Flavored Vodka"},

	// Gin
	{"Gin", "Gin"},
	{"London Dry Gin", "London Dry Gin"},
	{"Plymouth Gin", "Plymouth Gin"},

	// Rum
	{"Rum", "Rum"},
	{"White Rum", "White Rum"},
	{"Dark Rum", "Dark Rum"},
	{"Spiced Rum", "Spiced Rum"},
	{"Gold Rum", "Gold Rum"},
	{"Aged Rum", "Aged Rum"},

	// Tequila
	{"Tequila", "Tequila"},
	{"Blanco Tequila", "Blanco Tequila"},
	{"Reposado Tequila", "Reposado Tequila"},
	{"Anejo Tequila", "Anejo Tequila"},
	{"Mezcal", "Mezcal"},

	// Liqueur
	{"Liqueur", "Liqueur"},
	{"Liqueurs", "Liqueur"},
	{"Cream Liqueur", "Cream Liqueur"},
	{"Cream Liqueurs", "Cream Liqueur"},
	{"Coffee Liqueur", "Coffee Liqueur"},
	{"Coffee Liqueurs", "Coffee Liqueur"},
	{"Herbal Liqueur", "Herbal Liqueur"},
	{"Herbal Liqueurs", "Herbal Liqueur"},
	{"Fruit Liqueur", "Fruit Liqueur"},
	{"Fruit Liqueurs", "Fruit Liqueur"},

	// Brandy
	{"Brandy", "Brandy"},
	{"Cognac", "Cognac"},
	{"Armagnac", "Armagnac"},
	{"Pisco", "Pisco"},

	// Other
	{"Aperitif", "Aperitif"},
	{"Aperitifs", "Aperitif"},
	{"Digestif", "Digestif"},
	{"Digestifs", "Digestif"},
	{"Vermouth", "Vermouth"},
	{"Bitters", "Bitters"},
	{"Absinthe", "Absinthe"},
	{"Sake", "Sake"},
	{"Soju", "Soju"},
	{"Baijiu", "Baijiu"},
}

// brandAliases maps known brand spellings to the house spelling.
// Exact match only.
var brandAliases = map[string]string{
	"Bailey's":                    "Bailey's",
	"Baileys":                     "Bailey's",
	"Baileys Birthday":            "Bailey's",
	"Baileys Original":            "Bailey's",
	"Baileys Tiramisu":            "Bailey's",
	"Jack Daniels":                "Jack Daniel's",
	"Jack Daniel":                 "Jack Daniel's",
	"Crown Royal":                 "Crown Royal",
	"Crown Royal Special Reserve": "Crown Royal",
	"Smirnoff":                    "Smirnoff",
	"Smirnoff Ice":                "Smirnoff",
	"Grey Goose":                  "Grey Goose",
	"Absolut":                     "Absolut",
	"Ketel One":                   "Ketel One",
	"Bacardi":                     "Bacardi",
	"Captain Morgan":              "Captain Morgan",
	"Malibu":                      "Malibu",
	"Jose Cuervo":                 "Jose Cuervo",
	"Patron":                      "Patron",
	"Don Julio":                   "Don Julio",
	"Hendrick's":                  "Hendrick's",
	"Hendricks":                   "Hendrick's",
	"Tanqueray":                   "Tanqueray",
	"Bombay Sapphire":             "Bombay Sapphire",
	"Beefeater":                   "Beefeater",
	"Gordon's":                    "Gordon's",
	"Gordons":                     "Gordon's",
}

// subcategoryIndex is the exact-lookup view of subcategoryAliases
var subcategoryIndex = func() map[string]string {
	m := make(map[string]string, len(subcategoryAliases))
	for _, a := range subcategoryAliases {
		if _, dup := m[a.from]; !dup {
			m[a.from] = a.to
		}
	}
	return m
}()

// productTypes are beverage types recognized inside brand strings.
// Longer phrases come first so "pale ale" wins over "ale".
var productTypes = []string{
	// Beer
	"wheat beer", "pale ale", "amber ale", "brown ale", "blonde ale", "cream ale",
	"hefeweizen", "pilsner", "lager", "stout", "porter", "kolsch", "ipa", "ale",
	// Wine
	"red wine", "white wine", "rose wine", "sparkling wine", "champagne", "prosecco",
	"chardonnay", "cabernet", "merlot", "pinot noir", "sauvignon blanc", "riesling",
	// Spirits
	"vodka", "gin", "whiskey", "whisky", "bourbon", "scotch", "rum", "tequila",
	"brandy", "cognac", "liqueur", "absinthe", "vermouth", "bitters",
	// Other
	"cider", "mead", "sake", "soju",
}

// upperCaseProducts are product names written in capitals after extraction
var upperCaseProducts = map[string]bool{
	"ipa":             true,
	"cabernet":        true,
	"merlot":          true,
	"pinot noir":      true,
	"sauvignon blanc": true,
}

// placeholderNames are values that do not describe a product
var placeholderNames = map[string]bool{
	"other": true, "unknown": true, "misc": true, "miscellaneous": true,
	"general": true, "various": true, "assorted": true, "mixed": true,
	"selection": true, "collection": true, "variety": true,
}
