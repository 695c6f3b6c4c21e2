package entities

// DefaultCreatureTypes are the built-in registrations seeded on every load.
// Livestock entries derive their juvenile and seasonal subtypes.
var DefaultCreatureTypes = []CreatureType{
	{Key: "whitechicken", Class: ClassLivestock, HasJuvenile: true},
	{Key: "brownchicken", Class: ClassLivestock, HasJuvenile: true},
	{Key: "bluechicken", Class: ClassLivestock, HasJuvenile: true},
	{Key: "voidchicken", Class: ClassLivestock, HasJuvenile: true},
	{Key: "goldenchicken", Class: ClassLivestock, HasJuvenile: true},
	{Key: "duck", Class: ClassLivestock, HasJuvenile: true},
	{Key: "rabbit", Class: ClassLivestock, HasJuvenile: true},
	{Key: "dinosaur", Class: ClassLivestock},
	{Key: "whitecow", Class: ClassLivestock, HasJuvenile: true},
	{Key: "browncow", Class: ClassLivestock, HasJuvenile: true},
	{Key: "goat", Class: ClassLivestock, HasJuvenile: true},
	{Key: "sheep", Class: ClassLivestock, HasJuvenile: true, HasSeasonal: true},
	{Key: "pig", Class: ClassLivestock, HasJuvenile: true},
	{Key: "ostrich", Class: ClassLivestock, HasJuvenile: true},
	{Key: "cat", Class: ClassPet},
	{Key: "dog", Class: ClassPet},
	{Key: "horse", Class: ClassMount},
}

// IsDefaultType checks if a key is a built-in registration.
func IsDefaultType(key string) bool {
	for _, t := range DefaultCreatureTypes {
		if t.Key == key {
			return true
		}
	}
	return false
}
