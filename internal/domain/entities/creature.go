package entities

// Creature is the host's view of a domesticated creature, resolved once at
// the host boundary. Stage is only meaningful for livestock.
type Creature struct {
	Ref     string          `json:"ref"`
	Name    string          `json:"name"`
	TypeKey string          `json:"type"`
	Class   CapabilityClass `json:"class"`
	// Rider is the player currently riding a mount, empty when not ridden.
	Rider string    `json:"rider,omitempty"`
	Stage LifeStage `json:"stage"`
}

// LifeStage carries the livestock life-stage queries used for skin type
// resolution.
type LifeStage struct {
	Mature              bool `json:"mature"`
	ShowsHarvestTexture bool `json:"shows_harvest_texture"`
	CurrentYield        int  `json:"current_yield"`
	Coop                bool `json:"coop"`
}

// IsLivestock reports whether the creature is livestock.
func (c *Creature) IsLivestock() bool {
	return c.Class == ClassLivestock
}

// IsRidden reports whether the creature is a mount with a rider.
func (c *Creature) IsRidden() bool {
	return c.Class == ClassMount && c.Rider != ""
}

// IsJuvenile reports whether a livestock creature is below maturity.
func (c *Creature) IsJuvenile() bool {
	return c.IsLivestock() && !c.Stage.Mature
}

// IsSheared reports whether a livestock creature is in its harvested state
// with nothing left to yield.
func (c *Creature) IsSheared() bool {
	return c.IsLivestock() && c.Stage.ShowsHarvestTexture && c.Stage.CurrentYield <= 0
}
