package handlers

import (
	"context"

	"github.com/ersonp/menagerie/internal/infrastructure/parsers"
)

// HandleExport returns the roster of a group or type in the shape the
// importers read back.
func (h *CreatureHandler) HandleExport(ctx context.Context, target string) ([]parsers.RawCreature, error) {
	creatures, err := h.selectGroup(ctx, target)
	if err != nil {
		return nil, err
	}

	roster := make([]parsers.RawCreature, 0, len(creatures))
	for i := range creatures {
		c := &creatures[i]
		shortID, err := h.fields.ShortID(ctx, c.Ref)
		if err != nil {
			return nil, err
		}
		skinID, err := h.fields.SkinID(ctx, c.Ref)
		if err != nil {
			return nil, err
		}
		roster = append(roster, parsers.RawCreature{
			Name:     c.Name,
			Type:     c.TypeKey,
			Rider:    c.Rider,
			Juvenile: c.IsJuvenile(),
			Sheared:  c.IsSheared(),
			Coop:     c.IsLivestock() && c.Stage.Coop,
			ShortID:  shortID,
			SkinID:   skinID,
		})
	}
	return roster, nil
}
