package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/menagerie/internal/application/handlers"
)

func TestFormatSkin(t *testing.T) {
	tests := []struct {
		name string
		view handlers.CreatureView
		want string
	}{
		{name: "vanilla", view: handlers.CreatureView{SkinType: "cat"}, want: "vanilla"},
		{name: "base skin", view: handlers.CreatureView{SkinType: "cat", SkinID: 3}, want: "cat #3"},
		{name: "juvenile skin", view: handlers.CreatureView{SkinType: "babywhitecow", SkinID: 1}, want: "babywhitecow #1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSkin(tt.view))
		})
	}
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "being edited", formatStatus(handlers.CreatureView{Locked: true, Owned: true}))
	assert.Equal(t, "unowned", formatStatus(handlers.CreatureView{}))
	assert.Empty(t, formatStatus(handlers.CreatureView{Owned: true}))
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "-", formatID(0))
	assert.Equal(t, "12", formatID(12))
}

func TestFormatDetails(t *testing.T) {
	got := formatDetails(map[string]any{"to": "Buttercup", "from": "Bess"})

	assert.Equal(t, "from=Bess to=Buttercup", got)
	assert.Empty(t, formatDetails(nil))
}
