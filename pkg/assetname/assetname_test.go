package assetname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Knight", "knight.png"},
		{"Mega Knight", "mega-knight.png"},
		{"Evo Mega Knight", "mega-knight-ev1.png"},
		{"evo knight", "knight-ev1.png"},
		{"P.E.K.K.A", "pekka.png"},
		{"Mini P.E.K.K.A", "mini-pekka.png"},
		{"Evo P.E.K.K.A", "pekka-ev1.png"},
		{"The  Log", "the-log.png"},
		{"Evolution Shard", "evolution-shard.png"},
		{"Royal\tGhost", "royal-ghost.png"},
		{"Mega\u00a0Knight", "mega-knight.png"},
		{"Evo\u00a0Wall Breakers", "evo-wall-breakers.png"},
		{"Royal \u2003 Ghost", "royal-ghost.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.name))
		})
	}
}

func TestMapperCustomSuffix(t *testing.T) {
	m := Mapper{EvolutionSuffix: "-evo", Extension: ".webp"}

	assert.Equal(t, "archers-evo", m.Identifier("Evo Archers"))
	assert.Equal(t, "archers-evo.webp", m.FileName("Evo Archers"))
}
