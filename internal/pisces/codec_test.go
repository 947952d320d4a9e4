package pisces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundTrip(t *testing.T) {
	seen := make(map[uint32]Category)
	for _, c := range AllCategories() {
		id := c.ID()
		assert.Equal(t, c, DecodeID(id), "decode(encode(%s))", c)

		parsed, err := ParseID(id)
		require.NoError(t, err)
		assert.Equal(t, c, parsed)

		prev, dup := seen[id]
		assert.False(t, dup, "%s and %s share id %d", c, prev, id)
		seen[id] = c
	}
	assert.Len(t, seen, 40)
}

func TestIDLayout(t *testing.T) {
	tests := []struct {
		cat  Category
		want uint32
	}{
		{Category{CCNumu, FHC, NearDet}, 0},
		{Category{CCNumu, FHC, FarDet}, 1},
		{Category{CCNumu, RHC, NearDet}, 4},
		{Category{CCNumuQ1, FHC, NearDet}, 16},
		{Category{CCNue, RHC, FarDet}, 5<<4 | 1<<2 | 1},
		{Category{NCRes30, RHC, FarDet}, 9<<4 | 1<<2 | 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cat.ID(), tt.cat.Tag())
	}
}

func TestParseIDRejectsCorruptValues(t *testing.T) {
	tests := []struct {
		name string
		id   uint32
	}{
		{"selection out of range", 10 << selShift},
		{"polarity out of range", 2 << polShift},
		{"detector out of range", 3},
		{"bits beyond layout", 1 << IDBits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.id)
			assert.ErrorIs(t, err, ErrCorruptID)
		})
	}

	assert.False(t, DecodeID(10<<selShift).Valid())
}

func TestEnsembleIDRoundTrip(t *testing.T) {
	cats := []Category{
		{CCNumu, FHC, FarDet},
		{CCNue, RHC, FarDet},
		{NCOld, FHC, NearDet},
	}
	token, err := EnsembleID(cats)
	require.NoError(t, err)
	assert.Equal(t, "id_1_85_96", token)

	got, err := ParseEnsembleID(token)
	require.NoError(t, err)
	assert.Equal(t, cats, got)

	single, err := EnsembleID(cats[:1])
	require.NoError(t, err)
	assert.Equal(t, "id_1", single)
	got, err = ParseEnsembleID(single)
	require.NoError(t, err)
	assert.Equal(t, cats[:1], got)
}

func TestEnsembleIDIsOrderSensitive(t *testing.T) {
	all := AllCategories()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			ab, err := EnsembleID([]Category{all[i], all[j]})
			require.NoError(t, err)
			ba, err := EnsembleID([]Category{all[j], all[i]})
			require.NoError(t, err)
			require.NotEqual(t, ab, ba)
		}
	}
}

func TestEnsembleIDErrors(t *testing.T) {
	_, err := EnsembleID(nil)
	assert.ErrorIs(t, err, ErrMalformedEnsembleID)

	for _, token := range []string{
		"",
		"id",
		"1_2",
		"xx_1",
		"id_1_x",
		"id_1__2",
		"id_-1",
		"id_99999999999",
		"id_160",
	} {
		_, err := ParseEnsembleID(token)
		assert.ErrorIs(t, err, ErrMalformedEnsembleID, "token %q", token)
	}
}

func TestCategoryNames(t *testing.T) {
	c := Category{CCNumuQ2, RHC, NearDet}
	assert.Equal(t, "numuq2sel_rhc_neardet", c.Tag())
	assert.Equal(t, "numuq2sel rhc neardet", c.Name())
	assert.Equal(t, `CC $\nu_{\mu}$ Q2 RHC ND`, c.LatexName())

	parsed, err := ParseTag(c.Tag())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)

	for _, bad := range []string{"numusel_fhc", "numusel_fhc_fardet_x", "bogus_fhc_fardet", "numusel_x_fardet", "numusel_fhc_x"} {
		_, err := ParseTag(bad)
		assert.Error(t, err, bad)
	}

	tags := make(map[string]bool)
	for _, c := range AllCategories() {
		assert.False(t, tags[c.Tag()], "duplicate tag %s", c.Tag())
		tags[c.Tag()] = true
	}
}

func TestCategoryClassifiers(t *testing.T) {
	for _, c := range AllCategories() {
		families := 0
		for _, in := range []bool{c.IsNC(), c.IsNumu(), c.IsNue()} {
			if in {
				families++
			}
		}
		assert.Equal(t, 1, families, "%s must be in exactly one selection family", c)
		assert.NotEqual(t, c.IsFHC(), c.IsRHC(), c.Tag())
		assert.NotEqual(t, c.IsND(), c.IsFD(), c.Tag())
	}

	assert.True(t, Category{Selection: NCRes20}.IsNC())
	assert.True(t, Category{Selection: CCNumuQ4}.IsNumu())
	assert.True(t, Category{Selection: CCNue}.IsNue())
}
