package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequesterVariants(t *testing.T) {
	acc := AccountRequester(42)
	assert.False(t, acc.IsManualBlock())
	id, ok := acc.AccountID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	block := ManualBlockRequester()
	assert.True(t, block.IsManualBlock())
	_, ok = block.AccountID()
	assert.False(t, ok)
}

func TestServiceSelectionVariants(t *testing.T) {
	catalog := CatalogSelection(1, 2, 3)
	assert.False(t, catalog.IsRawDuration())
	assert.Equal(t, []uint{1, 2, 3}, catalog.CatalogIDs())

	raw := RawDurationSelection(45)
	assert.True(t, raw.IsRawDuration())
	assert.Equal(t, 45, raw.RawMinutes())
	assert.Empty(t, raw.CatalogIDs())
}

func TestParseBlockDuration(t *testing.T) {
	assert.Equal(t, 45, ParseBlockDuration("lunch DURATION_MINUTES=45"))
	assert.Equal(t, 120, ParseBlockDuration("DURATION_MINUTES=120 equipment maintenance"))

	// Missing, malformed, or non-positive all fall back to the default.
	assert.Equal(t, DefaultSlotMinutes, ParseBlockDuration("staff meeting"))
	assert.Equal(t, DefaultSlotMinutes, ParseBlockDuration("DURATION_MINUTES="))
	assert.Equal(t, DefaultSlotMinutes, ParseBlockDuration("DURATION_MINUTES=0"))
	assert.Equal(t, DefaultSlotMinutes, ParseBlockDuration(""))
}
