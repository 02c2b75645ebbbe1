package cards

import (
	"testing"

	"github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"

	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

func TestFromOutput(t *testing.T) {
	var out vrf.Output
	require.Equal(t, Card(0), FromOutput(out))

	out[0] = 51
	require.Equal(t, Card(51), FromOutput(out))

	out[0] = 52
	require.Equal(t, Card(0), FromOutput(out))

	for i := range out {
		out[i] = 0xff
	}
	// 32 * 255 = 8160 = 156*52 + 48
	require.Equal(t, Card(48), FromOutput(out))
}

func TestCardString(t *testing.T) {
	cases := map[Card]string{
		0:  "C2",
		8:  "CT",
		12: "CA",
		13: "D2",
		25: "DA",
		38: "HA",
		51: "SA",
		52: "??",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Fatalf("Card(%d).String()=%q, want %q", c, got, want)
		}
	}
}

func TestRankSuit(t *testing.T) {
	c := Card(51)
	require.Equal(t, uint8(14), c.Rank())
	require.Equal(t, uint8(3), c.Suit())

	c = Card(13)
	require.Equal(t, uint8(2), c.Rank())
	require.Equal(t, uint8(1), c.Suit())
}

func TestPokerConversion(t *testing.T) {
	seen := make(map[poker.Card]bool)
	for id := uint8(0); id < DeckSize; id++ {
		pc, err := Card(id).Poker()
		require.NoError(t, err)
		require.True(t, pc.Valid(), "id %d", id)
		require.False(t, seen[pc], "duplicate poker card for id %d", id)
		seen[pc] = true
		require.Equal(t, pc, poker.NameToCard[Card(id).String()])
	}
	require.Len(t, seen, DeckSize)

	_, err := Card(DeckSize).Poker()
	require.Error(t, err)
}
