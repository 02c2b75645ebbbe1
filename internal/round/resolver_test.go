package round

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gangov/vrf-poker-activity/internal/cards"
)

func TestResolveValues(t *testing.T) {
	cases := []struct {
		name   string
		values []cards.Card
		want   Resolution
	}{
		{
			name:   "strict max",
			values: []cards.Card{3, 40, 7, 2},
			want:   Resolution{Winner: 1, Card: 40, CoWinners: []int{1}},
		},
		{
			name:   "first seen on tie",
			values: []cards.Card{3, 7, 7, 2},
			want:   Resolution{Winner: 1, Card: 7, IsTie: true, CoWinners: []int{1, 2}},
		},
		{
			name:   "all equal",
			values: []cards.Card{9, 9, 9},
			want:   Resolution{Winner: 0, Card: 9, IsTie: true, CoWinners: []int{0, 1, 2}},
		},
		{
			name:   "single",
			values: []cards.Card{0},
			want:   Resolution{Winner: 0, Card: 0, CoWinners: []int{0}},
		},
		{
			name:   "max last",
			values: []cards.Card{0, 1, 51},
			want:   Resolution{Winner: 2, Card: 51, CoWinners: []int{2}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.want.Values = tc.values
			if diff := cmp.Diff(tc.want, ResolveValues(tc.values)); diff != "" {
				t.Fatalf("ResolveValues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_ReturnsMaxPlayerHandle(t *testing.T) {
	r, agg := newTestRound(t, 6)
	w := mustRunRound(t, r, agg)

	_, res, ok := r.Winner()
	require.True(t, ok)
	require.Same(t, r.Players()[res.Winner], w)
	for i, p := range r.Players() {
		d, _ := p.Draw()
		v := cards.FromOutput(d.Output)
		require.Equal(t, v, res.Values[i])
		require.LessOrEqual(t, v, res.Card)
		if i < res.Winner {
			require.Less(t, v, res.Card, "earlier player %d must hold a lower card", i)
		}
	}
}

func TestResolve_ReturnsCopies(t *testing.T) {
	r, agg := newTestRound(t, 3)
	if _, err := agg.Run(r); err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	require.NoError(t, (&Drawer{}).Draw(context.Background(), r))

	_, res, err := Resolve(r)
	require.NoError(t, err)
	want := res.clone()

	res.Values[0] = 200
	res.CoWinners[0] = 99
	_, got, _ := r.Winner()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stored resolution changed (-want +got):\n%s", diff)
	}

	got.Values[1] = 201
	got.CoWinners[0] = 98
	_, again, _ := r.Winner()
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("stored resolution changed through Winner (-want +got):\n%s", diff)
	}
}
