package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veselink1/quick-draw/domain"
)

func TestNextTurnPlayer_VisitsEveryoneExactlyOnce(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 3, 5, 8} {
		n := n
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			t.Parallel()
			players := make([]domain.Player, n)
			for i := range players {
				players[i] = domain.Player{ID: fmt.Sprintf("p%d", i)}
			}

			seen := map[string]int{}
			current := players[0].ID
			for range players {
				current = NextTurnPlayer(players, current)
				seen[current]++
			}

			assert.Equal(t, players[0].ID, current, "N rotations must return to the start")
			require.Len(t, seen, n)
			for id, count := range seen {
				assert.Equal(t, 1, count, "player %s visited %d times", id, count)
			}
		})
	}
}

func TestNextTurnPlayer_MissingPlayerFallsBackToFirst(t *testing.T) {
	t.Parallel()

	players := []domain.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Equal(t, "a", NextTurnPlayer(players, "gone"))
	assert.Equal(t, "a", NextTurnPlayer(players, ""))
	assert.Equal(t, "", NextTurnPlayer(nil, "a"))
}

func TestFoldScores_MonotonicAndCovering(t *testing.T) {
	t.Parallel()

	players := []domain.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	totals := map[string]int{}

	deltaSeq := []map[string]int{
		{"a": 10, "b": 5},
		{"c": 10},
		nil,
		{"a": 0, "b": 0, "c": 5},
	}

	for _, deltas := range deltaSeq {
		prev := totals
		totals = FoldScores(totals, deltas, players)

		require.Len(t, totals, 3, "totals cover every current player")
		for id, v := range prev {
			assert.GreaterOrEqual(t, totals[id], v, "score for %s decreased", id)
		}
	}

	assert.Equal(t, map[string]int{"a": 10, "b": 5, "c": 15}, totals)
}

func TestFoldScores_ClampsNegativeDeltas(t *testing.T) {
	t.Parallel()

	players := []domain.Player{{ID: "a"}, {ID: "b"}}
	totals := map[string]int{"a": 10, "b": 10}

	folded := FoldScores(totals, map[string]int{"a": -5, "b": 3}, players)

	assert.Equal(t, map[string]int{"a": 10, "b": 13}, folded, "a negative sheet entry must not take points away")
}

func TestFoldScores_KeepsDepartedPlayersTotals(t *testing.T) {
	t.Parallel()

	totals := map[string]int{"a": 10, "gone": 25}
	folded := FoldScores(totals, map[string]int{"a": 5}, []domain.Player{{ID: "a"}})

	assert.Equal(t, map[string]int{"a": 15, "gone": 25}, folded)
}
