package game

import "github.com/veselink1/quick-draw/domain"

// NextTurnPlayer picks the player after currentID in strict list order,
// wrapping around after the last player. It indexes off the player list of
// the snapshot being evaluated, not a cached one, so a player leaving
// between turns is handled naturally. If the current turn player is no
// longer in the list the rotation restarts at index 0.
func NextTurnPlayer(players []domain.Player, currentID string) string {
	if len(players) == 0 {
		return ""
	}
	for i, p := range players {
		if p.ID == currentID {
			return players[(i+1)%len(players)].ID
		}
	}
	return players[0].ID
}

// FoldScores adds per-turn deltas into cumulative totals. Missing keys
// count as zero, negative deltas are clamped to zero, and the result
// covers every current player id, so totals never shrink and never
// decrease. The clamp is the last line of defense: a malicious or buggy
// score sheet must not be able to take points away.
func FoldScores(totals, deltas map[string]int, players []domain.Player) map[string]int {
	folded := make(map[string]int, len(totals)+len(players))
	for id, v := range totals {
		folded[id] = v
	}
	for _, p := range players {
		delta := deltas[p.ID]
		if delta < 0 {
			delta = 0
		}
		folded[p.ID] += delta
	}
	return folded
}
