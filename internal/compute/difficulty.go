package compute

import "time"

const (
	terahash = 1e12

	// adjustmentFields is the row shape [unix_time, height, difficulty, change_factor].
	adjustmentFields = 4
)

// DifficultyChange is a difficulty adjustment in display units.
type DifficultyChange struct {
	Terahash      float64 `json:"terahash"`
	ChangePercent float64 `json:"change_percent"`
}

// LatestDifficultyAdjustment reads the first row of a newest-first list of
// [unix_time, height, difficulty, change_factor] rows. An empty list or a
// short row is Unavailable.
func LatestDifficultyAdjustment(rows [][]float64) Value[DifficultyAdjustment] {
	if len(rows) == 0 || len(rows[0]) < adjustmentFields {
		return Unavailable[DifficultyAdjustment]()
	}
	r := rows[0]
	return Of(DifficultyAdjustment{
		Time:         time.Unix(int64(r[0]), 0).UTC(),
		Height:       int64(r[1]),
		Difficulty:   r[2],
		ChangeFactor: r[3],
	})
}

// DifficultyDelta converts an adjustment to terahash units and a signed
// percentage change. A non-finite result in either field is Unavailable.
func DifficultyDelta(adj Value[DifficultyAdjustment]) Value[DifficultyChange] {
	a, ok := adj.Get()
	if !ok {
		return Unavailable[DifficultyChange]()
	}
	c := DifficultyChange{
		Terahash:      a.Difficulty / terahash,
		ChangePercent: (a.ChangeFactor - 1) * 100,
	}
	if !isFinite(c.Terahash) || !isFinite(c.ChangePercent) {
		return Unavailable[DifficultyChange]()
	}
	return Of(c)
}
