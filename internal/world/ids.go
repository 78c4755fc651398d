package world

import "sync/atomic"

// Entity id ranges. Players and monsters share one id space so a
// SelectTarget can name either; the ranges keep them from colliding.
const (
	firstPlayerID  int64 = 1
	firstMonsterID int64 = 1_000_000
)

// EntityIDs hands out world-unique entity ids. Player ids start at 1,
// monster ids at 1,000,000.
type EntityIDs struct {
	nextPlayer  atomic.Int64
	nextMonster atomic.Int64
}

func NewEntityIDs() *EntityIDs {
	g := &EntityIDs{}
	g.nextPlayer.Store(firstPlayerID - 1)
	g.nextMonster.Store(firstMonsterID - 1)
	return g
}

func (g *EntityIDs) NextPlayer() int64 {
	return g.nextPlayer.Add(1)
}

func (g *EntityIDs) NextMonster() int64 {
	return g.nextMonster.Add(1)
}

// IsMonsterID reports whether an entity id falls in the monster range.
func IsMonsterID(id int64) bool {
	return id >= firstMonsterID
}
