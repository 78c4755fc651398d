package model

// SpawnPoint places monsters of one definition in a zone. Count
// monsters are spawned within Radius of the origin at world start.
type SpawnPoint struct {
	ID        int32
	MonsterID int32
	ZoneID    int32
	Pos       Position
	Radius    float32
	Count     int32
}
