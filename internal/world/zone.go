package world

import (
	"fmt"

	"github.com/flyagain/server/internal/model"
)

// DefaultZoneID is the town every character without a valid map id
// lands in.
const DefaultZoneID int32 = 1

// DefaultChannelCapacity bounds players per channel.
const DefaultChannelCapacity = 1000

// Zone is one fixed map. Channels are parallel copies of the zone,
// opened on demand and never closed.
type Zone struct {
	ID           int32
	Name         string
	DefaultSpawn model.Position

	channels []*ZoneChannel
}

// Channels returns the zone's channels in creation (id) order.
func (z *Zone) Channels() []*ZoneChannel { return z.channels }

// ZoneChannel holds the live entities of one zone copy. It belongs to
// the tick thread; nothing here locks.
type ZoneChannel struct {
	ZoneID    int32
	ChannelID int32

	maxPlayers int
	players    map[int64]*PlayerEntity
	monsters   map[int64]*MonsterEntity
	grid       *SpatialGrid
}

func NewZoneChannel(zoneID, channelID int32, maxPlayers int) *ZoneChannel {
	return &ZoneChannel{
		ZoneID:     zoneID,
		ChannelID:  channelID,
		maxPlayers: maxPlayers,
		players:    make(map[int64]*PlayerEntity),
		monsters:   make(map[int64]*MonsterEntity),
		grid:       NewSpatialGrid(),
	}
}

// AddPlayer inserts the player and its grid entry. It refuses when the
// channel is at capacity.
func (c *ZoneChannel) AddPlayer(p *PlayerEntity) error {
	if len(c.players) >= c.maxPlayers {
		return fmt.Errorf("channel %d/%d full (%d players)", c.ZoneID, c.ChannelID, len(c.players))
	}
	c.players[p.EntityID] = p
	c.grid.Insert(p.EntityID, p.Pos.X, p.Pos.Z)
	p.ZoneID = c.ZoneID
	p.Channel = c.ChannelID
	return nil
}

// RemovePlayer drops the player and its grid entry.
func (c *ZoneChannel) RemovePlayer(p *PlayerEntity) {
	if _, ok := c.players[p.EntityID]; !ok {
		return
	}
	delete(c.players, p.EntityID)
	c.grid.Remove(p.EntityID, p.Pos.X, p.Pos.Z)
}

// AddMonster inserts the monster and its grid entry.
func (c *ZoneChannel) AddMonster(m *MonsterEntity) {
	m.ZoneID = c.ZoneID
	m.Channel = c.ChannelID
	c.monsters[m.EntityID] = m
	c.grid.Insert(m.EntityID, m.Pos.X, m.Pos.Z)
}

// Player looks up a player entity by id.
func (c *ZoneChannel) Player(entityID int64) (*PlayerEntity, bool) {
	p, ok := c.players[entityID]
	return p, ok
}

// Monster looks up a monster entity by id.
func (c *ZoneChannel) Monster(entityID int64) (*MonsterEntity, bool) {
	m, ok := c.monsters[entityID]
	return m, ok
}

// PlayerCount returns the number of players in the channel.
func (c *ZoneChannel) PlayerCount() int { return len(c.players) }

// Capacity returns the channel's player cap.
func (c *ZoneChannel) Capacity() int { return c.maxPlayers }

// HasCapacity reports whether another player fits.
func (c *ZoneChannel) HasCapacity() bool { return len(c.players) < c.maxPlayers }

// Grid exposes the channel's spatial index.
func (c *ZoneChannel) Grid() *SpatialGrid { return c.grid }

// ForPlayers iterates the channel's players.
func (c *ZoneChannel) ForPlayers(fn func(*PlayerEntity)) {
	for _, p := range c.players {
		fn(p)
	}
}

// ForMonsters iterates the channel's monsters.
func (c *ZoneChannel) ForMonsters(fn func(*MonsterEntity)) {
	for _, m := range c.monsters {
		fn(m)
	}
}

// ZoneManager owns the fixed zone set and their channels. Like the
// channels it is tick-thread state.
type ZoneManager struct {
	zones    []*Zone
	byID     map[int32]*Zone
	capacity int

	// populate fills a freshly opened channel with monsters; injected
	// so the manager stays free of spawn data concerns.
	populate func(*ZoneChannel)
}

// NewZoneManager builds the fixed world: Aerheim (town), Grüne Ebene,
// and Dunkler Wald. No channels exist until OpenInitialChannels or the
// first BestChannel call.
func NewZoneManager(capacity int, populate func(*ZoneChannel)) *ZoneManager {
	if capacity <= 0 {
		capacity = DefaultChannelCapacity
	}
	if populate == nil {
		populate = func(*ZoneChannel) {}
	}
	zm := &ZoneManager{capacity: capacity, populate: populate, byID: make(map[int32]*Zone)}
	for _, z := range []*Zone{
		{ID: 1, Name: "Aerheim", DefaultSpawn: model.TownSpawn},
		{ID: 2, Name: "Grüne Ebene", DefaultSpawn: model.Position{X: 2500, Y: 0, Z: 2500}},
		{ID: 3, Name: "Dunkler Wald", DefaultSpawn: model.Position{X: 7500, Y: 0, Z: 7500}},
	} {
		zm.zones = append(zm.zones, z)
		zm.byID[z.ID] = z
	}
	return zm
}

// Zones returns the fixed zone list in id order.
func (zm *ZoneManager) Zones() []*Zone { return zm.zones }

// Zone looks a zone up by id.
func (zm *ZoneManager) Zone(zoneID int32) (*Zone, bool) {
	z, ok := zm.byID[zoneID]
	return z, ok
}

// Channel looks up one channel of a zone.
func (zm *ZoneManager) Channel(zoneID, channelID int32) (*ZoneChannel, bool) {
	z, ok := zm.byID[zoneID]
	if !ok {
		return nil, false
	}
	for _, c := range z.channels {
		if c.ChannelID == channelID {
			return c, true
		}
	}
	return nil, false
}

// BestChannel returns the first channel of the zone with capacity,
// opening a new one with the next sequential id when all are full.
// Channels are never deleted.
func (zm *ZoneManager) BestChannel(zoneID int32) (*ZoneChannel, bool) {
	z, ok := zm.byID[zoneID]
	if !ok {
		return nil, false
	}
	for _, c := range z.channels {
		if c.HasCapacity() {
			return c, true
		}
	}
	return zm.openChannel(z), true
}

// OpenInitialChannels opens channel 0 of every zone so monsters exist
// before the first player arrives.
func (zm *ZoneManager) OpenInitialChannels() {
	for _, z := range zm.zones {
		if len(z.channels) == 0 {
			zm.openChannel(z)
		}
	}
}

func (zm *ZoneManager) openChannel(z *Zone) *ZoneChannel {
	c := NewZoneChannel(z.ID, int32(len(z.channels)), zm.capacity)
	z.channels = append(z.channels, c)
	zm.populate(c)
	return c
}
