// Package world implements the WorldService: world entry, the 20 Hz
// tick loop, interest management, monster AI, combat, and the session
// lifecycle flush. All game state belongs to the tick thread; network
// fibers and the UDP reader only feed the input queue, and suspending
// I/O runs on a separate worker pool.
package world

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/rpc"
	"github.com/flyagain/server/internal/wire"
)

// DataClient is the world's slice of the data service.
type DataClient interface {
	GameDataSource
	SaveCharacter(ctx context.Context, c *model.Character) error
	MoveItem(ctx context.Context, characterID int64, fromSlot, toSlot int32) error
	AddItem(ctx context.Context, characterID int64, itemID, quantity int32) error
}

// SessionStore is the world's slice of the shared store.
type SessionStore interface {
	GetSessionSecret(ctx context.Context, sessionID string) (string, error)
	ReadCharacterFields(ctx context.Context, characterID int64) (map[string]string, error)
	SnapshotCharacter(ctx context.Context, c *model.Character) error
	EnterWorldPresence(ctx context.Context, characterID int64, zoneID, channelID int32) error
	SwitchChannelPresence(ctx context.Context, characterID int64, zoneID, fromChannel, toChannel int32) error
	CleanupDisconnect(ctx context.Context, characterID, accountID int64, zoneID, channelID int32, sessionID string) error
}

// Config carries the world-specific knobs.
type Config struct {
	// UDPAddr is the movement input listener, host:port.
	UDPAddr string
	// TickRate is ticks per second, default 20.
	TickRate int
	// ChannelCapacity is players per zone channel, default 1000.
	ChannelCapacity int
	// QueueCapacity bounds the input queue, default 50000.
	QueueCapacity int
	// UDPFloodLimit is packets per second per sender, default 100.
	UDPFloodLimit int
	// IOWorkers sizes the I/O pool, default 8.
	IOWorkers int
	// PersistInterval is the dirty-snapshot cadence, default 60s.
	PersistInterval time.Duration
	// ShutdownTimeout bounds the final flush, default 30s.
	ShutdownTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.TickRate <= 0 {
		c.TickRate = 20
	}
	if c.ChannelCapacity <= 0 {
		c.ChannelCapacity = DefaultChannelCapacity
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.UDPFloodLimit <= 0 {
		c.UDPFloodLimit = DefaultUDPFloodLimit
	}
	if c.IOWorkers <= 0 {
		c.IOWorkers = 8
	}
	if c.PersistInterval <= 0 {
		c.PersistInterval = time.Minute
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// Service is one world process.
type Service struct {
	cfg      Config
	log      *slog.Logger
	data     DataClient
	sessions SessionStore
	tokens   *auth.TokenManager

	game  *GameData
	zones *ZoneManager
	ids   *EntityIDs
	queue *InputQueue
	bcast *Broadcaster
	udp   *UDPGateway
	io    *IOPool

	// entities maps accountID to *PlayerEntity. It is the only world
	// structure shared across threads; registration uses LoadOrStore
	// so a double world entry loses the race cleanly.
	entities sync.Map

	// rng and the reusable buffers below belong to the tick thread.
	rng    *rand.Rand
	drain  []QueuedPacket
	nearby []int64

	now           func() time.Time
	lastPersistMs int64
}

func New(cfg Config, data DataClient, sessions SessionStore, tokens *auth.TokenManager, log *slog.Logger) *Service {
	cfg.applyDefaults()
	s := &Service{
		cfg:      cfg,
		log:      log,
		data:     data,
		sessions: sessions,
		tokens:   tokens,
		ids:      NewEntityIDs(),
		bcast:    NewBroadcaster(log),
		io:       NewIOPool(0, log),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
	}
	s.queue = NewInputQueue(cfg.QueueCapacity, log)
	s.zones = NewZoneManager(cfg.ChannelCapacity, s.populateChannel)
	s.udp = NewUDPGateway(cfg.UDPAddr, cfg.UDPFloodLimit, s.queue, s.resolveUDPSession, time.Now, log)
	return s
}

// RunUDP serves the UDP movement listener; run it alongside Run.
func (s *Service) RunUDP(ctx context.Context) error {
	return s.udp.Run(ctx)
}

// Run loads game data, opens the initial channels, and drives the tick
// loop until ctx ends. On shutdown it force-flushes every player and
// waits out the I/O pool within the shutdown budget.
func (s *Service) Run(ctx context.Context) error {
	game, err := LoadGameData(ctx, s.data)
	if err != nil {
		return fmt.Errorf("world bootstrap: %w", err)
	}
	s.game = game
	items, monsters, spawnZones, skills, lootTables := game.Counts()
	s.log.Info("game data loaded",
		"items", items,
		"monsters", monsters,
		"spawnZones", spawnZones,
		"skills", skills,
		"lootTables", lootTables)

	s.zones.OpenInitialChannels()
	for _, z := range s.zones.Zones() {
		for _, chn := range z.Channels() {
			s.log.Info("zone channel open",
				"zone", z.Name,
				"zoneId", z.ID,
				"channelId", chn.ChannelID,
				"monsters", len(chn.monsters))
		}
	}

	s.io.Start(s.cfg.IOWorkers)
	s.runTicks(ctx)

	s.shutdownFlush(s.now().UnixMilli())
	if err := s.io.Shutdown(s.cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("world shutdown: %w", err)
	}
	return nil
}

// runTicks is the fixed-rate loop. A slow tick is logged and the loop
// falls behind schedule rather than skipping; the timer never sleeps a
// negative duration.
func (s *Service) runTicks(ctx context.Context) {
	interval := time.Second / time.Duration(s.cfg.TickRate)
	dt := float32(interval.Seconds())
	s.log.Info("tick loop starting", "rate", s.cfg.TickRate, "budget", interval)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	next := s.now()
	for {
		start := s.now()
		s.tick(start, dt)
		if elapsed := s.now().Sub(start); elapsed > interval {
			s.log.Warn("tick overrun",
				"elapsed", elapsed,
				"budget", interval,
				"queued", s.queue.Len(),
				"dropped", s.queue.Dropped())
		}

		next = next.Add(interval)
		sleep := next.Sub(s.now())
		if sleep <= 0 {
			select {
			case <-ctx.Done():
				return
			default:
			}
			continue
		}
		timer.Reset(sleep)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// tick runs the five stages in order: drain input, apply movement,
// step AI and combat, broadcast, and the periodic persistence pass.
func (s *Service) tick(now time.Time, dt float32) {
	nowMs := now.UnixMilli()

	s.drain = s.queue.Drain(s.drain)
	for i := range s.drain {
		s.dispatchPacket(&s.drain[i], nowMs)
	}

	for _, zone := range s.zones.Zones() {
		for _, chn := range zone.Channels() {
			chn.ForPlayers(func(p *PlayerEntity) {
				s.stepPlayerMovement(chn, p, dt)
			})
		}
	}

	for _, zone := range s.zones.Zones() {
		for _, chn := range zone.Channels() {
			chn.ForPlayers(func(p *PlayerEntity) {
				s.stepPlayerCombat(chn, p, nowMs)
			})
			chn.ForMonsters(func(m *MonsterEntity) {
				s.stepMonster(chn, m, nowMs, dt)
			})
		}
	}

	s.bcast.Flush()

	if nowMs-s.lastPersistMs >= s.cfg.PersistInterval.Milliseconds() {
		s.lastPersistMs = nowMs
		s.persistDirty(nowMs)
	}
}

// stepPlayerMovement applies one tick of a player's stored input.
func (s *Service) stepPlayerMovement(chn *ZoneChannel, p *PlayerEntity, dt float32) {
	if !p.Input.Moving || !p.Alive() {
		return
	}
	reason, ok := applyMovement(p, dt, chn.Grid())
	if !ok {
		if p.Conn != nil {
			_ = p.Conn.Send(protocol.OpPositionCorrection, &wire.PositionCorrection{
				X:        p.Pos.X,
				Y:        p.Pos.Y,
				Z:        p.Pos.Z,
				Rotation: p.Rotation,
				Reason:   reason,
			})
		}
		return
	}
	s.bcast.QueueUpdate(chn, p)
}

// dispatchPacket routes one drained packet on the tick thread.
func (s *Service) dispatchPacket(pkt *QueuedPacket, nowMs int64) {
	switch pkt.Opcode {
	case opcodeEnter:
		s.processEnter(pkt, nowMs)
		return
	case opcodeLeave:
		s.processLeave(pkt.AccountID, nowMs)
		return
	}

	v, ok := s.entities.Load(pkt.AccountID)
	if !ok {
		return
	}
	p := v.(*PlayerEntity)
	chn, ok := s.zones.Channel(p.ZoneID, p.Channel)
	if !ok {
		// Not placed yet; input raced ahead of world entry.
		return
	}

	switch pkt.Opcode {
	case protocol.OpMovementInput:
		var in wire.MovementInput
		if err := in.Unmarshal(pkt.Payload); err != nil {
			return
		}
		setMovementInput(p, &in)
	case protocol.OpSelectTarget:
		var st wire.SelectTarget
		if err := st.Unmarshal(pkt.Payload); err != nil {
			return
		}
		p.TargetID = st.TargetEntityID
		p.AutoAttack = st.AutoAttack
	case protocol.OpMoveItem:
		s.processMoveItem(p, pkt.Payload)
	case protocol.OpChatMessage:
		s.processChat(chn, p, pkt.Payload)
	case protocol.OpChannelSwitch:
		s.processChannelSwitch(chn, p, pkt.Payload)
	case protocol.OpChannelList:
		s.processChannelList(p)
	}
}

// processEnter places a registered player into a zone channel, sends
// the ZoneData snapshot, and announces the spawn.
func (s *Service) processEnter(pkt *QueuedPacket, nowMs int64) {
	p := pkt.Entity
	zoneID := DefaultZoneID
	if _, ok := s.zones.Zone(p.MapID); ok {
		zoneID = p.MapID
	}
	chn, ok := s.zones.BestChannel(zoneID)
	if !ok {
		s.entities.CompareAndDelete(pkt.AccountID, p)
		s.udp.DropSession(p.UDPToken)
		p.Conn.SendError(protocol.OpEnterWorld, protocol.CodeUnavailable, protocol.MsgUnavailable)
		return
	}
	if err := chn.AddPlayer(p); err != nil {
		s.log.Error("enter world: channel placement failed", "error", err)
		s.entities.CompareAndDelete(pkt.AccountID, p)
		s.udp.DropSession(p.UDPToken)
		p.Conn.SendError(protocol.OpEnterWorld, protocol.CodeUnavailable, protocol.MsgUnavailable)
		return
	}
	p.SessionStartMs = nowMs

	zone, _ := s.zones.Zone(zoneID)
	s.sendZoneData(zone, chn, p)
	s.bcast.QueueSpawn(chn, p.SpawnRecord())

	characterID := p.ID
	channelID := chn.ChannelID
	s.io.Submit(func(ctx context.Context) {
		if err := s.sessions.EnterWorldPresence(ctx, characterID, zoneID, channelID); err != nil {
			s.log.Error("presence write failed", "characterId", characterID, "error", err)
		}
	})

	s.log.Info("player entered world",
		"characterId", p.ID,
		"name", p.Name,
		"entityId", p.EntityID,
		"zone", zone.Name,
		"channelId", channelID)
}

// sendZoneData ships the 3x3 neighborhood snapshot, including the
// player's own record so the client learns its entity id.
func (s *Service) sendZoneData(zone *Zone, chn *ZoneChannel, p *PlayerEntity) {
	s.nearby = chn.Grid().Nearby(p.Pos.X, p.Pos.Z, s.nearby[:0])
	records := make([]wire.EntitySpawn, 0, len(s.nearby))
	for _, id := range s.nearby {
		if other, ok := chn.Player(id); ok {
			records = append(records, other.SpawnRecord())
			continue
		}
		if m, ok := chn.Monster(id); ok && m.Alive() {
			records = append(records, m.SpawnRecord())
		}
	}
	err := p.Conn.Send(protocol.OpZoneData, &wire.ZoneData{
		ZoneID:    zone.ID,
		ZoneName:  zone.Name,
		ChannelID: chn.ChannelID,
		Entities:  records,
	})
	if err != nil {
		s.log.Warn("zone data send failed", "characterId", p.ID, "error", err)
	}
}

// processMoveItem hands the inventory call to the I/O pool and replies
// from there; the data service owns slot validation.
func (s *Service) processMoveItem(p *PlayerEntity, payload []byte) {
	var req wire.MoveItemRequest
	if err := req.Unmarshal(payload); err != nil {
		return
	}
	characterID := p.ID
	conn := p.Conn
	s.io.Submit(func(ctx context.Context) {
		err := s.data.MoveItem(ctx, characterID, req.FromSlot, req.ToSlot)
		resp := wire.MoveItemResponse{Ok: err == nil}
		if err != nil {
			if msg, ok := rpc.Rejection(err); ok {
				resp.Message = msg
			} else {
				s.log.Error("move item failed", "characterId", characterID, "error", err)
				resp.Message = protocol.MsgUnavailable
			}
		}
		if conn != nil {
			_ = conn.Send(protocol.OpMoveItem, &resp)
		}
	})
}

// processChat relays local chat to the sender's 3x3 neighborhood,
// echo included.
func (s *Service) processChat(chn *ZoneChannel, p *PlayerEntity, payload []byte) {
	var req wire.ChatMessage
	if err := req.Unmarshal(payload); err != nil {
		return
	}
	if len(req.Text) == 0 || len(req.Text) > 512 {
		if p.Conn != nil {
			p.Conn.SendError(protocol.OpChatMessage, protocol.CodeBadRequest, "Chat message must be 1-512 bytes.")
		}
		return
	}
	s.bcast.Queue(chn, p.Pos.X, p.Pos.Z, protocol.OpChatMessage, &wire.ChatMessage{
		Channel:    wire.ChatChannelLocal,
		SenderID:   p.EntityID,
		SenderName: p.Name,
		Text:       req.Text,
	}, 0)
}

// processChannelSwitch moves a player to another channel of its zone.
// The target must already exist or be the next sequential id.
func (s *Service) processChannelSwitch(cur *ZoneChannel, p *PlayerEntity, payload []byte) {
	var req wire.ChannelSwitchRequest
	if err := req.Unmarshal(payload); err != nil {
		return
	}
	reply := func(resp *wire.ChannelSwitchResponse) {
		if p.Conn != nil {
			_ = p.Conn.Send(protocol.OpChannelSwitch, resp)
		}
	}

	if req.ChannelID == cur.ChannelID {
		reply(&wire.ChannelSwitchResponse{Ok: true, ChannelID: cur.ChannelID})
		return
	}
	zone, ok := s.zones.Zone(p.ZoneID)
	if !ok {
		reply(&wire.ChannelSwitchResponse{Message: "Channel not available.", ChannelID: cur.ChannelID})
		return
	}
	target, ok := s.zones.Channel(p.ZoneID, req.ChannelID)
	if !ok {
		if req.ChannelID != int32(len(zone.Channels())) {
			reply(&wire.ChannelSwitchResponse{Message: "Channel not available.", ChannelID: cur.ChannelID})
			return
		}
		target = s.zones.openChannel(zone)
	}
	if !target.HasCapacity() {
		reply(&wire.ChannelSwitchResponse{Message: "Channel is full.", ChannelID: cur.ChannelID})
		return
	}

	s.bcast.QueueDespawn(cur, p.EntityID, p.Pos.X, p.Pos.Z)
	cur.RemovePlayer(p)
	if err := target.AddPlayer(p); err != nil {
		// Capacity was checked; restore the old placement.
		_ = cur.AddPlayer(p)
		reply(&wire.ChannelSwitchResponse{Message: "Channel is full.", ChannelID: cur.ChannelID})
		return
	}
	p.TargetID = 0
	p.AutoAttack = false
	s.bcast.QueueSpawn(target, p.SpawnRecord())
	reply(&wire.ChannelSwitchResponse{Ok: true, ChannelID: target.ChannelID})
	s.sendZoneData(zone, target, p)

	characterID := p.ID
	from, to := cur.ChannelID, target.ChannelID
	zoneID := p.ZoneID
	s.io.Submit(func(ctx context.Context) {
		if err := s.sessions.SwitchChannelPresence(ctx, characterID, zoneID, from, to); err != nil {
			s.log.Error("channel presence update failed", "characterId", characterID, "error", err)
		}
	})

	s.log.Info("channel switch",
		"characterId", p.ID,
		"zoneId", zoneID,
		"from", from,
		"to", to)
}

// processChannelList reports the channels of the player's zone.
func (s *Service) processChannelList(p *PlayerEntity) {
	zone, ok := s.zones.Zone(p.ZoneID)
	if !ok || p.Conn == nil {
		return
	}
	resp := wire.ChannelListResponse{}
	for _, chn := range zone.Channels() {
		resp.Channels = append(resp.Channels, wire.ChannelInfo{
			ChannelID:   chn.ChannelID,
			PlayerCount: int32(chn.PlayerCount()),
			Capacity:    int32(chn.Capacity()),
		})
	}
	_ = p.Conn.Send(protocol.OpChannelList, &resp)
}

// populateChannel spawns the zone's monster population into a fresh
// channel. Spawn points scatter their count uniformly inside the
// radius.
func (s *Service) populateChannel(chn *ZoneChannel) {
	if s.game == nil {
		return
	}
	for _, sp := range s.game.SpawnsIn(chn.ZoneID) {
		def, ok := s.game.Monster(sp.MonsterID)
		if !ok {
			s.log.Warn("spawn point references unknown monster",
				"spawnId", sp.ID, "monsterId", sp.MonsterID)
			continue
		}
		for range sp.Count {
			pos := sp.Pos
			if sp.Radius > 0 {
				angle := s.rng.Float64() * 2 * math.Pi
				dist := s.rng.Float64() * float64(sp.Radius)
				pos.X += float32(math.Cos(angle) * dist)
				pos.Z += float32(math.Sin(angle) * dist)
			}
			m := NewMonsterEntity(s.ids.NextMonster(), &def, chn.ZoneID, chn.ChannelID, pos)
			chn.AddMonster(m)
		}
	}
}

// resolveUDPSession is the UDP gateway's fallback when its token table
// has no entry: find the in-world player carrying the token and read
// the session secret back from the shared store.
func (s *Service) resolveUDPSession(token uint64) (string, int64, bool) {
	var (
		sessionID string
		accountID int64
		found     bool
	)
	s.entities.Range(func(k, v any) bool {
		p := v.(*PlayerEntity)
		if p.UDPToken == token {
			sessionID = p.SessionID
			accountID = k.(int64)
			found = true
			return false
		}
		return true
	})
	if !found {
		return "", 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	secret, err := s.sessions.GetSessionSecret(ctx, sessionID)
	if err != nil {
		s.log.Warn("udp session resolve failed", "accountId", accountID, "error", err)
		return "", 0, false
	}
	return secret, accountID, true
}
