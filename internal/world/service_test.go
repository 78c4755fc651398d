package world

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testUDPSecret = "dW5pdC10ZXN0LXNlY3JldA"

// testSession derives a distinct, well-formed session id per account:
// 8 bytes in base64-url, the shape NewSessionID produces.
func testSession(accountID int64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(accountID))
	return base64.RawURLEncoding.EncodeToString(b[:])
}

type moveItemCall struct {
	characterID      int64
	fromSlot, toSlot int32
}

type addItemCall struct {
	characterID      int64
	itemID, quantity int32
}

// fakeWorldData serves the definition tables and records the calls the
// I/O pool makes. Channels let tests wait for asynchronous writes.
type fakeWorldData struct {
	mu      sync.Mutex
	moveErr error

	saves chan model.Character
	moves chan moveItemCall
	adds  chan addItemCall
}

func newFakeWorldData() *fakeWorldData {
	return &fakeWorldData{
		saves: make(chan model.Character, 16),
		moves: make(chan moveItemCall, 16),
		adds:  make(chan addItemCall, 16),
	}
}

func (f *fakeWorldData) GetAllItems(context.Context) ([]model.ItemDef, error) {
	return []model.ItemDef{
		{ID: 201, Name: "Wolfspelz", StackMax: 20, Value: 8},
	}, nil
}

func (f *fakeWorldData) GetAllMonsters(context.Context) ([]model.MonsterDef, error) {
	return []model.MonsterDef{
		{
			ID: 100, Name: "Waldwolf", Level: 3,
			MaxHP: 30, Attack: 10, Defense: 0, XPReward: 120,
			AggroRange: 15, AttackRange: 2, AttackSpeedMs: 1000,
			MoveSpeed: 3, RespawnMs: 30_000, LeashDistance: 40,
			LootTableID: 5,
		},
	}, nil
}

func (f *fakeWorldData) GetAllSpawns(context.Context) ([]model.SpawnPoint, error) {
	return []model.SpawnPoint{
		{ID: 1, MonsterID: 100, ZoneID: 1, Pos: model.Position{X: 502, Y: 0, Z: 500}, Radius: 0, Count: 1},
	}, nil
}

func (f *fakeWorldData) GetAllSkills(context.Context) ([]model.SkillDef, error) {
	return nil, nil
}

func (f *fakeWorldData) GetAllLootTables(context.Context) ([]model.LootEntry, error) {
	return []model.LootEntry{
		{TableID: 5, ItemID: 201, Chance: 1.0, MinQuantity: 1, MaxQuantity: 1},
	}, nil
}

func (f *fakeWorldData) SaveCharacter(_ context.Context, c *model.Character) error {
	f.saves <- *c
	return nil
}

func (f *fakeWorldData) MoveItem(_ context.Context, characterID int64, fromSlot, toSlot int32) error {
	f.mu.Lock()
	err := f.moveErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.moves <- moveItemCall{characterID, fromSlot, toSlot}
	return nil
}

func (f *fakeWorldData) setMoveErr(err error) {
	f.mu.Lock()
	f.moveErr = err
	f.mu.Unlock()
}

func (f *fakeWorldData) AddItem(_ context.Context, characterID int64, itemID, quantity int32) error {
	f.adds <- addItemCall{characterID, itemID, quantity}
	return nil
}

type presenceCall struct {
	characterID       int64
	zoneID, channelID int32
}

type switchCall struct {
	characterID      int64
	zoneID, from, to int32
}

type cleanupCall struct {
	characterID, accountID int64
	zoneID, channelID      int32
	sessionID              string
}

// fakeWorldStore is the shared-store stand-in: character snapshots are
// seeded as raw hash fields, presence and cleanup calls are recorded.
type fakeWorldStore struct {
	mu        sync.Mutex
	fields    map[int64]map[string]string
	secrets   map[string]string
	fieldsErr error
	secretErr error

	snapshots chan model.Character
	presence  chan presenceCall
	switches  chan switchCall
	cleanups  chan cleanupCall
}

func newFakeWorldStore() *fakeWorldStore {
	return &fakeWorldStore{
		fields:    make(map[int64]map[string]string),
		secrets:   make(map[string]string),
		snapshots: make(chan model.Character, 16),
		presence:  make(chan presenceCall, 16),
		switches:  make(chan switchCall, 16),
		cleanups:  make(chan cleanupCall, 16),
	}
}

func (f *fakeWorldStore) GetSessionSecret(_ context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.secretErr != nil {
		return "", f.secretErr
	}
	secret, ok := f.secrets[sessionID]
	if !ok {
		return "", errors.New("session not found")
	}
	return secret, nil
}

func (f *fakeWorldStore) ReadCharacterFields(_ context.Context, characterID int64) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fieldsErr != nil {
		return nil, f.fieldsErr
	}
	return f.fields[characterID], nil
}

func (f *fakeWorldStore) SnapshotCharacter(_ context.Context, c *model.Character) error {
	f.snapshots <- *c
	return nil
}

func (f *fakeWorldStore) EnterWorldPresence(_ context.Context, characterID int64, zoneID, channelID int32) error {
	f.presence <- presenceCall{characterID, zoneID, channelID}
	return nil
}

func (f *fakeWorldStore) SwitchChannelPresence(_ context.Context, characterID int64, zoneID, fromChannel, toChannel int32) error {
	f.switches <- switchCall{characterID, zoneID, fromChannel, toChannel}
	return nil
}

func (f *fakeWorldStore) CleanupDisconnect(_ context.Context, characterID, accountID int64, zoneID, channelID int32, sessionID string) error {
	f.cleanups <- cleanupCall{characterID, accountID, zoneID, channelID, sessionID}
	return nil
}

// charFieldMap flattens a character the way the store writes its hash.
func charFieldMap(c *model.Character) map[string]string {
	return map[string]string{
		"accountId":  strconv.FormatInt(c.AccountID, 10),
		"name":       c.Name,
		"classId":    strconv.FormatInt(int64(c.ClassID), 10),
		"level":      strconv.FormatInt(int64(c.Level), 10),
		"xp":         strconv.FormatInt(c.XP, 10),
		"hp":         strconv.FormatInt(int64(c.HP), 10),
		"mp":         strconv.FormatInt(int64(c.MP), 10),
		"maxHp":      strconv.FormatInt(int64(c.MaxHP), 10),
		"maxMp":      strconv.FormatInt(int64(c.MaxMP), 10),
		"strength":   strconv.FormatInt(int64(c.Strength), 10),
		"stamina":    strconv.FormatInt(int64(c.Stamina), 10),
		"dexterity":  strconv.FormatInt(int64(c.Dexterity), 10),
		"intellect":  strconv.FormatInt(int64(c.Intellect), 10),
		"statPoints": strconv.FormatInt(int64(c.StatPoints), 10),
		"mapId":      strconv.FormatInt(int64(c.MapID), 10),
		"posX":       strconv.FormatFloat(float64(c.Pos.X), 'g', -1, 32),
		"posY":       strconv.FormatFloat(float64(c.Pos.Y), 'g', -1, 32),
		"posZ":       strconv.FormatFloat(float64(c.Pos.Z), 'g', -1, 32),
		"gold":       strconv.FormatInt(c.Gold, 10),
		"playTime":   strconv.FormatInt(c.PlayTime, 10),
	}
}

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Unix(1_755_000_000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type worldFixture struct {
	svc    *Service
	data   *fakeWorldData
	store  *fakeWorldStore
	tokens *auth.TokenManager
	clock  *manualClock
	dt     float32
}

func newWorldFixture(t *testing.T) *worldFixture {
	t.Helper()
	data := newFakeWorldData()
	st := newFakeWorldStore()
	tokens := auth.NewTokenManager([]byte("test-signing-secret"), time.Hour)
	clock := newManualClock()

	svc := New(Config{UDPAddr: "127.0.0.1:0"}, data, st, tokens, discardLogger())
	svc.now = clock.Now
	svc.rng = rand.New(rand.NewPCG(7, 13))
	svc.lastPersistMs = clock.Now().UnixMilli()

	game, err := LoadGameData(context.Background(), data)
	require.NoError(t, err)
	svc.game = game
	svc.zones.OpenInitialChannels()
	svc.io.Start(2)
	t.Cleanup(func() {
		require.NoError(t, svc.io.Shutdown(2*time.Second))
	})

	return &worldFixture{svc: svc, data: data, store: st, tokens: tokens, clock: clock, dt: 0.05}
}

// tick runs one world tick at the fixture clock, then advances the
// clock by one tick interval.
func (f *worldFixture) tick() {
	f.svc.tick(f.clock.Now(), f.dt)
	f.clock.Advance(50 * time.Millisecond)
}

func (f *worldFixture) seedCharacter(c *model.Character) {
	f.store.mu.Lock()
	f.store.fields[c.ID] = charFieldMap(c)
	f.store.secrets[testSession(c.AccountID)] = testUDPSecret
	f.store.mu.Unlock()
}

func (f *worldFixture) mintToken(t *testing.T, accountID int64) string {
	t.Helper()
	token, err := f.tokens.Mint(accountID, testSession(accountID), "tester")
	require.NoError(t, err)
	return token
}

func (f *worldFixture) player(t *testing.T, accountID int64) *PlayerEntity {
	t.Helper()
	v, ok := f.svc.entities.Load(accountID)
	require.True(t, ok, "account %d not in world", accountID)
	return v.(*PlayerEntity)
}

// send pushes one client frame through the queueing handler, the same
// path the router uses for in-world opcodes.
func (f *worldFixture) send(t *testing.T, c *gateway.Conn, opcode uint16, msg wire.Message) {
	t.Helper()
	h := f.svc.queueing(opcode)
	require.NoError(t, h(context.Background(), c, wire.Marshal(msg)))
}

func worldConn(t *testing.T) (*gateway.Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	c := gateway.NewConn(server, discardLogger(), 16, time.Second)
	t.Cleanup(func() {
		c.Close()
		client.Close()
	})
	return c, client
}

func readWorldFrame(t *testing.T, conn net.Conn) (uint16, []byte) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, protocol.MaxFrameSize)
	opcode, payload, err := protocol.ReadFrame(conn, buf)
	require.NoError(t, err)
	out := make([]byte, len(payload))
	copy(out, payload)
	return opcode, out
}

func readEntityEvent(t *testing.T, conn net.Conn) wire.EntityEvent {
	t.Helper()
	op, payload := readWorldFrame(t, conn)
	require.Equal(t, protocol.OpEntityEvent, op)
	var ev wire.EntityEvent
	require.NoError(t, ev.Unmarshal(payload))
	return ev
}

func waitRecv[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func testCharacter() *model.Character {
	return &model.Character{
		ID: 3, AccountID: 7, Name: "Falka", ClassID: model.ClassAssassine,
		Level: 1, HP: 120, MP: 60, MaxHP: 120, MaxMP: 60,
		Strength: 20, Stamina: 12, Dexterity: 0, Intellect: 8,
		MapID: 1, Pos: model.Position{X: 500, Y: 0, Z: 500},
	}
}

type enteredPlayer struct {
	conn   *gateway.Conn
	client net.Conn
	zone   wire.ZoneData
}

// enter runs the whole entry flow for one character: handler, placement
// tick, ZoneData.
func (f *worldFixture) enter(t *testing.T, ch *model.Character) *enteredPlayer {
	t.Helper()
	f.seedCharacter(ch)
	c, client := worldConn(t)

	req := &wire.EnterWorldRequest{Token: f.mintToken(t, ch.AccountID), CharacterID: ch.ID}
	require.NoError(t, f.svc.handleEnterWorld(context.Background(), c, wire.Marshal(req)))
	f.tick()

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpZoneData, op)
	var zone wire.ZoneData
	require.NoError(t, zone.Unmarshal(payload))
	return &enteredPlayer{conn: c, client: client, zone: zone}
}

func findSpawn(t *testing.T, zone *wire.ZoneData, kind int32) wire.EntitySpawn {
	t.Helper()
	for _, e := range zone.Entities {
		if e.Kind == kind {
			return e
		}
	}
	t.Fatalf("no entity of kind %d in zone data", kind)
	panic("unreachable")
}

func TestEnterWorldDeliversZoneSnapshot(t *testing.T) {
	f := newWorldFixture(t)
	ep := f.enter(t, testCharacter())

	assert.Equal(t, int32(1), ep.zone.ZoneID)
	assert.Equal(t, "Aerheim", ep.zone.ZoneName)
	assert.Equal(t, int32(0), ep.zone.ChannelID)
	require.Len(t, ep.zone.Entities, 2, "own record plus the zone's monster")

	self := findSpawn(t, &ep.zone, wire.EntityKindPlayer)
	assert.Equal(t, int64(1), self.EntityID)
	assert.Equal(t, "Falka", self.Name)
	assert.Equal(t, int32(model.ClassAssassine), self.DefID)
	assert.Equal(t, float32(500), self.X)
	assert.Equal(t, int32(120), self.HP)

	wolf := findSpawn(t, &ep.zone, wire.EntityKindMonster)
	assert.Equal(t, "Waldwolf", wolf.Name)
	assert.Equal(t, int32(3), wolf.Level)
	assert.Equal(t, float32(502), wolf.X)
	assert.Equal(t, int32(30), wolf.HP)

	assert.Equal(t, gateway.StateInWorld, ep.conn.State())
	assert.Equal(t, int64(3), ep.conn.CharacterID())

	pc := waitRecv(t, f.store.presence, "presence write")
	assert.Equal(t, presenceCall{characterID: 3, zoneID: 1, channelID: 0}, pc)

	chn, ok := f.svc.zones.Channel(1, 0)
	require.True(t, ok)
	assert.Equal(t, 1, chn.PlayerCount())
}

func TestEnterWorldSecondEntrySameAccountRefused(t *testing.T) {
	f := newWorldFixture(t)
	f.enter(t, testCharacter())

	c, client := worldConn(t)
	req := &wire.EnterWorldRequest{Token: f.mintToken(t, 7), CharacterID: 3}
	err := f.svc.handleEnterWorld(context.Background(), c, wire.Marshal(req))
	require.Error(t, err, "a second entry must close the new connection")

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpErrorResponse, op)
	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeForbidden, er.Code)
	assert.Equal(t, "Account already in world.", er.Message)
}

func TestEnterWorldWithoutSnapshotRejected(t *testing.T) {
	f := newWorldFixture(t)
	f.store.mu.Lock()
	f.store.secrets[testSession(7)] = testUDPSecret
	f.store.mu.Unlock()
	c, client := worldConn(t)

	req := &wire.EnterWorldRequest{Token: f.mintToken(t, 7), CharacterID: 3}
	require.NoError(t, f.svc.handleEnterWorld(context.Background(), c, wire.Marshal(req)),
		"a missing snapshot keeps the connection open")

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpErrorResponse, op)
	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeBadRequest, er.Code)
	assert.Equal(t, "Select a character first.", er.Message)
	assert.NotEqual(t, gateway.StateInWorld, c.State())
}

func TestEnterWorldForeignCharacterRefused(t *testing.T) {
	f := newWorldFixture(t)
	ch := testCharacter()
	ch.AccountID = 99
	f.seedCharacter(ch)
	f.store.mu.Lock()
	f.store.secrets[testSession(7)] = testUDPSecret
	f.store.mu.Unlock()
	c, client := worldConn(t)

	req := &wire.EnterWorldRequest{Token: f.mintToken(t, 7), CharacterID: 3}
	err := f.svc.handleEnterWorld(context.Background(), c, wire.Marshal(req))
	require.Error(t, err)

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpErrorResponse, op)
	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeForbidden, er.Code)
	assert.Equal(t, "Character not available.", er.Message)
}

func TestEnterWorldBadTokenRefused(t *testing.T) {
	f := newWorldFixture(t)
	c, client := worldConn(t)

	req := &wire.EnterWorldRequest{Token: "not.a.token", CharacterID: 3}
	err := f.svc.handleEnterWorld(context.Background(), c, wire.Marshal(req))
	require.Error(t, err)

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpErrorResponse, op)
	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeUnauthorized, er.Code)
}

func TestEnterWorldStoreDownKeepsConnOpen(t *testing.T) {
	f := newWorldFixture(t)
	f.store.mu.Lock()
	f.store.fieldsErr = errors.New("connection refused")
	f.store.mu.Unlock()
	c, client := worldConn(t)

	req := &wire.EnterWorldRequest{Token: f.mintToken(t, 7), CharacterID: 3}
	require.NoError(t, f.svc.handleEnterWorld(context.Background(), c, wire.Marshal(req)))

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpErrorResponse, op)
	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeUnavailable, er.Code)
	assert.Equal(t, protocol.MsgUnavailable, er.Message)
}

func TestInputBeforeEntryRefused(t *testing.T) {
	f := newWorldFixture(t)
	c, client := worldConn(t)

	h := f.svc.queueing(protocol.OpMovementInput)
	err := h(context.Background(), c, wire.Marshal(&wire.MovementInput{DX: 1, Moving: true}))
	require.Error(t, err)

	op, payload := readWorldFrame(t, client)
	require.Equal(t, protocol.OpErrorResponse, op)
	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeUnauthorized, er.Code)
	assert.Equal(t, 0, f.svc.queue.Len(), "nothing may reach the queue")
}

func TestMovementAdvancesAndBroadcasts(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	other := testCharacter()
	other.ID, other.AccountID, other.Name = 4, 8, "Borin"
	other.Pos = model.Position{X: 510, Y: 0, Z: 500}
	b := f.enter(t, other)

	// A sees B spawn during B's entry tick.
	ev := readEntityEvent(t, a.client)
	require.NotNil(t, ev.Spawn)
	assert.Equal(t, "Borin", ev.Spawn.Name)

	f.send(t, a.conn, protocol.OpMovementInput, &wire.MovementInput{DX: 1, Moving: true})
	f.tick()

	p := f.player(t, 7)
	assert.Equal(t, float32(500.25), p.Pos.X, "walk speed 5 over one 50ms tick")
	assert.Equal(t, float32(500), p.Pos.Z)
	assert.True(t, p.Dirty)

	ev = readEntityEvent(t, b.client)
	require.NotNil(t, ev.Update)
	assert.Equal(t, int64(1), ev.Update.EntityID)
	assert.Equal(t, float32(500.25), ev.Update.X)
	assert.True(t, ev.Update.Moving)
}

func TestGroundedClimbGetsCorrection(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	f.send(t, a.conn, protocol.OpMovementInput, &wire.MovementInput{DY: 1, Moving: true})
	// 0.25 per tick; y may reach 1.0 but the first candidate above it
	// is refused with a correction.
	for range 5 {
		f.tick()
	}

	op, payload := readWorldFrame(t, a.client)
	require.Equal(t, protocol.OpPositionCorrection, op)
	var pc wire.PositionCorrection
	require.NoError(t, pc.Unmarshal(payload))
	assert.Equal(t, ReasonNoFlight, pc.Reason)
	assert.Equal(t, float32(500), pc.X)
	assert.Equal(t, float32(1.0), pc.Y, "climb stops at ground ceiling")

	p := f.player(t, 7)
	assert.Equal(t, float32(1.0), p.Pos.Y)
}

func TestAutoAttackKillsAwardsAndRespawns(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())
	wolf := findSpawn(t, &a.zone, wire.EntityKindMonster)

	f.send(t, a.conn, protocol.OpSelectTarget, &wire.SelectTarget{TargetEntityID: wolf.EntityID, AutoAttack: true})
	f.tick()

	ev := readEntityEvent(t, a.client)
	require.NotNil(t, ev.Damage, "attack power 41 against 30 hp kills in one swing")
	assert.Equal(t, int64(1), ev.Damage.AttackerID)
	assert.Equal(t, wolf.EntityID, ev.Damage.TargetID)
	assert.GreaterOrEqual(t, ev.Damage.Amount, int32(39))
	assert.LessOrEqual(t, ev.Damage.Amount, int32(64))
	assert.Equal(t, int32(0), ev.Damage.TargetHP)
	assert.True(t, ev.Damage.Killed)

	add := waitRecv(t, f.data.adds, "loot grant")
	assert.Equal(t, addItemCall{characterID: 3, itemID: 201, quantity: 1}, add)

	p := f.player(t, 7)
	assert.Equal(t, int64(120), p.XP, "kill pays the monster's xp reward")
	assert.True(t, p.Dirty)

	chn, ok := f.svc.zones.Channel(1, 0)
	require.True(t, ok)
	m, ok := chn.Monster(wolf.EntityID)
	require.True(t, ok)
	assert.Equal(t, AIDead, m.State)
	assert.Equal(t, int32(0), m.HP)

	f.clock.Advance(30 * time.Second)
	f.tick()

	ev = readEntityEvent(t, a.client)
	require.NotNil(t, ev.Spawn, "respawn is announced")
	assert.Equal(t, wolf.EntityID, ev.Spawn.EntityID)
	assert.Equal(t, int32(30), ev.Spawn.HP)
	assert.Equal(t, AIIdle, m.State)
	assert.Equal(t, int32(30), m.HP)
	assert.Equal(t, float32(502), m.Pos.X)
	assert.Equal(t, int64(0), m.LastAttackMs)
}

func TestDisconnectFlushSavesAndCleans(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	other := testCharacter()
	other.ID, other.AccountID, other.Name = 4, 8, "Borin"
	other.Pos = model.Position{X: 510, Y: 0, Z: 500}
	b := f.enter(t, other)
	readEntityEvent(t, a.client) // B's spawn

	f.svc.OnDisconnect(context.Background(), a.conn)
	f.tick()

	ev := readEntityEvent(t, b.client)
	require.NotNil(t, ev.Despawn)
	assert.Equal(t, int64(1), ev.Despawn.EntityID)

	saved := waitRecv(t, f.data.saves, "disconnect save")
	assert.Equal(t, int64(3), saved.ID)
	assert.Equal(t, "Falka", saved.Name)

	cleaned := waitRecv(t, f.store.cleanups, "disconnect cleanup")
	assert.Equal(t, cleanupCall{
		characterID: 3, accountID: 7,
		zoneID: 1, channelID: 0,
		sessionID: testSession(7),
	}, cleaned)

	_, stillThere := f.svc.entities.Load(int64(7))
	assert.False(t, stillThere)
	chn, _ := f.svc.zones.Channel(1, 0)
	assert.Equal(t, 1, chn.PlayerCount())

	select {
	case <-a.conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection not closed after flush")
	}
}

func TestChatEchoesToNeighborhood(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	other := testCharacter()
	other.ID, other.AccountID, other.Name = 4, 8, "Borin"
	other.Pos = model.Position{X: 510, Y: 0, Z: 500}
	b := f.enter(t, other)
	readEntityEvent(t, a.client) // B's spawn

	f.send(t, a.conn, protocol.OpChatMessage, &wire.ChatMessage{Text: "Hallo zusammen"})
	f.tick()

	for _, client := range []net.Conn{a.client, b.client} {
		op, payload := readWorldFrame(t, client)
		require.Equal(t, protocol.OpChatMessage, op)
		var msg wire.ChatMessage
		require.NoError(t, msg.Unmarshal(payload))
		assert.Equal(t, wire.ChatChannelLocal, msg.Channel)
		assert.Equal(t, int64(1), msg.SenderID)
		assert.Equal(t, "Falka", msg.SenderName)
		assert.Equal(t, "Hallo zusammen", msg.Text)
	}
}

func TestChatLengthValidation(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	for _, text := range []string{"", strings.Repeat("a", 513)} {
		f.send(t, a.conn, protocol.OpChatMessage, &wire.ChatMessage{Text: text})
		f.tick()

		op, payload := readWorldFrame(t, a.client)
		require.Equal(t, protocol.OpErrorResponse, op)
		var er wire.ErrorResponse
		require.NoError(t, er.Unmarshal(payload))
		assert.Equal(t, protocol.CodeBadRequest, er.Code)
	}
}

func TestChannelListReportsChannels(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	f.send(t, a.conn, protocol.OpChannelList, &wire.ChannelListRequest{})
	f.tick()

	op, payload := readWorldFrame(t, a.client)
	require.Equal(t, protocol.OpChannelList, op)
	var resp wire.ChannelListResponse
	require.NoError(t, resp.Unmarshal(payload))
	require.Len(t, resp.Channels, 1)
	assert.Equal(t, wire.ChannelInfo{ChannelID: 0, PlayerCount: 1, Capacity: 1000}, resp.Channels[0])
}

func TestChannelSwitchMovesPlayer(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	other := testCharacter()
	other.ID, other.AccountID, other.Name = 4, 8, "Borin"
	other.Pos = model.Position{X: 510, Y: 0, Z: 500}
	b := f.enter(t, other)
	readEntityEvent(t, a.client) // B's spawn

	f.send(t, a.conn, protocol.OpChannelSwitch, &wire.ChannelSwitchRequest{ChannelID: 1})
	f.tick()

	op, payload := readWorldFrame(t, a.client)
	require.Equal(t, protocol.OpChannelSwitch, op)
	var resp wire.ChannelSwitchResponse
	require.NoError(t, resp.Unmarshal(payload))
	require.True(t, resp.Ok, "message: %s", resp.Message)
	assert.Equal(t, int32(1), resp.ChannelID)

	op, payload = readWorldFrame(t, a.client)
	require.Equal(t, protocol.OpZoneData, op)
	var zone wire.ZoneData
	require.NoError(t, zone.Unmarshal(payload))
	assert.Equal(t, int32(1), zone.ChannelID)
	wolf := findSpawn(t, &zone, wire.EntityKindMonster)
	assert.Equal(t, "Waldwolf", wolf.Name, "the fresh channel has its own population")

	ev := readEntityEvent(t, b.client)
	require.NotNil(t, ev.Despawn)
	assert.Equal(t, int64(1), ev.Despawn.EntityID)

	sw := waitRecv(t, f.store.switches, "presence switch")
	assert.Equal(t, switchCall{characterID: 3, zoneID: 1, from: 0, to: 1}, sw)

	old, _ := f.svc.zones.Channel(1, 0)
	fresh, _ := f.svc.zones.Channel(1, 1)
	assert.Equal(t, 1, old.PlayerCount())
	assert.Equal(t, 1, fresh.PlayerCount())
}

func TestChannelSwitchUnknownChannelRefused(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	f.send(t, a.conn, protocol.OpChannelSwitch, &wire.ChannelSwitchRequest{ChannelID: 99})
	f.tick()

	op, payload := readWorldFrame(t, a.client)
	require.Equal(t, protocol.OpChannelSwitch, op)
	var resp wire.ChannelSwitchResponse
	require.NoError(t, resp.Unmarshal(payload))
	assert.False(t, resp.Ok)
	assert.Equal(t, "Channel not available.", resp.Message)
	assert.Equal(t, int32(0), resp.ChannelID)
}

func TestMoveItemRoundtrip(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	f.send(t, a.conn, protocol.OpMoveItem, &wire.MoveItemRequest{FromSlot: 0, ToSlot: 5})
	f.tick()

	moved := waitRecv(t, f.data.moves, "inventory move")
	assert.Equal(t, moveItemCall{characterID: 3, fromSlot: 0, toSlot: 5}, moved)

	op, payload := readWorldFrame(t, a.client)
	require.Equal(t, protocol.OpMoveItem, op)
	var resp wire.MoveItemResponse
	require.NoError(t, resp.Unmarshal(payload))
	assert.True(t, resp.Ok)
}

func TestMoveItemRejections(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"business rule", status.Error(codes.InvalidArgument, "Slot is empty."), "Slot is empty."},
		{"backend down", errors.New("connection refused"), protocol.MsgUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorldFixture(t)
			a := f.enter(t, testCharacter())
			f.data.setMoveErr(tt.err)

			f.send(t, a.conn, protocol.OpMoveItem, &wire.MoveItemRequest{FromSlot: 1, ToSlot: 2})
			f.tick()

			op, payload := readWorldFrame(t, a.client)
			require.Equal(t, protocol.OpMoveItem, op)
			var resp wire.MoveItemResponse
			require.NoError(t, resp.Unmarshal(payload))
			assert.False(t, resp.Ok)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestPeriodicPersistenceSnapshotsDirtyPlayers(t *testing.T) {
	f := newWorldFixture(t)
	a := f.enter(t, testCharacter())

	f.send(t, a.conn, protocol.OpMovementInput, &wire.MovementInput{DX: 1, Moving: true})
	f.tick()

	f.clock.Advance(61 * time.Second)
	f.tick()

	snap := waitRecv(t, f.store.snapshots, "periodic snapshot")
	assert.Equal(t, int64(3), snap.ID)
	assert.Equal(t, float32(500.5), snap.Pos.X, "two movement ticks landed before the snapshot")
	assert.Equal(t, int64(61), snap.PlayTime)

	p := f.player(t, 7)
	assert.False(t, p.Dirty, "snapshot clears the flag")
}
