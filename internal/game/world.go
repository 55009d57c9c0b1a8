package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// World owns the canonical game state: rooms, items, NPCs, spells, and the
// set of connected players. Rooms, item definitions, and spell definitions
// are immutable after LoadWorld; room membership and entity fields are
// guarded by per-entity locks acquired in a fixed global order (see locks.go),
// and the registry mutex guards only structural add/remove of players and
// NPCs. The registry mutex and entity locks never nest.
type World struct {
	rooms  map[RoomID]*Room
	items  map[string]ItemDef
	spells map[string]*SpellDefinition
	start  RoomID

	mu          sync.RWMutex
	players     map[string]*Player
	npcs        map[string]*NPC
	playerOrder []string

	lockWait time.Duration

	// roll draws a uniform integer in [min,max]. Replaced in tests for
	// deterministic damage.
	roll func(min, max int) int
}

func randRoll(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// StartRoom is the entry point for new players.
func (w *World) StartRoom() RoomID { return w.start }

// SetLockWait overrides the bounded wait used for entity lock acquisition.
func (w *World) SetLockWait(d time.Duration) {
	if d > 0 {
		w.lockWait = d
	}
}

// Room returns the static room record for an identifier. Rooms live for the
// process lifetime, so the pointer is stable; membership reads still require
// the room lock.
func (w *World) Room(id RoomID) (*Room, bool) {
	r, ok := w.rooms[id]
	return r, ok
}

// --- registry (structural) operations -----------------------------------

// AddPlayer registers a connecting player built from the provided profile and
// places them into their saved room (or the start room). A live session under
// the same name is rejected; a dead one is revived in place.
func (w *World) AddPlayer(name, sessionID string, isAdmin bool, profile Profile) (*Player, error) {
	room := profile.Room
	if _, ok := w.rooms[room]; !ok || room == "" {
		room = w.start
	}

	w.mu.Lock()
	if existing, ok := w.players[name]; ok {
		if existing.Alive {
			w.mu.Unlock()
			return nil, fmt.Errorf("%s: %w", name, ErrAlreadyConnected)
		}
		delete(w.players, name)
		w.removePlayerOrderLocked(name)
	}
	p := &Player{
		Name:       name,
		SessionID:  sessionID,
		Room:       room,
		Output:     make(chan Event, 32),
		done:       make(chan struct{}),
		Alive:      true,
		IsAdmin:    isAdmin,
		Health:     profile.Health,
		MaxHealth:  profile.MaxHealth,
		Mana:       profile.Mana,
		MaxMana:    profile.MaxMana,
		Attack:     profile.Attack,
		Defense:    profile.Defense,
		Level:      profile.Level,
		Experience: profile.Experience,
		Inventory:  append([]string(nil), profile.Inventory...),
		Spellbook:  make(map[string]struct{}, len(profile.Spells)),
		lk:         newEntityLock(),
	}
	for _, s := range profile.Spells {
		p.Spellbook[strings.ToLower(s)] = struct{}{}
	}
	p.ensureStatsLocked()
	w.players[name] = p
	w.playerOrder = append(w.playerOrder, name)
	w.mu.Unlock()

	if r := w.rooms[room]; r != nil {
		if r.lk.acquire(w.lockWait) {
			r.players[name] = struct{}{}
			r.lk.release()
		}
	}
	return p, nil
}

// RemovePlayer retires a player from the live world. Subsequent damage or
// broadcasts aimed at the name are benign no-ops.
func (w *World) RemovePlayer(name string) {
	w.mu.Lock()
	p, ok := w.players[name]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.players, name)
	w.removePlayerOrderLocked(name)
	w.mu.Unlock()

	var room RoomID
	if p.lk.acquire(w.lockWait) {
		p.Alive = false
		room = p.Room
		p.lk.release()
	} else {
		p.Alive = false
		room = p.Room
	}
	if r := w.rooms[room]; r != nil {
		if r.lk.acquire(w.lockWait) {
			delete(r.players, name)
			r.lk.release()
		}
	}
	if p.done != nil {
		close(p.done)
	}
}

func (w *World) removePlayerOrderLocked(name string) {
	for i, n := range w.playerOrder {
		if n == name {
			w.playerOrder = append(w.playerOrder[:i], w.playerOrder[i+1:]...)
			return
		}
	}
}

func (w *World) removeNPC(id string) {
	w.mu.Lock()
	delete(w.npcs, id)
	w.mu.Unlock()
}

// ActivePlayer returns the currently connected player with the provided name.
func (w *World) ActivePlayer(name string) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[name]
	if !ok || !p.Alive {
		return nil, false
	}
	return p, true
}

// ListPlayers returns the names of connected players in join order, optionally
// restricted to one room.
func (w *World) ListPlayers(roomOnly bool, room RoomID) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.playerOrder))
	for _, name := range w.playerOrder {
		p, ok := w.players[name]
		if !ok || !p.Alive {
			continue
		}
		if roomOnly && p.Room != room {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

// PlayersInRoom returns a consistent copy of a room's player membership set.
func (w *World) PlayersInRoom(room RoomID) []string {
	r, ok := w.rooms[room]
	if !ok {
		return nil
	}
	if !r.lk.acquire(w.lockWait) {
		return nil
	}
	names := make([]string, 0, len(r.players))
	for name := range r.players {
		names = append(names, name)
	}
	r.lk.release()
	sort.Strings(names)
	return names
}

// --- movement -------------------------------------------------------------

// MovePlayer relocates the player through a room exit. On success the player
// is a member of exactly one room's membership set. Fails with ErrNoSuchExit
// when the direction has no mapped neighbour.
func (w *World) MovePlayer(p *Player, dir string) (RoomID, error) {
	for attempt := 0; attempt < 2; attempt++ {
		release, err := acquireAll(w.lockWait, p)
		if err != nil {
			return "", err
		}
		if !p.Alive {
			release()
			return "", ErrNotOnline
		}
		fromID := p.Room
		release()

		from, ok := w.rooms[fromID]
		if !ok {
			return "", fmt.Errorf("unknown room: %s", fromID)
		}
		dest, ok := from.Exits[dir]
		if !ok {
			return "", ErrNoSuchExit
		}
		to, ok := w.rooms[dest]
		if !ok {
			return "", fmt.Errorf("exit %s leads to unknown room: %s", dir, dest)
		}

		release, err = acquireAll(w.lockWait, p, from, to)
		if err != nil {
			return "", err
		}
		if p.Room != fromID {
			// Moved concurrently between phases; re-resolve.
			release()
			continue
		}
		delete(from.players, p.Name)
		to.players[p.Name] = struct{}{}
		p.Room = to.ID
		release()
		return to.ID, nil
	}
	return "", ErrContended
}

// MoveToRoom teleports the player to the specified room, bypassing exits.
func (w *World) MoveToRoom(p *Player, dest RoomID) error {
	to, ok := w.rooms[dest]
	if !ok {
		return fmt.Errorf("unknown room: %s", dest)
	}
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return err
	}
	fromID := p.Room
	release()
	from := w.rooms[fromID]

	release, err = acquireAll(w.lockWait, p, from, to)
	if err != nil {
		return err
	}
	defer release()
	if from != nil {
		delete(from.players, p.Name)
	}
	to.players[p.Name] = struct{}{}
	p.Room = to.ID
	return nil
}

// --- items ----------------------------------------------------------------

// PlaceItem adds an item instance to a room's floor.
func (w *World) PlaceItem(room RoomID, itemID string) error {
	r, ok := w.rooms[room]
	if !ok {
		return fmt.Errorf("unknown room: %s", room)
	}
	if _, ok := w.items[itemID]; !ok {
		return ErrItemNotFound
	}
	release, err := acquireAll(w.lockWait, r)
	if err != nil {
		return err
	}
	defer release()
	r.items = append(r.items, itemID)
	return nil
}

// RemoveItem removes one instance of an item from a room's floor.
func (w *World) RemoveItem(room RoomID, itemID string) error {
	r, ok := w.rooms[room]
	if !ok {
		return fmt.Errorf("unknown room: %s", room)
	}
	release, err := acquireAll(w.lockWait, r)
	if err != nil {
		return err
	}
	defer release()
	for i, id := range r.items {
		if id == itemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// TakeItem moves an item from the player's current room into their inventory.
func (w *World) TakeItem(p *Player, name string) (ItemDef, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		return ItemDef{}, ErrItemNotFound
	}
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return ItemDef{}, err
	}
	roomID := p.Room
	alive := p.Alive
	release()
	if !alive {
		return ItemDef{}, ErrNotOnline
	}
	r, ok := w.rooms[roomID]
	if !ok {
		return ItemDef{}, fmt.Errorf("unknown room: %s", roomID)
	}

	release, err = acquireAll(w.lockWait, p, r)
	if err != nil {
		return ItemDef{}, err
	}
	defer release()
	if p.Room != roomID {
		return ItemDef{}, ErrContended
	}
	idx, def, ok := w.matchItemLocked(r.items, target)
	if !ok {
		return ItemDef{}, ErrItemNotFound
	}
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	p.Inventory = append(p.Inventory, def.ID)
	return def, nil
}

// DropItem places an item from the player's inventory onto the room floor.
func (w *World) DropItem(p *Player, name string) (ItemDef, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		return ItemDef{}, ErrItemNotCarried
	}
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return ItemDef{}, err
	}
	roomID := p.Room
	release()
	r, ok := w.rooms[roomID]
	if !ok {
		return ItemDef{}, fmt.Errorf("unknown room: %s", roomID)
	}

	release, err = acquireAll(w.lockWait, p, r)
	if err != nil {
		return ItemDef{}, err
	}
	defer release()
	if p.Room != roomID {
		return ItemDef{}, ErrContended
	}
	idx, def, ok := w.matchItemLocked(p.Inventory, target)
	if !ok {
		return ItemDef{}, ErrItemNotCarried
	}
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	r.items = append(r.items, def.ID)
	return def, nil
}

// UseItem consumes a restorative item from the player's inventory and applies
// its healing, capped at max health. An item with no restorative effect is
// reported without being consumed.
func (w *World) UseItem(p *Player, name string) (ItemDef, int, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		return ItemDef{}, 0, ErrItemNotCarried
	}
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return ItemDef{}, 0, err
	}
	defer release()
	if !p.Alive {
		return ItemDef{}, 0, ErrNotOnline
	}
	idx, def, ok := w.matchItemLocked(p.Inventory, target)
	if !ok {
		return ItemDef{}, 0, ErrItemNotCarried
	}
	if def.Heal <= 0 {
		return def, 0, nil
	}
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	healed := def.Heal
	if p.Health+healed > p.MaxHealth {
		healed = p.MaxHealth - p.Health
	}
	p.Health += healed
	return def, healed, nil
}

func (w *World) matchItemLocked(ids []string, target string) (int, ItemDef, bool) {
	names := make([]string, len(ids))
	for i, id := range ids {
		if def, ok := w.items[id]; ok {
			names[i] = def.Name
		}
	}
	idx, _, ok := matchName(target, names, true)
	if !ok {
		return -1, ItemDef{}, false
	}
	def := w.items[ids[idx]]
	return idx, def, true
}

// --- damage and healing ---------------------------------------------------

// NPCDamageResult describes the outcome of damaging an NPC.
type NPCDamageResult struct {
	NPC      NPCSnapshot
	Damage   int
	Defeated bool
}

// PlayerDamageResult describes the outcome of damaging a player.
type PlayerDamageResult struct {
	Target    *Player
	Name      string
	Damage    int
	Remaining int
	Defeated  bool
	Room      RoomID
}

// ApplyDamageToNPC reduces the health of a named NPC located in the room.
// Damage never lowers health below zero; at zero the NPC is removed from the
// room and the world. A target that vanished concurrently yields
// ErrTargetGone.
func (w *World) ApplyDamageToNPC(room RoomID, name string, damage int) (*NPCDamageResult, error) {
	if damage < 0 {
		damage = 0
	}
	r, ok := w.rooms[room]
	if !ok {
		return nil, fmt.Errorf("unknown room: %s", room)
	}
	npc, err := w.findRoomNPC(r, name)
	if err != nil {
		return nil, err
	}
	release, err := acquireAll(w.lockWait, r, npc)
	if err != nil {
		return nil, err
	}
	if _, present := r.npcs[npc.ID]; !present {
		release()
		return nil, ErrTargetGone
	}
	if damage > npc.Health {
		damage = npc.Health
	}
	npc.Health -= damage
	defeated := npc.Health <= 0
	if defeated {
		npc.Health = 0
		delete(r.npcs, npc.ID)
	}
	result := &NPCDamageResult{NPC: npc.snapshotLocked(), Damage: damage, Defeated: defeated}
	release()
	if defeated {
		w.removeNPC(npc.ID)
	}
	return result, nil
}

// MeleeAttackNPC resolves one melee swing by the player against a named NPC
// in their room. The damage roll uses the attacker's attack stat against the
// NPC's defense.
func (w *World) MeleeAttackNPC(p *Player, name string) (*NPCDamageResult, error) {
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return nil, err
	}
	if !p.Alive {
		release()
		return nil, ErrNotOnline
	}
	roomID := p.Room
	attack := p.Attack
	release()

	r, ok := w.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("unknown room: %s", roomID)
	}
	npc, err := w.findRoomNPC(r, name)
	if err != nil {
		return nil, err
	}
	release, err = acquireAll(w.lockWait, r, npc)
	if err != nil {
		return nil, err
	}
	if _, present := r.npcs[npc.ID]; !present || npc.Health <= 0 {
		release()
		return nil, ErrTargetGone
	}
	damage := w.MeleeDamage(attack, npc.Defense)
	if damage > npc.Health {
		damage = npc.Health
	}
	npc.Health -= damage
	defeated := npc.Health <= 0
	if defeated {
		npc.Health = 0
		delete(r.npcs, npc.ID)
	}
	result := &NPCDamageResult{NPC: npc.snapshotLocked(), Damage: damage, Defeated: defeated}
	release()
	if defeated {
		w.removeNPC(npc.ID)
	}
	return result, nil
}

// DamagePlayer applies damage to a player directly, used for NPC retaliation.
// A defeated player is returned to the start room with restored health and
// mana.
func (w *World) DamagePlayer(target *Player, damage int) (*PlayerDamageResult, error) {
	if damage < 0 {
		damage = 0
	}
	release, err := acquireAll(w.lockWait, target)
	if err != nil {
		return nil, err
	}
	if !target.Alive {
		release()
		return nil, ErrNotOnline
	}
	room := target.Room
	release()
	return w.damagePlayer(target, room, damage)
}

// TalkToNPC resolves a conversational exchange: the named NPC in the player's
// room is located and snapshotted so the command layer can voice its greeting.
func (w *World) TalkToNPC(p *Player, name string) (NPCSnapshot, error) {
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return NPCSnapshot{}, err
	}
	roomID := p.Room
	alive := p.Alive
	release()
	if !alive {
		return NPCSnapshot{}, ErrNotOnline
	}
	r, ok := w.rooms[roomID]
	if !ok {
		return NPCSnapshot{}, fmt.Errorf("unknown room: %s", roomID)
	}
	npc, err := w.findRoomNPC(r, name)
	if err != nil {
		return NPCSnapshot{}, err
	}
	release, err = acquireAll(w.lockWait, r, npc)
	if err != nil {
		return NPCSnapshot{}, err
	}
	defer release()
	if _, present := r.npcs[npc.ID]; !present || npc.Health <= 0 {
		return NPCSnapshot{}, ErrTargetGone
	}
	return npc.snapshotLocked(), nil
}

// findRoomNPC resolves an NPC in the room by name. The returned pointer must
// be re-validated against the room's membership set under lock before use.
func (w *World) findRoomNPC(r *Room, name string) (*NPC, error) {
	if !r.lk.acquire(w.lockWait) {
		return nil, ErrContended
	}
	ids := make([]string, 0, len(r.npcs))
	for id := range r.npcs {
		ids = append(ids, id)
	}
	r.lk.release()

	w.mu.RLock()
	candidates := make([]*NPC, 0, len(ids))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if npc, ok := w.npcs[id]; ok {
			candidates = append(candidates, npc)
			names = append(names, npc.Name)
		}
	}
	w.mu.RUnlock()

	idx, _, ok := matchName(name, names, true)
	if !ok {
		return nil, ErrNoTarget
	}
	return candidates[idx], nil
}

// RoomNPCs returns snapshots of the NPCs present in a room.
func (w *World) RoomNPCs(room RoomID) []NPCSnapshot {
	r, ok := w.rooms[room]
	if !ok {
		return nil
	}
	if !r.lk.acquire(w.lockWait) {
		return nil
	}
	ids := make([]string, 0, len(r.npcs))
	for id := range r.npcs {
		ids = append(ids, id)
	}
	r.lk.release()
	sort.Strings(ids)

	w.mu.RLock()
	npcs := make([]*NPC, 0, len(ids))
	for _, id := range ids {
		if npc, ok := w.npcs[id]; ok {
			npcs = append(npcs, npc)
		}
	}
	w.mu.RUnlock()

	out := make([]NPCSnapshot, 0, len(npcs))
	for _, npc := range npcs {
		if npc.lk.acquire(w.lockWait) {
			out = append(out, npc.snapshotLocked())
			npc.lk.release()
		}
	}
	return out
}

func (w *World) findRoomPlayer(room RoomID, name string, exclude *Player) (*Player, error) {
	members := w.PlayersInRoom(room)
	w.mu.RLock()
	candidates := make([]*Player, 0, len(members))
	names := make([]string, 0, len(members))
	for _, n := range members {
		p, ok := w.players[n]
		if !ok || !p.Alive || p == exclude {
			continue
		}
		candidates = append(candidates, p)
		names = append(names, p.Name)
	}
	w.mu.RUnlock()
	idx, _, ok := matchName(name, names, false)
	if !ok {
		return nil, ErrNoTarget
	}
	return candidates[idx], nil
}

// damagePlayer applies damage to a player expected to be in room. Handles the
// defeat path: relocation to the start room with full restoration.
func (w *World) damagePlayer(target *Player, room RoomID, damage int) (*PlayerDamageResult, error) {
	from := w.rooms[room]
	home := w.rooms[w.start]
	release, err := acquireAll(w.lockWait, target, from, home)
	if err != nil {
		return nil, err
	}
	defer release()
	if !target.Alive || target.Room != room {
		return nil, ErrTargetGone
	}
	if damage > target.Health {
		damage = target.Health
	}
	target.Health -= damage
	defeated := target.Health <= 0
	result := &PlayerDamageResult{
		Target:    target,
		Name:      target.Name,
		Damage:    damage,
		Remaining: target.Health,
		Defeated:  defeated,
		Room:      room,
	}
	if defeated {
		if from != nil {
			delete(from.players, target.Name)
		}
		if home != nil {
			home.players[target.Name] = struct{}{}
			target.Room = home.ID
		}
		target.Health = target.MaxHealth
		target.Mana = target.MaxMana
	}
	return result, nil
}

// ApplyHealing restores health to the player, capped at max health. Returns
// the amount actually healed.
func (w *World) ApplyHealing(p *Player, amount int) (int, error) {
	if amount < 0 {
		amount = 0
	}
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return 0, err
	}
	defer release()
	if !p.Alive {
		return 0, ErrNotOnline
	}
	healed := amount
	if p.Health+healed > p.MaxHealth {
		healed = p.MaxHealth - p.Health
	}
	p.Health += healed
	return healed, nil
}

// AwardExperience grants experience to a player and reports level gains.
func (w *World) AwardExperience(p *Player, amount int) int {
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return 0
	}
	defer release()
	return p.gainExperienceLocked(amount)
}

// MeleeDamage computes a melee swing: the attacker's attack stat scaled by a
// small uniform roll, reduced by the defender's defense, clamped at zero.
func (w *World) MeleeDamage(attack, defense int) int {
	dmg := attack + w.roll(0, attack) - defense/2
	if dmg < 0 {
		dmg = 0
	}
	return dmg
}

// --- views and broadcast --------------------------------------------------

// Snapshot returns a consistent copy of the player's own state.
func (w *World) Snapshot(p *Player) (PlayerSnapshot, error) {
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return PlayerSnapshot{}, err
	}
	defer release()
	return p.snapshotLocked(), nil
}

// View renders a consistent look at the player's current room.
func (w *World) View(p *Player) (RoomView, error) {
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return RoomView{}, err
	}
	roomID := p.Room
	release()

	r, ok := w.rooms[roomID]
	if !ok {
		return RoomView{}, fmt.Errorf("unknown room: %s", roomID)
	}
	view := RoomView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
	}
	for dir := range r.Exits {
		view.Exits = append(view.Exits, dir)
	}
	sort.Strings(view.Exits)

	if !r.lk.acquire(w.lockWait) {
		return RoomView{}, ErrContended
	}
	for name := range r.players {
		view.Players = append(view.Players, name)
	}
	view.Items = append(view.Items, w.itemNames(r.items)...)
	r.lk.release()
	sort.Strings(view.Players)

	view.NPCs = w.RoomNPCs(roomID)
	return view, nil
}

// Send delivers an event to one player without blocking.
func (w *World) Send(p *Player, ev Event) {
	deliver(p, ev)
}

// BroadcastToRoom delivers an event to every living player in the room except
// the sender. Delivery never blocks; players who vanished concurrently are
// skipped.
func (w *World) BroadcastToRoom(room RoomID, ev Event, except *Player) {
	names := w.PlayersInRoom(room)
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, name := range names {
		p, ok := w.players[name]
		if !ok || p == except || !p.Alive {
			continue
		}
		deliver(p, ev)
	}
}

// BroadcastToAll delivers an event to every living player in the world.
func (w *World) BroadcastToAll(ev Event, except *Player) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.players {
		if p == except || !p.Alive {
			continue
		}
		deliver(p, ev)
	}
}
