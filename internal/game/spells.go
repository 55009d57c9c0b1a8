package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SpellKind is the closed set of spell behaviours. Adding a kind is a typed
// extension: ParseSpellKind and resolveCast both switch exhaustively.
type SpellKind int

const (
	SpellOffensive SpellKind = iota
	SpellAreaOffensive
	SpellHealing
)

func (k SpellKind) String() string {
	switch k {
	case SpellOffensive:
		return "offensive"
	case SpellAreaOffensive:
		return "area_offensive"
	case SpellHealing:
		return "healing"
	}
	return fmt.Sprintf("SpellKind(%d)", int(k))
}

// ParseSpellKind maps a configuration string onto a spell kind.
func ParseSpellKind(s string) (SpellKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "offensive":
		return SpellOffensive, nil
	case "area_offensive":
		return SpellAreaOffensive, nil
	case "healing":
		return SpellHealing, nil
	}
	return 0, fmt.Errorf("unknown spell type %q", s)
}

// SpellDefinition is the immutable description of a spell, loaded once at
// startup and shared by reference across all casts.
type SpellDefinition struct {
	Name           string
	Description    string
	ManaCost       int
	Kind           SpellKind
	RequiresTarget bool
	Multiplier     float64
	MinDamage      int
	MaxDamage      int
}

func (d *SpellDefinition) key() string { return strings.ToLower(d.Name) }

// Spell looks up a spell definition case-insensitively.
func (w *World) Spell(name string) (*SpellDefinition, bool) {
	def, ok := w.spells[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// Spells returns every spell definition, sorted by name.
func (w *World) Spells() []*SpellDefinition {
	out := make([]*SpellDefinition, 0, len(w.spells))
	for _, def := range w.spells {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LearnSpell adds a spell to the player's spellbook. Learning an unknown
// spell fails with ErrUnknownSpell; relearning is reported by the bool.
func (w *World) LearnSpell(p *Player, name string) (*SpellDefinition, bool, error) {
	def, ok := w.Spell(name)
	if !ok {
		return nil, false, ErrUnknownSpell
	}
	release, err := acquireAll(w.lockWait, p)
	if err != nil {
		return nil, false, err
	}
	defer release()
	if _, known := p.Spellbook[def.key()]; known {
		return def, false, nil
	}
	p.Spellbook[def.key()] = struct{}{}
	return def, true, nil
}

// TargetKind distinguishes the entities an effect landed on.
type TargetKind int

const (
	TargetSelf TargetKind = iota
	TargetNPC
	TargetPlayer
)

// CastEffect records one entity affected by a cast: the amount applied and
// the resulting state. Level is set for NPC targets so defeats can award
// experience after the fact.
type CastEffect struct {
	Kind      TargetKind
	Name      string
	Amount    int
	Remaining int
	Max       int
	Level     int
	Defeated  bool
}

// CastOutcome is the structured result of a resolved cast, consumed by the
// command layer to build response and broadcast text.
type CastOutcome struct {
	Spell     *SpellDefinition
	Caster    string
	Room      RoomID
	ManaSpent int
	ManaLeft  int
	Effects   []CastEffect
}

// castSnapshotHook runs between AoE target snapshot and lock acquisition.
// Tests replace it to interleave concurrent membership changes.
var castSnapshotHook = func() {}

// rollDamage draws the base roll and applies the multiplier, clamped at zero.
func (w *World) rollDamage(def *SpellDefinition) int {
	amount := int(math.Round(float64(w.roll(def.MinDamage, def.MaxDamage)) * def.Multiplier))
	if amount < 0 {
		amount = 0
	}
	return amount
}

// ResolveCast resolves a spell cast by the player. Validation runs in a fixed
// order: unknown spell, then unlearned spell, then insufficient mana, then
// target resolution. Mana is deducted atomically with the rest of the cast:
// any validation failure leaves the caster's mana untouched. Offensive casts
// require a co-located target;
// area casts hit every hostile NPC and every other player in the caster's
// room, skipping targets that vanish concurrently; healing casts restore the
// caster, capped at max health.
func (w *World) ResolveCast(caster *Player, spellName, targetName string) (*CastOutcome, error) {
	def, ok := w.Spell(spellName)
	if !ok {
		return nil, ErrUnknownSpell
	}
	switch def.Kind {
	case SpellOffensive:
		return w.castOffensive(caster, def, targetName)
	case SpellAreaOffensive:
		return w.castArea(caster, def)
	case SpellHealing:
		return w.castHealing(caster, def)
	}
	return nil, fmt.Errorf("unhandled spell kind %v", def.Kind)
}

// validateCasterLocked checks spellbook membership and mana. Caller holds the
// caster's lock; nothing is deducted here.
func validateCasterLocked(caster *Player, def *SpellDefinition) error {
	if !caster.Alive {
		return ErrNotOnline
	}
	if _, known := caster.Spellbook[def.key()]; !known {
		return ErrSpellNotKnown
	}
	if caster.Mana < def.ManaCost {
		return ErrInsufficientMana
	}
	return nil
}

// precheckCaster validates the caster under their own lock before any target
// work, so an unlearned or mana-starved cast fails on the spell, not the
// target. Nothing is deducted; the same checks rerun at deduction time under
// the combined lock set.
func (w *World) precheckCaster(caster *Player, def *SpellDefinition) (RoomID, error) {
	release, err := acquireAll(w.lockWait, caster)
	if err != nil {
		return "", err
	}
	defer release()
	if err := validateCasterLocked(caster, def); err != nil {
		return "", err
	}
	return caster.Room, nil
}

func (w *World) castHealing(caster *Player, def *SpellDefinition) (*CastOutcome, error) {
	release, err := acquireAll(w.lockWait, caster)
	if err != nil {
		return nil, err
	}
	defer release()
	if err := validateCasterLocked(caster, def); err != nil {
		return nil, err
	}
	caster.Mana -= def.ManaCost
	healed := w.rollDamage(def)
	if caster.Health+healed > caster.MaxHealth {
		healed = caster.MaxHealth - caster.Health
	}
	caster.Health += healed
	return &CastOutcome{
		Spell:     def,
		Caster:    caster.Name,
		Room:      caster.Room,
		ManaSpent: def.ManaCost,
		ManaLeft:  caster.Mana,
		Effects: []CastEffect{{
			Kind:      TargetSelf,
			Name:      caster.Name,
			Amount:    healed,
			Remaining: caster.Health,
			Max:       caster.MaxHealth,
		}},
	}, nil
}

func (w *World) castOffensive(caster *Player, def *SpellDefinition, targetName string) (*CastOutcome, error) {
	roomID, err := w.precheckCaster(caster, def)
	if err != nil {
		return nil, err
	}
	if def.RequiresTarget && strings.TrimSpace(targetName) == "" {
		return nil, ErrNoTarget
	}
	r, ok := w.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("unknown room: %s", roomID)
	}

	if npc, err := w.findRoomNPC(r, targetName); err == nil {
		return w.castOffensiveNPC(caster, def, r, npc)
	}
	target, err := w.findRoomPlayer(roomID, targetName, caster)
	if err != nil {
		return nil, ErrNoTarget
	}
	return w.castOffensivePlayer(caster, def, r, target)
}

func (w *World) castOffensiveNPC(caster *Player, def *SpellDefinition, r *Room, npc *NPC) (*CastOutcome, error) {
	release, err := acquireAll(w.lockWait, caster, r, npc)
	if err != nil {
		return nil, err
	}
	if caster.Room != r.ID {
		release()
		return nil, ErrContended
	}
	if _, present := r.npcs[npc.ID]; !present || npc.Health <= 0 {
		release()
		return nil, ErrNoTarget
	}
	if !npc.Hostile {
		release()
		return nil, ErrNoTarget
	}
	if err := validateCasterLocked(caster, def); err != nil {
		release()
		return nil, err
	}
	caster.Mana -= def.ManaCost
	outcome := &CastOutcome{
		Spell:     def,
		Caster:    caster.Name,
		Room:      r.ID,
		ManaSpent: def.ManaCost,
		ManaLeft:  caster.Mana,
	}
	outcome.Effects = append(outcome.Effects, w.damageNPCLocked(r, npc, w.rollDamage(def)))
	defeated := outcome.Effects[0].Defeated
	release()
	if defeated {
		w.removeNPC(npc.ID)
	}
	return outcome, nil
}

// damageNPCLocked applies damage to an NPC whose lock (and room lock) the
// caller holds, removing it from the room membership set on death. Structural
// registry removal happens after locks are released.
func (w *World) damageNPCLocked(r *Room, npc *NPC, damage int) CastEffect {
	if damage > npc.Health {
		damage = npc.Health
	}
	npc.Health -= damage
	defeated := npc.Health <= 0
	if defeated {
		npc.Health = 0
		delete(r.npcs, npc.ID)
	}
	return CastEffect{
		Kind:      TargetNPC,
		Name:      npc.Name,
		Amount:    damage,
		Remaining: npc.Health,
		Max:       npc.MaxHealth,
		Level:     npc.Level,
		Defeated:  defeated,
	}
}

func (w *World) castOffensivePlayer(caster *Player, def *SpellDefinition, r *Room, target *Player) (*CastOutcome, error) {
	home := w.rooms[w.start]
	release, err := acquireAll(w.lockWait, caster, target, r, home)
	if err != nil {
		return nil, err
	}
	if caster.Room != r.ID {
		release()
		return nil, ErrContended
	}
	if !target.Alive || target.Room != r.ID {
		release()
		return nil, ErrNoTarget
	}
	if err := validateCasterLocked(caster, def); err != nil {
		release()
		return nil, err
	}
	caster.Mana -= def.ManaCost
	outcome := &CastOutcome{
		Spell:     def,
		Caster:    caster.Name,
		Room:      r.ID,
		ManaSpent: def.ManaCost,
		ManaLeft:  caster.Mana,
	}
	outcome.Effects = append(outcome.Effects, w.damagePlayerLocked(r, home, target, w.rollDamage(def)))
	release()
	return outcome, nil
}

// damagePlayerLocked applies damage to a player whose lock (plus the room and
// start-room locks) the caller holds. A defeated player is moved to the start
// room with health and mana restored.
func (w *World) damagePlayerLocked(r, home *Room, target *Player, damage int) CastEffect {
	if damage > target.Health {
		damage = target.Health
	}
	target.Health -= damage
	defeated := target.Health <= 0
	effect := CastEffect{
		Kind:      TargetPlayer,
		Name:      target.Name,
		Amount:    damage,
		Remaining: target.Health,
		Max:       target.MaxHealth,
		Defeated:  defeated,
	}
	if defeated {
		if r != nil {
			delete(r.players, target.Name)
		}
		if home != nil {
			home.players[target.Name] = struct{}{}
			target.Room = home.ID
		}
		target.Health = target.MaxHealth
		target.Mana = target.MaxMana
	}
	return effect
}

// castArea resolves a room-scoped area spell. The target set is every hostile
// NPC and every other player co-located with the caster; all are resolved as
// a single logical operation. Targets that vanish between snapshot and lock
// acquisition are skipped without aborting the rest.
func (w *World) castArea(caster *Player, def *SpellDefinition) (*CastOutcome, error) {
	roomID, err := w.precheckCaster(caster, def)
	if err != nil {
		return nil, err
	}
	r, ok := w.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("unknown room: %s", roomID)
	}

	if !r.lk.acquire(w.lockWait) {
		return nil, ErrContended
	}
	npcIDs := make([]string, 0, len(r.npcs))
	for id := range r.npcs {
		npcIDs = append(npcIDs, id)
	}
	playerNames := make([]string, 0, len(r.players))
	for name := range r.players {
		playerNames = append(playerNames, name)
	}
	r.lk.release()
	sort.Strings(npcIDs)
	sort.Strings(playerNames)

	w.mu.RLock()
	npcTargets := make([]*NPC, 0, len(npcIDs))
	for _, id := range npcIDs {
		if npc, ok := w.npcs[id]; ok && npc.Hostile {
			npcTargets = append(npcTargets, npc)
		}
	}
	playerTargets := make([]*Player, 0, len(playerNames))
	for _, name := range playerNames {
		if p, ok := w.players[name]; ok && p != caster && p.Alive {
			playerTargets = append(playerTargets, p)
		}
	}
	w.mu.RUnlock()

	if len(npcTargets)+len(playerTargets) == 0 {
		return nil, ErrNoTarget
	}

	castSnapshotHook()

	home := w.rooms[w.start]
	locks := make([]locker, 0, len(npcTargets)+len(playerTargets)+3)
	locks = append(locks, caster, r, home)
	for _, npc := range npcTargets {
		locks = append(locks, npc)
	}
	for _, p := range playerTargets {
		locks = append(locks, p)
	}
	release, err := acquireAll(w.lockWait, locks...)
	if err != nil {
		return nil, err
	}
	if caster.Room != r.ID {
		release()
		return nil, ErrContended
	}
	if err := validateCasterLocked(caster, def); err != nil {
		release()
		return nil, err
	}
	caster.Mana -= def.ManaCost
	outcome := &CastOutcome{
		Spell:     def,
		Caster:    caster.Name,
		Room:      r.ID,
		ManaSpent: def.ManaCost,
		ManaLeft:  caster.Mana,
	}
	defeatedNPCs := make([]string, 0, len(npcTargets))
	for _, npc := range npcTargets {
		if _, present := r.npcs[npc.ID]; !present || npc.Health <= 0 {
			continue
		}
		effect := w.damageNPCLocked(r, npc, w.rollDamage(def))
		outcome.Effects = append(outcome.Effects, effect)
		if effect.Defeated {
			defeatedNPCs = append(defeatedNPCs, npc.ID)
		}
	}
	for _, p := range playerTargets {
		if !p.Alive || p.Room != r.ID {
			continue
		}
		if _, present := r.players[p.Name]; !present {
			continue
		}
		outcome.Effects = append(outcome.Effects, w.damagePlayerLocked(r, home, p, w.rollDamage(def)))
	}
	release()
	for _, id := range defeatedNPCs {
		w.removeNPC(id)
	}
	return outcome, nil
}
