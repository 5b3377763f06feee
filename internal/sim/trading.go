package sim

import (
	"errors"
	"math"
)

// Harbor geometry and trading gates.
const (
	// HarborSize is the collision diameter of a harbor, in meters.
	HarborSize = 2.0

	// HarborEffectRadius is the distance within which a harbor serves a
	// ship: trading becomes available and docking can hold the ship.
	HarborEffectRadius = 2 * HarborSize

	// HarborMaxSpeed is the ground speed ceiling for trading operations,
	// independent of docking.
	HarborMaxSpeed = 0.5
)

// Trading operation failures, turned into player feedback by the
// presentation layer. The core never panics for these.
var (
	// ErrNotDocked means the ship is moving too fast to trade.
	ErrNotDocked = errors.New("sim: too fast to trade, slow down first")
	// ErrInsufficientFunds means the player cannot afford the upgrade.
	ErrInsufficientFunds = errors.New("sim: insufficient funds")
	// ErrMaxLevel means the upgrade chain is already at its top.
	ErrMaxLevel = errors.New("sim: already at maximum level")
)

// TradeOption is a transient trading handle bound to one harbor by index.
// It re-derives every price and limit from current state on each call, so a
// handle holds no monetary state of its own. A handle must not outlive the
// logical operation it was obtained for.
type TradeOption struct {
	state *WorldState
	// HarborIndex is the stable index of the harbor being traded with.
	HarborIndex int
}

// GetTrading returns a trading handle for the nearest harbor within the
// effect radius, or nil when no harbor is in range. Ties are broken by
// strict distance comparison, so the first of two equidistant harbors wins.
func (ws *WorldState) GetTrading(init *WorldInit) *TradeOption {
	pos := ws.Player.Vehicle.Pos

	best := -1
	bestDist := float32(math.Inf(1))
	for i := range ws.Harbors {
		d := init.Terrain.TorusDistance(pos, ws.Harbors[i].Loc).Magnitude()
		if d < HarborEffectRadius && d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return nil
	}
	return &TradeOption{state: ws, HarborIndex: best}
}

// slowEnough reports whether the ship satisfies the trading speed gate.
func (t *TradeOption) slowEnough() bool {
	return t.state.Player.Vehicle.GroundSpeed() <= HarborMaxSpeed
}

// SellFish sells up to amount kg of carried cargo at its proportional
// value. It returns the amount actually sold and true, or zero and false
// when the ship is too fast to trade. Money saturates at the maximum
// instead of wrapping; selling zero is a no-op that still succeeds.
func (t *TradeOption) SellFish(amount uint32) (uint32, bool) {
	if !t.slowEnough() {
		return 0, false
	}

	v := &t.state.Player.Vehicle
	if amount > v.ResourceWeight {
		amount = v.ResourceWeight
	}
	if amount == 0 {
		return 0, true
	}

	// Proportional value of the sold share of the cargo.
	value := v.ResourceValue * uint64(amount) / uint64(v.ResourceWeight)

	v.ResourceWeight -= amount
	v.ResourceValue -= value
	t.state.Player.Money = saturatingAdd(t.state.Player.Money, value)

	return amount, true
}

// UpgradeSail advances the rig exactly one step in the upgrade chain,
// debiting the fixed price.
func (t *TradeOption) UpgradeSail() error {
	if !t.slowEnough() {
		return ErrNotDocked
	}

	v := &t.state.Player.Vehicle
	next, ok := v.Sail.Kind.Next()
	if !ok {
		return ErrMaxLevel
	}
	price := next.Price()
	if t.state.Player.Money < price {
		return ErrInsufficientFunds
	}

	t.state.Player.Money -= price
	v.Sail.Kind = next
	return nil
}

// UpgradeHull advances the hull exactly one step in the upgrade chain,
// debiting the fixed price.
func (t *TradeOption) UpgradeHull() error {
	if !t.slowEnough() {
		return ErrNotDocked
	}

	v := &t.state.Player.Vehicle
	next, ok := v.Hull.Next()
	if !ok {
		return ErrMaxLevel
	}
	price := next.Price()
	if t.state.Player.Money < price {
		return ErrInsufficientFunds
	}

	t.state.Player.Money -= price
	v.Hull = next
	return nil
}

// saturatingAdd adds b to a, sticking at the maximum instead of wrapping.
func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
