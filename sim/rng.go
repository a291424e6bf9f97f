package sim

import (
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration MUST
// produce bit-for-bit identical metric records.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemRate returns the RNG subsystem name for a flow's rate sampling.
// Each flow draws from its own stream so that adding a distribution to one
// flow cannot shift the samples seen by another.
func SubsystemRate(flowID string) string {
	return "rate/" + flowID
}

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
//
// Derivation: masterSeed XOR fnv1a64(subsystemName). The same subsystem name
// always returns the same *rand.Rand instance (cached).
//
// Thread-safety: NOT thread-safe. A run is single-threaded by design.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derived := uint64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derived))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
