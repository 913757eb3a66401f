package tap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSlotCounterEpochMonotonicity(t *testing.T) {
	// S6: one epoch advance is accepted.
	for _, s := range []uint16{0x2EDE, 0x2EDF, 0x4000, 0x4001} {
		assert.True(t, validSlotCounter(s), "0x%04X should be a valid slot counter", s)
	}

	// 0x2EE0's within-epoch component (12000) falls outside [0, 12000).
	assert.True(t, validSlotCounter(0x2EDF))
	assert.False(t, validSlotCounter(0x2EE0))

	// Epoch wrap (3 -> 0) is accepted.
	for _, s := range []uint16{0xEEDE, 0xEEDF, 0x0000, 0x0001} {
		assert.True(t, validSlotCounter(s))
	}
}

func TestSlotCounterInvalidSkipsAnchor(t *testing.T) {
	clock := NewSlotClock()
	clock.Observe(0x2EDF, time.Unix(1000, 0))

	_, ok := clock.Resolve(0x2EE0)
	assert.False(t, ok, "an invalid slot counter (within-epoch 12000) must not resolve against the anchor")
}

func TestSlotClockResolvesWithinAnchor(t *testing.T) {
	clock := NewSlotClock()
	anchor := time.Date(2024, 8, 24, 9, 16, 41, 0, time.UTC)
	clock.Observe(0x2100, anchor)

	ts, ok := clock.Resolve(0x20FE) // two slots before the anchor
	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(anchor.Add(-2*slotDuration), ts)
}

// Property 5: for every resolved timestamp, the slot counter and anchor
// are within the 4-epoch bound the resolver enforces.
func TestSlotClockResolutionStaysWithinFourEpochs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		anchorSlot := rapid.Uint16().Draw(t, "anchorSlot")
		querySlot := rapid.Uint16().Draw(t, "querySlot")

		clock := NewSlotClock()
		clock.Observe(anchorSlot, time.Unix(0, 0))

		if _, ok := clock.Resolve(querySlot); ok {
			slots, reconciled := slotsSince(querySlot, anchorSlot)
			if !reconciled {
				t.Fatalf("Resolve succeeded but slotsSince disagrees for query=0x%04X anchor=0x%04X", querySlot, anchorSlot)
			}
			if slots < 0 || slots > maxEpochsBehind*slotsPerEpoch {
				t.Fatalf("resolved timestamp outside the 4-epoch bound: slots=%d", slots)
			}
		}
	})
}
