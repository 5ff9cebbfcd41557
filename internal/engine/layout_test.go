package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StowPlan/internal/model"
)

// box is a test shorthand for a placement region.
func box(w0, d0, h0, w1, d1, h1 float64) model.Box {
	return model.Box{
		Start: model.Coordinates{Width: w0, Depth: d0, Height: h0},
		End:   model.Coordinates{Width: w1, Depth: d1, Height: h1},
	}
}

func cube(id, zone string, side float64) model.Container {
	return model.Container{
		ContainerID: id,
		Zone:        zone,
		Width:       side,
		Depth:       side,
		Height:      side,
	}
}

func testItem(id string, priority int, w, d, h float64, zone string) model.Item {
	return model.Item{
		ItemID:        id,
		Name:          id,
		Width:         w,
		Depth:         d,
		Height:        h,
		Mass:          1,
		Priority:      priority,
		PreferredZone: zone,
		Status:        model.StatusActive,
	}
}

func TestLayoutPlaceAndRemove(t *testing.T) {
	l := NewLayout([]model.Container{cube("contA", "A", 20)})

	require.NoError(t, l.Place("food-1", "contA", box(0, 0, 0, 10, 10, 10)))

	pl, ok := l.PlacementOf("food-1")
	require.True(t, ok)
	assert.Equal(t, "contA", pl.ContainerID)
	assert.Equal(t, 10.0, pl.Box.End.Width)

	from, was, ok := l.Remove("food-1")
	require.True(t, ok)
	assert.Equal(t, "contA", from)
	assert.Equal(t, 10.0, was.End.Depth)
	assert.Empty(t, l.Occupants("contA"))
}

func TestLayoutPlaceMovesExistingPlacement(t *testing.T) {
	// An item can only occupy one box; re-placing it relocates it.
	l := NewLayout([]model.Container{cube("contA", "A", 20), cube("contB", "B", 20)})

	require.NoError(t, l.Place("tool-1", "contA", box(0, 0, 0, 5, 5, 5)))
	require.NoError(t, l.Place("tool-1", "contB", box(0, 0, 0, 5, 5, 5)))

	assert.Empty(t, l.Occupants("contA"))
	assert.Len(t, l.Occupants("contB"), 1)
	assert.Len(t, l.Placements(), 1)
}

func TestLayoutPlaceUnknownContainer(t *testing.T) {
	l := NewLayout(nil)
	err := l.Place("x", "ghost", box(0, 0, 0, 1, 1, 1))
	assert.Error(t, err)
}

func TestLayoutCloneIsIndependent(t *testing.T) {
	l := NewLayout([]model.Container{cube("contA", "A", 20)})
	require.NoError(t, l.Place("a", "contA", box(0, 0, 0, 5, 5, 5)))

	clone := l.Clone()
	clone.Remove("a")
	require.NoError(t, clone.Place("b", "contA", box(0, 0, 0, 5, 5, 5)))

	// The original still holds only the first item.
	recs := l.Occupants("contA")
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ItemID)
}

func TestLayoutContainersInZone(t *testing.T) {
	l := NewLayout([]model.Container{
		cube("c1", "Airlock", 10),
		cube("c2", "Lab", 10),
		cube("c3", "Airlock", 10),
	})

	got := l.ContainersInZone("Airlock")
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ContainerID)
	assert.Equal(t, "c3", got[1].ContainerID)
	assert.Empty(t, l.ContainersInZone("Cupola"))
}
