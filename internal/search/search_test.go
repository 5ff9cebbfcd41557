package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StowPlan/internal/model"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func activeItem(id, name string) model.Item {
	return model.Item{
		ItemID: id, Name: name, Width: 5, Depth: 5, Height: 5, Mass: 1,
		Priority: 50, Status: model.StatusActive,
	}
}

func box(w0, d0, h0, w1, d1, h1 float64) model.Box {
	return model.Box{
		Start: model.Coordinates{Width: w0, Depth: d0, Height: h0},
		End:   model.Coordinates{Width: w1, Depth: d1, Height: h1},
	}
}

func testArrangement() model.Arrangement {
	arr := model.NewArrangement()
	arr.Containers = []model.Container{
		{ContainerID: "contA", Zone: "Lab", Width: 20, Depth: 20, Height: 20},
		{ContainerID: "contB", Zone: "Airlock", Width: 20, Depth: 20, Height: 20},
	}
	return arr
}

func TestFindByIDWithBlockers(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{activeItem("filter", "CO2 Filter"), activeItem("wipes", "Wet Wipes")}
	arr.Placements = []model.Placement{
		{ItemID: "filter", ContainerID: "contA", Box: box(0, 5, 0, 5, 10, 5)},
		{ItemID: "wipes", ContainerID: "contA", Box: box(0, 0, 0, 5, 5, 5)},
	}

	got := Find(arr, Query{ItemID: "filter"})

	require.True(t, got.Found)
	assert.Equal(t, "Lab", got.Zone)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, model.ActionSetAside, got.Steps[0].Action)
	assert.Equal(t, "wipes", got.Steps[0].ItemID)
	assert.Equal(t, model.ActionRetrieve, got.Steps[1].Action)
	assert.Equal(t, "filter", got.Steps[1].ItemID)
}

func TestFindByNamePrefersFewestBlockers(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{
		activeItem("pack-buried", "Food Pack"),
		activeItem("pack-front", "Food Pack"),
		activeItem("crate", "Crate"),
	}
	arr.Placements = []model.Placement{
		// Buried copy: one blocker in front of it.
		{ItemID: "pack-buried", ContainerID: "contA", Box: box(0, 5, 0, 5, 10, 5)},
		{ItemID: "crate", ContainerID: "contA", Box: box(0, 0, 0, 5, 5, 5)},
		// Front copy: unobstructed.
		{ItemID: "pack-front", ContainerID: "contB", Box: box(0, 0, 0, 5, 5, 5)},
	}

	got := Find(arr, Query{Name: "Food Pack"})

	require.True(t, got.Found)
	assert.Equal(t, "pack-front", got.Item.ItemID)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, model.ActionRetrieve, got.Steps[0].Action)
}

func TestFindNoMatch(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{activeItem("filter", "CO2 Filter")}

	assert.False(t, Find(arr, Query{Name: "Widget"}).Found)
	assert.False(t, Find(arr, Query{ItemID: "ghost"}).Found)
}

func TestFindIgnoresWaste(t *testing.T) {
	arr := testArrangement()
	expired := activeItem("old-food", "Food Pack")
	expired.Status = model.StatusWasteExpired
	arr.Items = []model.Item{expired}

	assert.False(t, Find(arr, Query{Name: "Food Pack"}).Found)
}

func TestRetrieveConsumesUseAndClearsPlacement(t *testing.T) {
	arr := testArrangement()
	it := activeItem("filter", "CO2 Filter")
	it.UsageLimit = intPtr(2)
	arr.Items = []model.Item{it}
	arr.Placements = []model.Placement{
		{ItemID: "filter", ContainerID: "contA", Box: box(0, 0, 0, 5, 5, 5)},
	}

	updated, got, err := Retrieve(arr, "filter")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentUses)
	assert.Equal(t, model.StatusActive, got.Status)
	_, placed := updated.PlacementOf("filter")
	assert.False(t, placed)

	// Second retrieval exhausts the usage limit.
	updated, got, err = Retrieve(updated, "filter")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWasteDepleted, got.Status)

	// A depleted item cannot be retrieved again.
	_, _, err = Retrieve(updated, "filter")
	assert.Error(t, err)
}

func TestPlaceItemValidates(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{activeItem("filter", "CO2 Filter"), activeItem("wipes", "Wet Wipes")}
	arr.Placements = []model.Placement{
		{ItemID: "wipes", ContainerID: "contA", Box: box(0, 0, 0, 5, 5, 5)},
	}

	_, err := PlaceItem(arr, "ghost", "contA", box(0, 0, 0, 5, 5, 5))
	assert.Error(t, err)

	_, err = PlaceItem(arr, "filter", "ghost", box(0, 0, 0, 5, 5, 5))
	assert.Error(t, err)

	_, err = PlaceItem(arr, "filter", "contA", box(0, 0, 0, 25, 5, 5))
	assert.Error(t, err, "box exceeding container bounds must be rejected")

	_, err = PlaceItem(arr, "filter", "contA", box(0, 0, 0, 5, 5, 5))
	assert.Error(t, err, "overlapping box must be rejected")

	updated, err := PlaceItem(arr, "filter", "contA", box(5, 0, 0, 10, 5, 5))
	require.NoError(t, err)
	p, ok := updated.PlacementOf("filter")
	require.True(t, ok)
	assert.Equal(t, "contA", p.ContainerID)

	// Re-placing moves instead of duplicating.
	updated, err = PlaceItem(updated, "filter", "contB", box(0, 0, 0, 5, 5, 5))
	require.NoError(t, err)
	assert.Len(t, updated.PlacementsIn("contA"), 1)
	assert.Len(t, updated.PlacementsIn("contB"), 1)
}

func TestSuggest(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{
		activeItem("a", "Food Pack"),
		activeItem("b", "Food Pack"),
		activeItem("c", "Food Warmer"),
		activeItem("d", "Filter"),
	}
	gone := activeItem("e", "Foil Blanket")
	gone.Status = model.StatusDisposed
	arr.Items = append(arr.Items, gone)

	got := Suggest(arr, "fo", 10)
	assert.Equal(t, []string{"Food Pack", "Food Warmer"}, got)

	assert.Len(t, Suggest(arr, "f", 2), 2)
	assert.Empty(t, Suggest(arr, "", 10))
	assert.Empty(t, Suggest(arr, "xyz", 10))
}

func TestFindEarliestExpiryTieBreak(t *testing.T) {
	arr := testArrangement()
	early := activeItem("pack-early", "Food Pack")
	early.ExpiryDate = timePtr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	late := activeItem("pack-late", "Food Pack")
	late.ExpiryDate = timePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	arr.Items = []model.Item{late, early}
	arr.Placements = []model.Placement{
		{ItemID: "pack-late", ContainerID: "contA", Box: box(0, 0, 0, 5, 5, 5)},
		{ItemID: "pack-early", ContainerID: "contB", Box: box(0, 0, 0, 5, 5, 5)},
	}

	got := Find(arr, Query{Name: "Food Pack"})
	require.True(t, got.Found)
	assert.Equal(t, "pack-early", got.Item.ItemID)
}
