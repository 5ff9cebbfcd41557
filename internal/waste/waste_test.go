package waste

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StowPlan/internal/model"
)

func wasteItem(id string, mass float64, status model.ItemStatus) model.Item {
	return model.Item{
		ItemID: id, Name: id, Width: 5, Depth: 5, Height: 5, Mass: mass,
		Priority: 10, Status: status,
	}
}

func testArrangement() model.Arrangement {
	arr := model.NewArrangement()
	arr.Containers = []model.Container{
		{ContainerID: "stowA", Zone: "Lab", Width: 20, Depth: 20, Height: 20},
		{ContainerID: "dragon", Zone: "Undocking", Width: 20, Depth: 20, Height: 20},
	}
	return arr
}

func TestIdentifyReportsWasteWithLocation(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{
		wasteItem("fresh", 1, model.StatusActive),
		wasteItem("old-food", 2, model.StatusWasteExpired),
		wasteItem("used-filter", 3, model.StatusWasteDepleted),
		wasteItem("gone", 4, model.StatusDisposed),
	}
	arr.Placements = []model.Placement{
		{ItemID: "old-food", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{}, 5, 5, 5)},
	}

	_, got := Identify(arr, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 2)
	assert.Equal(t, "old-food", got[0].ItemID)
	assert.Equal(t, "expired", got[0].Reason)
	assert.Equal(t, "stowA", got[0].ContainerID)
	assert.Equal(t, "used-filter", got[1].ItemID)
	assert.Equal(t, "depleted", got[1].Reason)
	assert.Empty(t, got[1].ContainerID)
}

func TestIdentifyFlipsOverdueActiveItems(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	overdue := wasteItem("old-meds", 1, model.StatusActive)
	overdue.ExpiryDate = &past
	fresh := wasteItem("new-meds", 1, model.StatusActive)
	fresh.ExpiryDate = &future

	arr := testArrangement()
	arr.Items = []model.Item{overdue, fresh}

	updated, got := Identify(arr, now)

	// The overdue item is flagged and reported; the fresh one stays active.
	require.Len(t, got, 1)
	assert.Equal(t, "old-meds", got[0].ItemID)
	assert.Equal(t, "expired", got[0].Reason)

	it, _ := updated.ItemByID("old-meds")
	assert.Equal(t, model.StatusWasteExpired, it.Status)
	it, _ = updated.ItemByID("new-meds")
	assert.Equal(t, model.StatusActive, it.Status)

	// The input arrangement is untouched.
	orig, _ := arr.ItemByID("old-meds")
	assert.Equal(t, model.StatusActive, orig.Status)
}

func TestIdentifyExpiryOnTheDateCounts(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	it := wasteItem("borderline", 1, model.StatusActive)
	it.ExpiryDate = &now

	arr := testArrangement()
	arr.Items = []model.Item{it}

	_, got := Identify(arr, now)
	require.Len(t, got, 1)
	assert.Equal(t, "expired", got[0].Reason)
}

func TestPlanReturnRespectsMassBudget(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{
		wasteItem("heavy", 50, model.StatusWasteExpired),
		wasteItem("medium", 30, model.StatusWasteExpired),
		wasteItem("light", 10, model.StatusWasteDepleted),
	}
	arr.Placements = []model.Placement{
		{ItemID: "heavy", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{}, 5, 5, 5)},
		{ItemID: "medium", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{Width: 5}, 5, 5, 5)},
		{ItemID: "light", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{Width: 10}, 5, 5, 5)},
	}

	undock := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	plan, err := PlanReturn(arr, "dragon", undock, 65, model.DefaultSettings())
	require.NoError(t, err)

	// Heaviest first: 50 + 10 fit the 65 kg budget, 30 does not.
	require.Len(t, plan.Manifest.ReturnItems, 2)
	assert.Equal(t, "heavy", plan.Manifest.ReturnItems[0].ItemID)
	assert.Equal(t, "light", plan.Manifest.ReturnItems[1].ItemID)
	assert.Equal(t, 60.0, plan.Manifest.TotalMass)
	require.Len(t, plan.LeftBehind, 1)
	assert.Equal(t, "medium", plan.LeftBehind[0].ItemID)

	require.Len(t, plan.Steps, 2)
	for i, step := range plan.Steps {
		assert.Equal(t, i+1, step.Step)
		assert.Equal(t, model.ActionMove, step.Action)
		assert.Equal(t, "stowA", step.FromContainer)
		assert.Equal(t, "dragon", step.ToContainer)
	}

	// Side-by-side waste needs no unpacking.
	assert.Empty(t, plan.Retrievals)
}

func TestPlanReturnUnpacksBuriedWaste(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{
		wasteItem("buried", 5, model.StatusWasteExpired),
		wasteItem("in-front", 5, model.StatusActive),
	}
	// The waste sits at depth 5-10 with an active item in front of it.
	arr.Placements = []model.Placement{
		{ItemID: "buried", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{Depth: 5}, 5, 5, 5)},
		{ItemID: "in-front", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{}, 5, 5, 5)},
	}

	plan, err := PlanReturn(arr, "dragon", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 0, model.DefaultSettings())
	require.NoError(t, err)

	// The blocker comes out first, then the waste item, then the move.
	require.Len(t, plan.Retrievals, 2)
	assert.Equal(t, model.ActionSetAside, plan.Retrievals[0].Action)
	assert.Equal(t, "in-front", plan.Retrievals[0].ItemID)
	assert.Equal(t, model.ActionRetrieve, plan.Retrievals[1].Action)
	assert.Equal(t, "buried", plan.Retrievals[1].ItemID)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, model.ActionMove, plan.Steps[0].Action)
	assert.Equal(t, "buried", plan.Steps[0].ItemID)
}

func TestPlanReturnUnknownContainer(t *testing.T) {
	arr := testArrangement()
	_, err := PlanReturn(arr, "ghost", time.Now(), 100, model.DefaultSettings())
	assert.Error(t, err)
}

func TestPlanReturnSkipsAlreadyStaged(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{wasteItem("old-food", 5, model.StatusWasteExpired)}
	arr.Placements = []model.Placement{
		{ItemID: "old-food", ContainerID: "dragon", Box: model.NewBox(model.Coordinates{}, 5, 5, 5)},
	}

	plan, err := PlanReturn(arr, "dragon", time.Now(), 100, model.DefaultSettings())
	require.NoError(t, err)

	assert.Empty(t, plan.Steps)
	require.Len(t, plan.Manifest.ReturnItems, 1)
	assert.Equal(t, 5.0, plan.Manifest.TotalMass)
}

func TestApplyReturnPlanAndCompleteUndocking(t *testing.T) {
	arr := testArrangement()
	arr.Items = []model.Item{
		wasteItem("old-food", 5, model.StatusWasteExpired),
		wasteItem("fresh", 5, model.StatusActive),
	}
	arr.Placements = []model.Placement{
		{ItemID: "old-food", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{}, 5, 5, 5)},
		{ItemID: "fresh", ContainerID: "stowA", Box: model.NewBox(model.Coordinates{Width: 5}, 5, 5, 5)},
	}

	plan, err := PlanReturn(arr, "dragon", time.Now(), 0, model.DefaultSettings())
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)

	arr = ApplyReturnPlan(arr, plan)
	p, ok := arr.PlacementOf("old-food")
	require.True(t, ok)
	assert.Equal(t, "dragon", p.ContainerID)

	arr, count := CompleteUndocking(arr, "dragon")
	assert.Equal(t, 1, count)

	_, ok = arr.PlacementOf("old-food")
	assert.False(t, ok)
	it, _ := arr.ItemByID("old-food")
	assert.Equal(t, model.StatusDisposed, it.Status)

	// The active item elsewhere is untouched.
	fresh, _ := arr.ItemByID("fresh")
	assert.Equal(t, model.StatusActive, fresh.Status)
	_, ok = arr.PlacementOf("fresh")
	assert.True(t, ok)
}
