package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StowPlan/internal/model"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func testArrangement(items ...model.Item) model.Arrangement {
	arr := model.NewArrangement()
	arr.Items = items
	return arr
}

func TestRunConsumesDailyItems(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	arr := testArrangement(model.Item{
		ItemID: "rations", Name: "Food Pack", Width: 1, Depth: 1, Height: 1, Mass: 1,
		UsageLimit: intPtr(3), Status: model.StatusActive,
	})

	updated, result := Run(arr, start, 2, []ItemRef{{ItemID: "rations"}})

	require.Len(t, result.Days, 2)
	assert.Equal(t, start.AddDate(0, 0, 2), result.NewDate)
	require.Len(t, result.Days[0].Used, 1)
	assert.Equal(t, 2, result.Days[0].Used[0].RemainingUses)
	assert.Equal(t, 1, result.Days[1].Used[0].RemainingUses)

	it, ok := updated.ItemByID("rations")
	require.True(t, ok)
	assert.Equal(t, 2, it.CurrentUses)
	assert.Equal(t, model.StatusActive, it.Status)

	// The input arrangement is untouched.
	orig, _ := arr.ItemByID("rations")
	assert.Zero(t, orig.CurrentUses)
}

func TestRunDepletesAtLastUse(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	arr := testArrangement(model.Item{
		ItemID: "filter", Name: "CO2 Filter", Width: 1, Depth: 1, Height: 1, Mass: 1,
		UsageLimit: intPtr(1), Status: model.StatusActive,
	})

	updated, result := Run(arr, start, 3, []ItemRef{{ItemID: "filter"}})

	// Day one consumes the last use; later days find nothing to use.
	require.Len(t, result.Days[0].Depleted, 1)
	assert.Equal(t, "filter", result.Days[0].Depleted[0].ItemID)
	assert.Empty(t, result.Days[1].Used)
	assert.Empty(t, result.Days[2].Used)

	it, _ := updated.ItemByID("filter")
	assert.Equal(t, model.StatusWasteDepleted, it.Status)
}

func TestRunExpiresItems(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	arr := testArrangement(
		model.Item{
			ItemID: "milk", Name: "Milk", Width: 1, Depth: 1, Height: 1, Mass: 1,
			ExpiryDate: timePtr(start.AddDate(0, 0, 2)), Status: model.StatusActive,
		},
		model.Item{
			ItemID: "bolt", Name: "Bolt", Width: 1, Depth: 1, Height: 1, Mass: 1,
			Status: model.StatusActive,
		},
	)

	updated, result := Run(arr, start, 3, nil)

	assert.Empty(t, result.Days[0].Expired)
	require.Len(t, result.Days[1].Expired, 1)
	assert.Equal(t, "milk", result.Days[1].Expired[0].ItemID)
	assert.Empty(t, result.Days[2].Expired)

	milk, _ := updated.ItemByID("milk")
	assert.Equal(t, model.StatusWasteExpired, milk.Status)
	bolt, _ := updated.ItemByID("bolt")
	assert.Equal(t, model.StatusActive, bolt.Status)
}

func TestRunResolvesByNameEarliestExpiryFirst(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	arr := testArrangement(
		model.Item{
			ItemID: "pack-late", Name: "Food Pack", Width: 1, Depth: 1, Height: 1, Mass: 1,
			ExpiryDate: timePtr(start.AddDate(0, 1, 0)), UsageLimit: intPtr(5), Status: model.StatusActive,
		},
		model.Item{
			ItemID: "pack-early", Name: "Food Pack", Width: 1, Depth: 1, Height: 1, Mass: 1,
			ExpiryDate: timePtr(start.AddDate(0, 0, 10)), UsageLimit: intPtr(5), Status: model.StatusActive,
		},
	)

	_, result := Run(arr, start, 1, []ItemRef{{Name: "Food Pack"}})

	require.Len(t, result.Days[0].Used, 1)
	assert.Equal(t, "pack-early", result.Days[0].Used[0].ItemID)
}

func TestRunUntil(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	arr := testArrangement()

	_, result := RunUntil(arr, start, start.AddDate(0, 0, 5), nil)
	assert.Len(t, result.Days, 5)
	assert.Equal(t, start.AddDate(0, 0, 5), result.NewDate)

	_, result = RunUntil(arr, start, start, nil)
	assert.Empty(t, result.Days)
	assert.Equal(t, start, result.NewDate)
}
