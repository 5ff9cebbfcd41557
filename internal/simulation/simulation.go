// Package simulation advances mission time over an arrangement: each
// simulated day consumes the scheduled items and flags anything expired or
// depleted as waste. Time is always passed in explicitly so runs are
// reproducible and testable.
package simulation

import (
	"time"

	"github.com/piwi3910/StowPlan/internal/model"
)

// ItemRef selects an item for daily use, by id or (when the id is empty) by
// exact name. Name lookup picks the active item with the earliest expiry so
// perishables rotate out first.
type ItemRef struct {
	ItemID string `json:"itemId,omitempty"`
	Name   string `json:"name,omitempty"`
}

// UsedItem records one consumption event.
type UsedItem struct {
	ItemID        string `json:"itemId"`
	Name          string `json:"name"`
	RemainingUses int    `json:"remainingUses"`
}

// ChangedItem identifies an item whose status flipped during a day.
type ChangedItem struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
}

// DayChanges is everything that happened on one simulated day.
type DayChanges struct {
	Date     time.Time     `json:"date"`
	Used     []UsedItem    `json:"itemsUsed"`
	Expired  []ChangedItem `json:"itemsExpired"`
	Depleted []ChangedItem `json:"itemsDepletedToday"`
}

// Result summarizes a simulation run.
type Result struct {
	NewDate time.Time    `json:"newDate"`
	Days    []DayChanges `json:"days"`
}

// Run simulates the given number of whole days starting from start. Each
// day the perDay items are used once, then expiries are checked against the
// day's date. The returned arrangement carries the updated item statuses and
// use counts; the input is not modified.
func Run(arr model.Arrangement, start time.Time, days int, perDay []ItemRef) (model.Arrangement, Result) {
	out := arr
	out.Items = append([]model.Item(nil), arr.Items...)

	result := Result{NewDate: start}
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day+1)
		changes := DayChanges{Date: date}

		for _, ref := range perDay {
			idx, ok := resolve(out.Items, ref)
			if !ok {
				continue
			}
			it := &out.Items[idx]
			it.CurrentUses++
			changes.Used = append(changes.Used, UsedItem{
				ItemID:        it.ItemID,
				Name:          it.Name,
				RemainingUses: it.RemainingUses(),
			})
			if it.UsageLimit != nil && it.RemainingUses() == 0 {
				it.Status = model.StatusWasteDepleted
				changes.Depleted = append(changes.Depleted, ChangedItem{ItemID: it.ItemID, Name: it.Name})
			}
		}

		for i := range out.Items {
			it := &out.Items[i]
			if !it.IsActive() || it.ExpiryDate == nil {
				continue
			}
			if !it.ExpiryDate.After(date) {
				it.Status = model.StatusWasteExpired
				changes.Expired = append(changes.Expired, ChangedItem{ItemID: it.ItemID, Name: it.Name})
			}
		}

		result.Days = append(result.Days, changes)
		result.NewDate = date
	}
	return out, result
}

// RunUntil simulates whole days from start until the target date is reached.
// A target at or before start simulates nothing.
func RunUntil(arr model.Arrangement, start, target time.Time, perDay []ItemRef) (model.Arrangement, Result) {
	days := 0
	for d := start.AddDate(0, 0, 1); !d.After(target); d = d.AddDate(0, 0, 1) {
		days++
	}
	return Run(arr, start, days, perDay)
}

// resolve finds the index of the item a ref points at. Refs never match
// waste: a depleted ration pack cannot be eaten again.
func resolve(items []model.Item, ref ItemRef) (int, bool) {
	if ref.ItemID != "" {
		for i, it := range items {
			if it.ItemID == ref.ItemID && it.IsActive() {
				return i, true
			}
		}
		return 0, false
	}
	best := -1
	for i, it := range items {
		if it.Name != ref.Name || !it.IsActive() {
			continue
		}
		if best == -1 || expiresBefore(items[i], items[best]) {
			best = i
		}
	}
	return best, best != -1
}

func expiresBefore(a, b model.Item) bool {
	if a.ExpiryDate == nil {
		return false
	}
	if b.ExpiryDate == nil {
		return true
	}
	return a.ExpiryDate.Before(*b.ExpiryDate)
}
