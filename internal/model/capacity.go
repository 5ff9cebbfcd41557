package model

// ContainerCapacity summarizes how full a single container is.
type ContainerCapacity struct {
	ContainerID string  `json:"containerId"`
	Zone        string  `json:"zone"`
	ItemCount   int     `json:"item_count"`
	UsedVolume  float64 `json:"used_volume"`
	TotalVolume float64 `json:"total_volume"`
	StowedMass  float64 `json:"stowed_mass"` // kg, from placed item records
}

// FillPercent returns the volume usage percentage.
func (cc ContainerCapacity) FillPercent() float64 {
	if cc.TotalVolume == 0 {
		return 0
	}
	return (cc.UsedVolume / cc.TotalVolume) * 100.0
}

// CapacityReport aggregates capacity figures per container and per zone.
type CapacityReport struct {
	Containers []ContainerCapacity `json:"containers"`
	ZoneVolume map[string]float64  `json:"zone_volume"` // zone -> used volume
	TotalUsed  float64             `json:"total_used"`
	TotalAvail float64             `json:"total_avail"`
}

// FillPercent returns the overall volume usage percentage.
func (cr CapacityReport) FillPercent() float64 {
	if cr.TotalAvail == 0 {
		return 0
	}
	return (cr.TotalUsed / cr.TotalAvail) * 100.0
}

// BuildCapacityReport computes per-container and per-zone utilization for
// the current arrangement. Disposed items no longer have placements, so every
// placement on record counts.
func BuildCapacityReport(a Arrangement) CapacityReport {
	report := CapacityReport{ZoneVolume: make(map[string]float64)}

	for _, c := range a.Containers {
		cap := ContainerCapacity{
			ContainerID: c.ContainerID,
			Zone:        c.Zone,
			TotalVolume: c.Volume(),
		}
		for _, p := range a.PlacementsIn(c.ContainerID) {
			cap.ItemCount++
			cap.UsedVolume += p.Box.Volume()
			if it, ok := a.ItemByID(p.ItemID); ok {
				cap.StowedMass += it.Mass
			}
		}
		report.Containers = append(report.Containers, cap)
		report.ZoneVolume[c.Zone] += cap.UsedVolume
		report.TotalUsed += cap.UsedVolume
		report.TotalAvail += cap.TotalVolume
	}
	return report
}
