package entity

// LeadStats summarises a set of leads.
type LeadStats struct {
	Total          int            `json:"total"`
	ByStatus       map[Status]int `json:"byStatus"`
	BySource       map[Source]int `json:"bySource"`
	TotalValue     float64        `json:"totalValue"`
	AverageValue   float64        `json:"averageValue"`
	ConversionRate float64        `json:"conversionRate"`
}

// ComputeStats counts leads per status and source and derives the averages.
// Conversion rate is the share of won leads as a percentage of all leads.
func ComputeStats(leads []Lead) LeadStats {
	stats := LeadStats{
		Total:    len(leads),
		ByStatus: make(map[Status]int),
		BySource: make(map[Source]int),
	}

	for _, l := range leads {
		stats.ByStatus[l.Status]++
		stats.BySource[l.Source]++
		stats.TotalValue += l.Value
	}

	if stats.Total > 0 {
		stats.AverageValue = stats.TotalValue / float64(stats.Total)
		stats.ConversionRate = float64(stats.ByStatus[StatusWon]) / float64(stats.Total) * 100
	}
	return stats
}
