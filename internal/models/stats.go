package models

// PriceStatistics summarises the in-range priced views for one fuel type.
type PriceStatistics struct {
	FuelType          string         `json:"fuel_type"`
	SampleSize        int            `json:"sample_size"`
	LowestPrice       float64        `json:"lowest_price"`
	AveragePrice      float64        `json:"average_price"`
	HighestPrice      float64        `json:"highest_price"`
	StandardDeviation float64        `json:"standard_deviation,omitempty"`
	CheapestStations  []string       `json:"cheapest_stations"`
	PriceDistribution map[string]int `json:"price_distribution"`
	BrandDistribution map[string]int `json:"brand_distribution"`
}
