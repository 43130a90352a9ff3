package stats

import (
	"fmt"
	"math"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

// Derive summarises the in-range priced views for one fuel type. Prices are
// the discounted display prices; bucketSize (in whole currency cents of the
// display unit) controls the distribution histogram.
func Derive(fuelType string, views []models.StationPriceView, bucketSize int) *models.PriceStatistics {
	if bucketSize <= 0 {
		bucketSize = 3
	}
	stats := &models.PriceStatistics{
		FuelType:          fuelType,
		CheapestStations:  []string{},
		PriceDistribution: make(map[string]int),
		BrandDistribution: make(map[string]int),
	}

	var prices []float64
	stationsByPrice := make(map[float64][]string)
	for _, v := range views {
		if !v.Available || !v.InRange {
			continue
		}
		prices = append(prices, v.DisplayPrice)
		stationsByPrice[v.DisplayPrice] = append(stationsByPrice[v.DisplayPrice], v.StationCode)
		if v.Brand != "" {
			stats.BrandDistribution[v.Brand]++
		}
	}
	stats.SampleSize = len(prices)
	if len(prices) == 0 {
		return stats
	}

	lowest := prices[0]
	highest := prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
		sum += p
	}
	stats.LowestPrice = lowest
	stats.HighestPrice = highest
	stats.CheapestStations = stationsByPrice[lowest]

	avg := sum / float64(len(prices))
	stats.AveragePrice = math.Round(avg*1000) / 1000

	if len(prices) > 1 {
		variance := 0.0
		for _, p := range prices {
			variance += math.Pow(p-avg, 2)
		}
		variance /= float64(len(prices))
		stats.StandardDeviation = math.Sqrt(variance)
	}

	for _, p := range prices {
		// Bucket on the underlying cents-per-litre value.
		cents := int(math.Round(p * 100))
		bucketStart := (cents / bucketSize) * bucketSize
		bucketEnd := bucketStart + bucketSize - 1
		bucketKey := fmt.Sprintf("%d-%d", bucketStart, bucketEnd)
		stats.PriceDistribution[bucketKey]++
	}

	return stats
}
