package services

import "sairaklin-backend/internal/models"

// Harga dalam Rupiah.
var basePrices = map[string]float64{
	models.ServiceRoom:     35000,
	models.ServiceBathroom: 45000,
	models.ServiceBoth:     75000,
}

const (
	cleaningToolsFee = 15000
	premiumScentFee  = 5000
)

func isValidServiceType(serviceType string) bool {
	_, ok := basePrices[serviceType]
	return ok
}

// CalculatePrice harga layanan + add-on. Service type tidak dikenal = 0.
func CalculatePrice(serviceType string, cleaningTools, premiumScent bool) float64 {
	total := basePrices[serviceType]
	if cleaningTools {
		total += cleaningToolsFee
	}
	if premiumScent {
		total += premiumScentFee
	}
	return total
}
