package services

import (
	"strings"

	"listing-parser/models"
	"listing-parser/utils"
)

// InsightService computes summary analytics over a family's saved
// properties, for the dashboard view.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate builds a report over the given properties.
func (s *InsightService) Generate(properties []*models.Property) *models.InsightReport {
	report := &models.InsightReport{
		PropertiesByCity: make(map[string]int),
		CountByStatus:    make(map[string]int),
	}

	if len(properties) == 0 {
		return report
	}

	report.TotalProperties = len(properties)

	var total float64
	for _, p := range properties {
		report.CountByStatus[p.Status]++

		if city := cityOf(p.Address); city != "" {
			report.PropertiesByCity[city]++
		}

		if p.Price == nil || *p.Price <= 0 {
			continue
		}
		price := *p.Price
		report.WithPrice++
		total += price

		if report.MinPrice == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if price > report.MaxPrice {
			report.MaxPrice = price
			report.MostExpensive = p
		}
	}

	if report.WithPrice > 0 {
		report.AveragePrice = total / float64(report.WithPrice)
	}
	return report
}

// Log writes a human-readable summary of the report.
func (s *InsightService) Log(report *models.InsightReport) {
	s.logger.Info("[insights] %d properties (%d priced)", report.TotalProperties, report.WithPrice)
	if report.WithPrice > 0 {
		s.logger.Info("[insights] Price range ₪%.0f–₪%.0f, average ₪%.0f",
			report.MinPrice, report.MaxPrice, report.AveragePrice)
	}
	for status, count := range report.CountByStatus {
		s.logger.Info("[insights] %-12s %d", status, count)
	}
}

// cityOf guesses the city as the last comma-separated part of the address.
func cityOf(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}
