// Package models defines the data structures shared across the forecast dashboard.
package models

import "time"

// Observation is one historical demand record of a product.
type Observation struct {
	Date   time.Time
	QtyOut float64
}

// Metrics holds the accuracy of a fitted model on its training history.
type Metrics struct {
	MAPE float64 `json:"mape"`
	MAE  float64 `json:"mae"`
}

// Quality grades a model by its MAPE.
type Quality string

const (
	// QualityGood means MAPE below 20%.
	QualityGood Quality = "Good"
	// QualityFair means MAPE below 50%.
	QualityFair Quality = "Fair"
	// QualityPoor means MAPE of 50% or more.
	QualityPoor Quality = "Poor"
)

// QualityFor returns the quality label for a MAPE value in percent.
func QualityFor(mape float64) Quality {
	switch {
	case mape < 20:
		return QualityGood
	case mape < 50:
		return QualityFair
	default:
		return QualityPoor
	}
}

// HistoricalStats summarizes the observations a model was trained on.
type HistoricalStats struct {
	Mean    float64
	Total   float64
	Records int
	First   time.Time
	Last    time.Time
	Metrics Metrics
	Quality Quality
}
