package httpapi

import (
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// Every number is sent raw for machines and as a localized *_text string
// for display.

type productsResponse struct {
	Products []string `json:"products"`
	Count    int      `json:"count"`
	FellBack bool     `json:"fell_back"`
}

type summaryDTO struct {
	models.SummaryStats
	TotalText string `json:"total_text"`
	MeanText  string `json:"mean_text"`
	MinText   string `json:"min_text"`
	MaxText   string `json:"max_text"`
}

type dailyDTO struct {
	models.DisplayRow
	PredictionText string `json:"prediction_text"`
	LowerText      string `json:"lower_text"`
	UpperText      string `json:"upper_text"`
}

type weeklyDTO struct {
	Label     string  `json:"label"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Days      int     `json:"days"`
	Total     float64 `json:"total"`
	Mean      float64 `json:"mean"`
	TotalText string  `json:"total_text"`
	MeanText  string  `json:"mean_text"`
}

type observationDTO struct {
	Date   string  `json:"date"`
	QtyOut float64 `json:"qty_out"`
}

type forecastResponse struct {
	Product            string           `json:"product"`
	Start              string           `json:"start"`
	End                string           `json:"end"`
	Days               int              `json:"days"`
	Warning            string           `json:"warning,omitempty"`
	Advice             string           `json:"advice"`
	AdviceText         string           `json:"advice_text"`
	Filename           string           `json:"filename"`
	Summary            summaryDTO       `json:"summary"`
	Daily              []dailyDTO       `json:"daily"`
	Weekly             []weeklyDTO      `json:"weekly"`
	IntervalViolations []int            `json:"interval_violations"`
	Series             models.RawSeries `json:"series"`
}

type historyResponse struct {
	Product      string           `json:"product"`
	Mean         float64          `json:"mean"`
	Total        float64          `json:"total"`
	Records      int              `json:"records"`
	First        string           `json:"first,omitempty"`
	Last         string           `json:"last,omitempty"`
	MAPE         float64          `json:"mape"`
	MAE          float64          `json:"mae"`
	Quality      models.Quality   `json:"quality"`
	MeanText     string           `json:"mean_text"`
	TotalText    string           `json:"total_text"`
	MAPEText     string           `json:"mape_text"`
	MAEText      string           `json:"mae_text"`
	Observations []observationDTO `json:"observations"`
}

func newForecastResponse(res *forecast.Result) forecastResponse {
	out := forecastResponse{
		Product:    res.Product,
		Start:      res.Start.Format(models.DateLayout),
		End:        res.End.Format(models.DateLayout),
		Days:       res.Days,
		Advice:     string(res.Advice),
		AdviceText: res.Advice.Text(),
		Filename:   res.Filename(),
		Summary: summaryDTO{
			SummaryStats: res.Summary,
			TotalText:    localize.Format2(res.Summary.Total),
			MeanText:     localize.Format2(res.Summary.Mean),
			MinText:      localize.Format2(res.Summary.Min),
			MaxText:      localize.Format2(res.Summary.Max),
		},
		Daily:              make([]dailyDTO, len(res.Daily)),
		Weekly:             make([]weeklyDTO, len(res.Weekly)),
		IntervalViolations: res.IntervalViolations,
		Series:             res.Series,
	}
	if res.Warning != nil {
		out.Warning = res.Warning.Error()
	}
	if out.IntervalViolations == nil {
		out.IntervalViolations = []int{}
	}

	for i, r := range res.Daily {
		out.Daily[i] = dailyDTO{
			DisplayRow:     r,
			PredictionText: localize.Format2(r.Prediction),
			LowerText:      localize.Format2(r.Lower),
			UpperText:      localize.Format2(r.Upper),
		}
	}
	for i, w := range res.Weekly {
		out.Weekly[i] = weeklyDTO{
			Label:     w.Label,
			Start:     w.Start.Format(models.DateLayout),
			End:       w.End.Format(models.DateLayout),
			Days:      w.Days,
			Total:     w.Total,
			Mean:      w.Mean,
			TotalText: localize.Format2(w.Total),
			MeanText:  localize.Format2(w.Mean),
		}
	}
	return out
}

func newHistoryResponse(product string, s models.HistoricalStats, obs []models.Observation) historyResponse {
	out := historyResponse{
		Product:      product,
		Mean:         s.Mean,
		Total:        s.Total,
		Records:      s.Records,
		MAPE:         s.Metrics.MAPE,
		MAE:          s.Metrics.MAE,
		Quality:      s.Quality,
		MeanText:     localize.Format2(s.Mean),
		TotalText:    localize.Format2(s.Total),
		MAPEText:     localize.Format2(s.Metrics.MAPE) + "%",
		MAEText:      localize.Format2(s.Metrics.MAE),
		Observations: make([]observationDTO, len(obs)),
	}
	for i, o := range obs {
		out.Observations[i] = observationDTO{Date: o.Date.Format(models.DateLayout), QtyOut: o.QtyOut}
	}
	if s.Records > 0 {
		out.First = s.First.Format(models.DateLayout)
		out.Last = s.Last.Format(models.DateLayout)
	}
	return out
}
