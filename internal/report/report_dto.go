package report

import "encoding/json"

type GenerateReportRequest struct {
	AppName   string `json:"app_name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// ReportResult relays the reporting service's JSON document unchanged.
type ReportResult struct {
	Report json.RawMessage `json:"report"`
}
