package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportKind(t *testing.T) {
	kind, err := ParseReportKind("sales")
	require.NoError(t, err)
	assert.Equal(t, ReportSales, kind)

	kind, err = ParseReportKind(" INVENTORY ")
	require.NoError(t, err)
	assert.Equal(t, ReportInventory, kind)

	_, err = ParseReportKind("weather")
	assert.ErrorIs(t, err, ErrInvalidReportKind)
}

func TestReport_Generate(t *testing.T) {
	created := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		report   Report
		contains []string
	}{
		{
			name:     "inventory",
			report:   Report{Kind: ReportInventory, CreatedAt: created, LowStockAlert: true},
			contains: []string{"Inventory Report", "2026-08-15", "Low stock alert: true"},
		},
		{
			name:     "sales",
			report:   Report{Kind: ReportSales, CreatedAt: created, TotalSales: 137000, OrderCount: 5},
			contains: []string{"Sales Report", "Total sales: 137000.00", "Orders: 5"},
		},
		{
			name:     "performance",
			report:   Report{Kind: ReportPerformance, CreatedAt: created, OnTimeRate: 0.95, AvgDeliveryHr: 38.5},
			contains: []string{"Performance Report", "On-time rate: 95.0%", "38.5h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := tt.report.Generate()
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
		})
	}
}
