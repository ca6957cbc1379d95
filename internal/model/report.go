package model

import (
	"fmt"
	"strings"
	"time"
)

// ReportKind discriminates the closed set of report variants.
type ReportKind string

const (
	ReportInventory   ReportKind = "INVENTORY"
	ReportSales       ReportKind = "SALES"
	ReportPerformance ReportKind = "PERFORMANCE"
)

// ParseReportKind converts a string into a ReportKind, case-insensitively.
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(strings.ToUpper(strings.TrimSpace(s))) {
	case ReportInventory:
		return ReportInventory, nil
	case ReportSales:
		return ReportSales, nil
	case ReportPerformance:
		return ReportPerformance, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReportKind, s)
	}
}

// Report is a tagged union over the report variants. Kind selects which
// of the variant-specific fields are meaningful.
type Report struct {
	ID        int64      `json:"id" db:"id"`
	Kind      ReportKind `json:"kind" db:"kind"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`

	// Inventory
	LowStockAlert bool `json:"lowStockAlert,omitempty" db:"low_stock_alert"`

	// Sales
	TotalSales float64 `json:"totalSales,omitempty" db:"total_sales"`
	OrderCount int     `json:"orderCount,omitempty" db:"order_count"`

	// Performance
	OnTimeRate    float64 `json:"onTimeRate,omitempty" db:"on_time_rate"`
	AvgDeliveryHr float64 `json:"avgDeliveryHours,omitempty" db:"avg_delivery_hours"`
}

// Generate renders the report as text, dispatching on the variant.
func (r *Report) Generate() string {
	var b strings.Builder
	switch r.Kind {
	case ReportInventory:
		b.WriteString("Inventory Report\n")
		fmt.Fprintf(&b, "Created: %s\n", r.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&b, "Low stock alert: %t\n", r.LowStockAlert)
	case ReportSales:
		b.WriteString("Sales Report\n")
		fmt.Fprintf(&b, "Created: %s\n", r.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&b, "Total sales: %.2f\n", r.TotalSales)
		fmt.Fprintf(&b, "Orders: %d\n", r.OrderCount)
	case ReportPerformance:
		b.WriteString("Performance Report\n")
		fmt.Fprintf(&b, "Created: %s\n", r.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&b, "On-time rate: %.1f%%\n", r.OnTimeRate*100)
		fmt.Fprintf(&b, "Average delivery time: %.1fh\n", r.AvgDeliveryHr)
	default:
		fmt.Fprintf(&b, "Report %d created %s\n", r.ID, r.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}

// ReportRequest represents the payload for creating a report.
type ReportRequest struct {
	Kind          string  `json:"kind"`
	LowStockAlert bool    `json:"lowStockAlert"`
	TotalSales    float64 `json:"totalSales"`
	OrderCount    int     `json:"orderCount"`
	OnTimeRate    float64 `json:"onTimeRate"`
	AvgDeliveryHr float64 `json:"avgDeliveryHours"`
}
