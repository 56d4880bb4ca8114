package domain

import "testing"

func TestStockStatus(t *testing.T) {
	testCases := []struct {
		name         string
		quantity     int
		reorderLevel int
		want         string
	}{
		{"at reorder level is low", 5, 5, StockLow},
		{"below reorder level is low", 2, 5, StockLow},
		{"zero quantity is low", 0, 5, StockLow},
		{"between 1x and 2x is medium", 9, 5, StockMedium},
		{"exactly 2x is medium", 10, 5, StockMedium},
		{"above 2x is high", 11, 5, StockHigh},
		{"zero reorder level, zero stock", 0, 0, StockLow},
		{"zero reorder level, some stock", 1, 0, StockHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StockStatus(tc.quantity, tc.reorderLevel); got != tc.want {
				t.Errorf("StockStatus(%d, %d) = %q, want %q", tc.quantity, tc.reorderLevel, got, tc.want)
			}
		})
	}
}

func TestChurnRisk(t *testing.T) {
	testCases := []struct {
		name string
		days int
		want string
	}{
		{"95 days is high risk", 95, ChurnHigh},
		{"91 days is high risk", 91, ChurnHigh},
		{"90 days is medium risk", 90, ChurnMedium},
		{"65 days is medium risk", 65, ChurnMedium},
		{"61 days is medium risk", 61, ChurnMedium},
		{"60 days is low risk", 60, ChurnLow},
		{"31 days is low risk", 31, ChurnLow},
		{"30 days is active", 30, ChurnActive},
		{"10 days is active", 10, ChurnActive},
		{"0 days is active", 0, ChurnActive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChurnRisk(tc.days); got != tc.want {
				t.Errorf("ChurnRisk(%d) = %q, want %q", tc.days, got, tc.want)
			}
		})
	}
}

func TestTurnoverClass(t *testing.T) {
	testCases := []struct {
		name       string
		stock      int
		sold       int
		windowDays int
		want       string
	}{
		{"no sales avoids division by zero", 100, 0, 30, TurnoverNoSales},
		{"negative sold is no sales", 100, -1, 30, TurnoverNoSales},
		{"fast moving", 10, 30, 30, TurnoverFast},         // 10 days of inventory
		{"normal at boundary", 90, 30, 30, TurnoverNormal}, // exactly 90 days
		{"normal", 60, 30, 30, TurnoverNormal},             // 60 days
		{"slow moving", 200, 30, 30, TurnoverSlow},         // 200 days
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TurnoverClass(tc.stock, tc.sold, tc.windowDays); got != tc.want {
				t.Errorf("TurnoverClass(%d, %d, %d) = %q, want %q", tc.stock, tc.sold, tc.windowDays, got, tc.want)
			}
		})
	}
}
