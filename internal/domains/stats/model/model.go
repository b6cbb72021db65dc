package model

import (
	"slices"
	"strings"
	"time"

	boothModel "fair/internal/domains/booth/model"
	boothDto "fair/internal/domains/booth/model/dto"
	exhibitorModel "fair/internal/domains/exhibitor/model"
	trxModel "fair/internal/domains/transaction/model"
	"fair/shared/constant"
)

// CacheKeyPrefix covers every cached projection. Anything that changes a
// booth, exhibitor or transaction drops the whole prefix.
const (
	CacheKeyPrefix       = "stats"
	CacheKeyBooths       = "stats:booths"
	CacheKeyExhibitors   = "stats:exhibitors"
	CacheKeyTransactions = "stats:transactions"
)

type BoothStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	BySector map[string]int `json:"by_sector"`
}

type ExhibitorStats struct {
	Total      int `json:"total"`
	Verified   int `json:"verified"`
	Unverified int `json:"unverified"`
	Active     int `json:"active"`
	Inactive   int `json:"inactive"`
}

type MonthStats struct {
	Month  string `json:"month"`
	Count  int    `json:"count"`
	Amount int64  `json:"amount"`
}

type TransactionStats struct {
	Total              int            `json:"total"`
	TotalAmount        int64          `json:"total_amount"`
	ByPaymentStatus    map[string]int `json:"by_payment_status"`
	ByValidityStatus   map[string]int `json:"by_validity_status"`
	ByBoothTransStatus map[string]int `json:"by_booth_trans_status"`
	ByMonth            []MonthStats   `json:"by_month"`
}

// ProjectBooths counts the booths matching filter. Every booth status is
// present in ByStatus even when its count is zero.
func ProjectBooths(booths []boothModel.Booth, filter boothDto.BoothFilter) BoothStats {
	stats := BoothStats{
		ByStatus: zeroed(boothModel.Statuses),
		BySector: map[string]int{},
	}

	for _, booth := range booths {
		if !filter.Matches(booth) {
			continue
		}

		stats.Total++
		stats.ByStatus[string(booth.Status)]++
		stats.BySector[booth.Sector]++
	}

	return stats
}

func ProjectExhibitors(exhibitors []exhibitorModel.Exhibitor) ExhibitorStats {
	stats := ExhibitorStats{Total: len(exhibitors)}

	for _, exhibitor := range exhibitors {
		if exhibitor.Verified {
			stats.Verified++
		} else {
			stats.Unverified++
		}

		if exhibitor.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}

	return stats
}

// ProjectTransactions groups transactions by each status and by reservation
// month in loc. Months are ordered oldest first.
func ProjectTransactions(transactions []trxModel.Transaction, loc *time.Location) TransactionStats {
	if loc == nil {
		loc = time.UTC
	}

	stats := TransactionStats{
		ByPaymentStatus:    zeroed(trxModel.PaymentStatuses),
		ByValidityStatus:   zeroed(trxModel.ValidityStatuses),
		ByBoothTransStatus: zeroed(trxModel.BoothTransStatuses),
		ByMonth:            []MonthStats{},
	}

	months := map[string]*MonthStats{}

	for _, trx := range transactions {
		stats.Total++
		stats.TotalAmount += trx.TotalAmount
		stats.ByPaymentStatus[string(trx.PaymentStatus)]++
		stats.ByValidityStatus[string(trx.ValidityStatus)]++
		stats.ByBoothTransStatus[string(trx.BoothTransStatus)]++

		key := trx.ReservationDate.In(loc).Format(constant.MonthFormat)

		month, ok := months[key]
		if !ok {
			month = &MonthStats{Month: key}
			months[key] = month
		}

		month.Count++
		month.Amount += trx.TotalAmount
	}

	for _, month := range months {
		stats.ByMonth = append(stats.ByMonth, *month)
	}

	slices.SortFunc(stats.ByMonth, func(a, b MonthStats) int {
		return strings.Compare(a.Month, b.Month)
	})

	return stats
}

func zeroed[S ~string](keys []S) map[string]int {
	counts := make(map[string]int, len(keys))
	for _, key := range keys {
		counts[string(key)] = 0
	}

	return counts
}
