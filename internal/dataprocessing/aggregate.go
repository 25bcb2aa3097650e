package dataprocessing

import (
	"sort"
	"time"

	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civilDateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

func (c civilDate) before(o civilDate) bool {
	if c.year != o.year {
		return c.year < o.year
	}
	if c.month != o.month {
		return c.month < o.month
	}
	return c.day < o.day
}

// AggregateDaily sums the amount column per calendar date, ignoring time of
// day, and returns the totals ordered by date.
func AggregateDaily(sales domain.SalesTable) domain.DailySeries {
	sums := make(map[civilDate]*domain.KahanSum)
	for _, s := range sales {
		key := civilDateOf(s.Date)
		acc, ok := sums[key]
		if !ok {
			acc = &domain.KahanSum{}
			sums[key] = acc
		}
		acc.Add(s.Amount)
	}

	dates := make([]civilDate, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].before(dates[j]) })

	series := make(domain.DailySeries, len(dates))
	for i, d := range dates {
		series[i] = domain.DailyPoint{
			Date:  time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC),
			Sales: sums[d].Sum(),
		}
	}
	return series
}

type monthAcc struct {
	sales domain.KahanSum
	cost  domain.KahanSum
}

// AggregateMonthly sums amount and cost per calendar month and derives
// profit as sales minus cost. Months are ordered ascending.
func AggregateMonthly(sales domain.SalesTable) domain.MonthlyRollup {
	accs := make(map[domain.Month]*monthAcc)
	for _, s := range sales {
		key := domain.MonthOf(s.Date)
		acc, ok := accs[key]
		if !ok {
			acc = &monthAcc{}
			accs[key] = acc
		}
		acc.sales.Add(s.Amount)
		acc.cost.Add(s.Cost)
	}

	months := make([]domain.Month, 0, len(accs))
	for m := range accs {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	rollup := make(domain.MonthlyRollup, len(months))
	for i, m := range months {
		total, cost := accs[m].sales.Sum(), accs[m].cost.Sum()
		rollup[i] = domain.MonthlyPoint{
			Month:  m,
			Sales:  total,
			Cost:   cost,
			Profit: total - cost,
		}
	}
	return rollup
}
