package vacation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"sistema-gth/internal/database/models"
)

// Proration rule: 2.5 vacation days earned per 30 days worked.
var (
	diasPorTramo   = decimal.NewFromInt(30)
	diasGeneracion = decimal.NewFromFloat(2.5)
)

// Interval is an inclusive date range, normalized to UTC midnight.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Days() int64 {
	if iv.End.Before(iv.Start) {
		return 0
	}
	return int64(iv.End.Sub(iv.Start).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ContractIntervals extracts the tenure intervals from payroll contracts.
// Open-ended contracts (no f_fin) and end dates in the future are capped
// at today: days not yet worked do not accrue.
func ContractIntervals(contracts []models.Contract, today time.Time) []Interval {
	today = dateOnly(today)
	var out []Interval
	for _, c := range contracts {
		if !c.Planilla || c.FInicio == nil {
			continue
		}
		start := dateOnly(*c.FInicio)
		if start.After(today) {
			continue
		}
		end := today
		if c.FFin != nil && dateOnly(*c.FFin).Before(today) {
			end = dateOnly(*c.FFin)
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out
}

// Merge consolidates overlapping or back-to-back intervals into continuous
// tenure. A contract starting within one day of the previous end closes no
// gap, so it extends the running interval.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End.AddDate(0, 0, 1)) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func overlapDays(a, b Interval) int64 {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	return Interval{Start: start, End: end}.Days()
}

// WindowAccrual is one accrual window of the report: a one-year period
// counted from the employee's earliest contract start.
type WindowAccrual struct {
	Periodo        string          `json:"periodo"`
	Inicio         time.Time       `json:"inicio"`
	Fin            time.Time       `json:"fin"`
	DiasTrabajados int64           `json:"dias_trabajados"`
	Generados      decimal.Decimal `json:"generados"`
	Usados         decimal.Decimal `json:"usados"`
	Saldo          decimal.Decimal `json:"saldo"`
}

type Report struct {
	Windows        []WindowAccrual `json:"ventanas"`
	TotalGenerados decimal.Decimal `json:"total_generados"`
	TotalUsados    decimal.Decimal `json:"total_usados"`
	TotalSaldo     decimal.Decimal `json:"total_saldo"`
}

// WindowLabel matches the "periodo" convention of the VACACIONES records.
func WindowLabel(windowStart time.Time) string {
	return fmt.Sprintf("%d-%d", windowStart.Year(), windowStart.Year()+1)
}

// BuildReport estimates generated, used and outstanding vacation days per
// accrual window. Usage rows are matched to windows by periodo label.
func BuildReport(contracts []models.Contract, usage []models.VacationPeriod, today time.Time) Report {
	today = dateOnly(today)
	intervals := Merge(ContractIntervals(contracts, today))

	rep := Report{
		TotalGenerados: decimal.Zero,
		TotalUsados:    decimal.Zero,
		TotalSaldo:     decimal.Zero,
	}
	if len(intervals) == 0 {
		return rep
	}

	usedByPeriodo := make(map[string]decimal.Decimal)
	for _, u := range usage {
		d, err := decimal.NewFromString(u.DiasUsados)
		if err != nil {
			continue
		}
		usedByPeriodo[u.Periodo] = usedByPeriodo[u.Periodo].Add(d)
	}

	earliest := intervals[0].Start
	for ws := earliest; !ws.After(today); ws = ws.AddDate(1, 0, 0) {
		window := Interval{Start: ws, End: ws.AddDate(1, 0, 0).AddDate(0, 0, -1)}

		var worked int64
		for _, iv := range intervals {
			worked += overlapDays(window, iv)
		}

		label := WindowLabel(ws)
		generados := decimal.NewFromInt(worked).Mul(diasGeneracion).Div(diasPorTramo).Round(2)
		usados := usedByPeriodo[label]
		saldo := generados.Sub(usados)

		rep.Windows = append(rep.Windows, WindowAccrual{
			Periodo:        label,
			Inicio:         window.Start,
			Fin:            window.End,
			DiasTrabajados: worked,
			Generados:      generados,
			Usados:         usados,
			Saldo:          saldo,
		})
		rep.TotalGenerados = rep.TotalGenerados.Add(generados)
		rep.TotalUsados = rep.TotalUsados.Add(usados)
		rep.TotalSaldo = rep.TotalSaldo.Add(saldo)
	}

	return rep
}
