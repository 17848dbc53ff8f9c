package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ShiftSlot is the position of a shift within its day.
type ShiftSlot string

const (
	SlotMorning   ShiftSlot = "MORNING"
	SlotAfternoon ShiftSlot = "AFTERNOON"
	SlotNight     ShiftSlot = "NIGHT"
)

// Order ranks slots within a day. Unknown slots sort last.
func (s ShiftSlot) Order() int {
	switch s {
	case SlotMorning:
		return 0
	case SlotAfternoon:
		return 1
	case SlotNight:
		return 2
	}
	return 3
}

type ShiftStatus string

const (
	ShiftStarted   ShiftStatus = "STARTED"
	ShiftCompleted ShiftStatus = "COMPLETED"
)

type NozzleReadingType string

const (
	ReadingOpen  NozzleReadingType = "OPEN"
	ReadingClose NozzleReadingType = "CLOSE"
)

// NozzleReading is a totalizer reading taken at the start or end of a shift.
type NozzleReading struct {
	NozzleID    string            `json:"nozzleID"`
	ReadingType NozzleReadingType `json:"readingType"`
	Totalizer   decimal.Decimal   `json:"totalizer"`
	PumpTest    decimal.Decimal   `json:"pumpTest"` // liters dispensed for calibration, not sold
}

// OperatorShift is one operator's sales shift.
type OperatorShift struct {
	ShiftID     string          `json:"shiftID"`
	StationID   string          `json:"stationID"`
	OperatorID  string          `json:"operatorID"`
	ShiftDate   time.Time       `json:"shiftDate"`
	Slot        ShiftSlot       `json:"slot"`
	Status      ShiftStatus     `json:"status"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	IsVerified  bool            `json:"isVerified"`
	VerifiedBy  *string         `json:"verifiedBy,omitempty"`
	Readings    []NozzleReading `json:"readings"`
}

// Position is the shift's place in the station's (date, slot) order.
func (s OperatorShift) Position() ShiftPosition {
	return ShiftPosition{Date: s.ShiftDate, Slot: s.Slot}
}

// SalesForNozzles sums close - open - pumpTest over the given nozzles.
// Nozzles missing either reading contribute nothing.
func (s OperatorShift) SalesForNozzles(nozzles map[string]struct{}) decimal.Decimal {
	open := make(map[string]NozzleReading)
	closing := make(map[string]NozzleReading)
	for _, r := range s.Readings {
		if _, ok := nozzles[r.NozzleID]; !ok {
			continue
		}
		switch r.ReadingType {
		case ReadingOpen:
			open[r.NozzleID] = r
		case ReadingClose:
			closing[r.NozzleID] = r
		}
	}

	total := decimal.Zero
	for id, c := range closing {
		o, ok := open[id]
		if !ok {
			continue
		}
		total = total.Add(c.Totalizer.Sub(o.Totalizer).Sub(c.PumpTest))
	}
	return total
}

// ShiftPosition orders shifts by calendar date, then slot.
type ShiftPosition struct {
	Date time.Time
	Slot ShiftSlot
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Compare returns -1, 0 or 1.
func (p ShiftPosition) Compare(o ShiftPosition) int {
	a, b := dayKey(p.Date), dayKey(o.Date)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	switch ps, os := p.Slot.Order(), o.Slot.Order(); {
	case ps < os:
		return -1
	case ps > os:
		return 1
	}
	return 0
}

// ShiftSequence is a station's shifts in (date, slot) order.
type ShiftSequence []OperatorShift

// NewShiftSequence copies and sorts shifts. Shifts sharing a position keep ID order.
func NewShiftSequence(shifts []OperatorShift) ShiftSequence {
	seq := make(ShiftSequence, len(shifts))
	copy(seq, shifts)
	sort.SliceStable(seq, func(i, j int) bool {
		if c := seq[i].Position().Compare(seq[j].Position()); c != 0 {
			return c < 0
		}
		return seq[i].ShiftID < seq[j].ShiftID
	})
	return seq
}

// After walks the sequence and returns every shift strictly later than pos.
func (s ShiftSequence) After(pos ShiftPosition) []OperatorShift {
	i := sort.Search(len(s), func(i int) bool {
		return s[i].Position().Compare(pos) > 0
	})
	out := make([]OperatorShift, len(s)-i)
	copy(out, s[i:])
	return out
}

// VerifiedAfter is After restricted to verified shifts.
func (s ShiftSequence) VerifiedAfter(pos ShiftPosition) []OperatorShift {
	var out []OperatorShift
	for _, sh := range s.After(pos) {
		if sh.IsVerified {
			out = append(out, sh)
		}
	}
	return out
}
