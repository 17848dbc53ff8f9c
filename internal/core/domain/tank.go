package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tank is an underground fuel tank at a station.
type Tank struct {
	TankID       string          `json:"tankID"`
	StationID    string          `json:"stationID"`
	ProductID    string          `json:"productID"`
	Code         string          `json:"code"`
	Capacity     decimal.Decimal `json:"capacity"`
	InitialStock decimal.Decimal `json:"initialStock"`
	UnitCost     decimal.Decimal `json:"unitCost"` // inventory cost per liter
}

// Nozzle is a dispenser nozzle drawing from one tank.
type Nozzle struct {
	NozzleID  string `json:"nozzleID"`
	StationID string `json:"stationID"`
	TankID    string `json:"tankID"`
	Code      string `json:"code"`
}

// TankReading is a manual dip measurement.
type TankReading struct {
	ReadingID  string          `json:"readingID"`
	StationID  string          `json:"stationID"`
	TankID     string          `json:"tankID"`
	LiterValue decimal.Decimal `json:"literValue"`
	Approval
	LoaderID string `json:"loaderID"`
	// VarianceLiters is reading minus computed stock, fixed at approval time.
	VarianceLiters decimal.Decimal `json:"varianceLiters"`
	AuditFields
}

func (r *TankReading) Kind() EntityKind         { return KindTankReading }
func (r *TankReading) EntityID() string         { return r.ReadingID }
func (r *TankReading) ApprovalState() *Approval { return &r.Approval }

// MeasuredAt is the instant the reading applies to.
func (r TankReading) MeasuredAt() time.Time {
	return r.CreatedAt
}

// StockSource says which rule of the stock cascade produced a figure.
type StockSource string

const (
	StockFromTodayReading         StockSource = "TODAY_READING"
	StockFromTodayReadingAdjusted StockSource = "TODAY_READING_ADJUSTED"
	StockFromLastReading          StockSource = "LAST_READING"
	StockFromInitial              StockSource = "INITIAL_STOCK"
)

// StockSnapshot is a tank's computed volume and how it was derived.
type StockSnapshot struct {
	TankID       string          `json:"tankID"`
	Liters       decimal.Decimal `json:"liters"`
	Source       StockSource     `json:"source"`
	ReadingID    *string         `json:"readingID,omitempty"`
	BaseValue    decimal.Decimal `json:"baseValue"` // reading value or initial stock
	UnloadsSince decimal.Decimal `json:"unloadsSince"`
	SalesSince   decimal.Decimal `json:"salesSince"`
	AsOf         time.Time       `json:"asOf"`
}
