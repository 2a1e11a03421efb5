// Package extract turns client spreadsheet exports into tables of raw rows
// keyed by canonical field names. Locating the data sheet, the header row
// and the source columns is client-specific; the Mapper interface hides the
// strategy behind one call.
package extract

// Row is one source line item with every recognized canonical field as raw
// text. Fields that the source file does not carry stay empty.
type Row struct {
	Code     string
	Campaign string
	Target   string

	Country  string
	Market   string
	State    string
	Location string

	Exhibitor      string
	Media          string
	Classification string
	DisplayType    string

	Size                 string
	Frequency            string
	PeriodQuantity       string
	InsertionFacesPeriod string
	PurchaseUnit         string

	StartDate string
	EndDate   string

	WeeklyFlow      string
	WeeklyImpact    string
	PeriodicImpact  string
	FacesXFrequency string
	CPMTarget       string
	NetUnitPrice    string
	NetTotal        string
}

// Table is the sole artifact a mapper produces: one Row per source data
// row, no structural metadata.
type Table struct {
	Rows []Row
}

// Mapper extracts the canonical-field table from one workbook. A non-nil
// error is a human-readable structural failure (missing data sheet, header
// not found); the caller skips the file and retries it on a later run.
type Mapper interface {
	Map(path string) (*Table, error)
}

// StrategyFor picks the mapper for a client directory name. Clients with
// structurally different workbooks get their specialized reader; everyone
// else gets the standard one.
func StrategyFor(client string) Mapper {
	if fold(client) == "BRADESCO" {
		return NewBradescoReader()
	}
	return NewStandardReader()
}
