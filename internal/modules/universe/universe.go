// Package universe resolves a named static symbol list (spec §4.7,
// glossary entry "Universe") and provides the ticker→sector lookup the
// portfolio-risk aggregator buckets positions by. It carries none of the
// teacher's live security-metadata sync machinery — these are fixed,
// in-memory tables, not a database-backed catalog.
package universe

import "github.com/aristath/chartwatch/internal/domain"

// Name identifies a named universe.
type Name string

const (
	SP500     Name = "sp500"
	Nasdaq100 Name = "nasdaq100"
)

// Sector is one of the eleven GICS sectors the portfolio-risk report
// buckets positions into (spec §4.7).
type Sector string

const (
	SectorInformationTechnology Sector = "Information Technology"
	SectorHealthcare            Sector = "Healthcare"
	SectorFinancials            Sector = "Financials"
	SectorConsumerDiscretionary Sector = "Consumer Discretionary"
	SectorConsumerStaples       Sector = "Consumer Staples"
	SectorEnergy                Sector = "Energy"
	SectorIndustrials           Sector = "Industrials"
	SectorMaterials             Sector = "Materials"
	SectorUtilities             Sector = "Utilities"
	SectorRealEstate            Sector = "Real Estate"
	SectorCommunicationServices Sector = "Communication Services"
)

// AllSectors lists the eleven sectors in a fixed display order, used by
// the portfolio-risk report so a sector with zero positions still shows up
// with a zero row rather than being silently absent.
var AllSectors = []Sector{
	SectorInformationTechnology, SectorHealthcare, SectorFinancials,
	SectorConsumerDiscretionary, SectorConsumerStaples, SectorEnergy,
	SectorIndustrials, SectorMaterials, SectorUtilities, SectorRealEstate,
	SectorCommunicationServices,
}

// sectorMap is a trimmed, static ticker→sector lookup. It is not an
// exhaustive constituent list for any index; it covers the symbols the
// named universes below reference plus enough well-known names to make
// portfolio-risk bucketing exercises meaningful.
var sectorMap = map[string]Sector{
	"AAPL": SectorInformationTechnology,
	"MSFT": SectorInformationTechnology,
	"NVDA": SectorInformationTechnology,
	"AVGO": SectorInformationTechnology,
	"ORCL": SectorInformationTechnology,
	"CRM":  SectorInformationTechnology,
	"ADBE": SectorInformationTechnology,
	"AMD":  SectorInformationTechnology,
	"CSCO": SectorInformationTechnology,
	"INTC": SectorInformationTechnology,

	"JNJ":  SectorHealthcare,
	"UNH":  SectorHealthcare,
	"LLY":  SectorHealthcare,
	"PFE":  SectorHealthcare,
	"ABBV": SectorHealthcare,
	"MRK":  SectorHealthcare,
	"TMO":  SectorHealthcare,

	"JPM": SectorFinancials,
	"BAC": SectorFinancials,
	"WFC": SectorFinancials,
	"GS":  SectorFinancials,
	"MS":  SectorFinancials,
	"V":   SectorFinancials,
	"MA":  SectorFinancials,

	"AMZN": SectorConsumerDiscretionary,
	"TSLA": SectorConsumerDiscretionary,
	"HD":   SectorConsumerDiscretionary,
	"MCD":  SectorConsumerDiscretionary,
	"NKE":  SectorConsumerDiscretionary,
	"SBUX": SectorConsumerDiscretionary,

	"PG":  SectorConsumerStaples,
	"KO":  SectorConsumerStaples,
	"PEP": SectorConsumerStaples,
	"WMT": SectorConsumerStaples,
	"COST": SectorConsumerStaples,

	"XOM": SectorEnergy,
	"CVX": SectorEnergy,
	"COP": SectorEnergy,
	"SLB": SectorEnergy,

	"CAT": SectorIndustrials,
	"BA":  SectorIndustrials,
	"HON": SectorIndustrials,
	"UPS": SectorIndustrials,
	"GE":  SectorIndustrials,

	"LIN": SectorMaterials,
	"SHW": SectorMaterials,
	"APD": SectorMaterials,

	"NEE": SectorUtilities,
	"DUK": SectorUtilities,
	"SO":  SectorUtilities,

	"PLD": SectorRealEstate,
	"AMT": SectorRealEstate,
	"SPG": SectorRealEstate,

	"GOOGL": SectorCommunicationServices,
	"META":  SectorCommunicationServices,
	"NFLX":  SectorCommunicationServices,
	"DIS":   SectorCommunicationServices,
	"CMCSA": SectorCommunicationServices,
}

// SectorOf returns the sector for a symbol, and whether it's known. The
// portfolio-risk aggregator treats an unknown symbol as its own
// single-member "Unknown" bucket rather than failing the whole report.
func SectorOf(symbol string) (Sector, bool) {
	s, ok := sectorMap[symbol]
	return s, ok
}

var universes = map[Name][]string{
	SP500: {
		"AAPL", "MSFT", "NVDA", "AVGO", "ORCL", "CRM", "ADBE", "AMD", "CSCO", "INTC",
		"JNJ", "UNH", "LLY", "PFE", "ABBV", "MRK", "TMO",
		"JPM", "BAC", "WFC", "GS", "MS", "V", "MA",
		"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX",
		"PG", "KO", "PEP", "WMT", "COST",
		"XOM", "CVX", "COP", "SLB",
		"CAT", "BA", "HON", "UPS", "GE",
		"LIN", "SHW", "APD",
		"NEE", "DUK", "SO",
		"PLD", "AMT", "SPG",
		"GOOGL", "META", "NFLX", "DIS", "CMCSA",
	},
	Nasdaq100: {
		"AAPL", "MSFT", "NVDA", "AVGO", "ORCL", "CRM", "ADBE", "AMD", "CSCO", "INTC",
		"AMZN", "TSLA", "GOOGL", "META", "NFLX", "COST", "PEP", "SBUX",
	},
}

// Resolve returns the static symbol list for name, or CodeUnknownUniverse
// if name is not recognized.
func Resolve(name Name) ([]string, error) {
	symbols, ok := universes[name]
	if !ok {
		return nil, domain.NewError(domain.CodeUnknownUniverse, "unknown universe: "+string(name))
	}
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out, nil
}
