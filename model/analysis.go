package model

// Severity is the coarse three-level risk rating assigned to a clause.
type Severity string

const (
	SeverityRed    Severity = "Red"
	SeverityYellow Severity = "Yellow"
	SeverityGreen  Severity = "Green"
)

// RiskItem is one normalized entry of a risk analysis. Severity is always
// one of the three Severity constants; Yellow is the default for anything
// the model left out or that could not be recognized.
type RiskItem struct {
	Clause   string   `json:"clause"`
	Severity Severity `json:"severity"`
	Details  string   `json:"details"`
}

// ClauseKeys are the fixed fields the clause-extraction prompt asks for.
var ClauseKeys = []string{"Payment", "Dates", "Termination", "Liabilities", "IP"}

// AllowedExtensions are the upload file types the service accepts, matched
// case-insensitively on the substring after the last dot.
var AllowedExtensions = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"doc":  true,
	"docx": true,
}
