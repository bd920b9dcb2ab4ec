package dataset

import "titanicdash/domain/core"

// AgeGroup is the derived age bucket attached to every record at load time.
type AgeGroup string

const (
	AgeGroupUnknown     AgeGroup = "Unknown"
	AgeGroupChildren    AgeGroup = "Children (<18)"
	AgeGroupYoungAdults AgeGroup = "Young adults (18–29)"
	AgeGroupAdults      AgeGroup = "Adults (30–49)"
	AgeGroupSeniors     AgeGroup = "Seniors (50+)"
)

// AgeGroups lists the buckets in display order.
var AgeGroups = []AgeGroup{
	AgeGroupChildren,
	AgeGroupYoungAdults,
	AgeGroupAdults,
	AgeGroupSeniors,
	AgeGroupUnknown,
}

// AgeGroupColumn is the name of the derived column appended to the schema.
const AgeGroupColumn = "AgeGroup"

// ColumnSummary is the per-column missing/uniqueness report
type ColumnSummary struct {
	Column     string     `json:"column"`
	Type       ColumnType `json:"type"`
	Distinct   int        `json:"distinct"`
	Missing    int        `json:"missing"`
	MissingPct float64    `json:"missing_pct"` // rounded half-up to 2 decimals
}

// CategoricalSummary reports the most frequent value of a column.
// Mode is missing when the column has no values at all.
type CategoricalSummary struct {
	Column        string `json:"column"`
	Mode          Value  `json:"mode"`
	ModeCount     int    `json:"mode_count"`
	DistinctCount int    `json:"distinct_count"`
}

// ModeLabel renders the mode or the no-data marker.
func (s CategoricalSummary) ModeLabel() string {
	if s.Mode.Missing() {
		return NoDataLabel
	}
	return s.Mode.String()
}

// SurvivalOutcome names one side of the survival split
type SurvivalOutcome string

const (
	OutcomeDidNotSurvive SurvivalOutcome = "did not survive"
	OutcomeSurvived      SurvivalOutcome = "survived"
)

// SurvivalGroup aggregates the records sharing one survival outcome
type SurvivalGroup struct {
	Group    SurvivalOutcome `json:"group"`
	Count    int             `json:"count"`
	MeanAge  Measurement     `json:"mean_age"`
	MeanFare Measurement     `json:"mean_fare"`
}

// NumericDescription mirrors a describe() row for one quantitative column
type NumericDescription struct {
	Column string      `json:"column"`
	Count  int         `json:"count"`
	Mean   Measurement `json:"mean"`
	Std    Measurement `json:"std"`
	Min    Measurement `json:"min"`
	Q25    Measurement `json:"q25"`
	Median Measurement `json:"median"`
	Q75    Measurement `json:"q75"`
	Max    Measurement `json:"max"`
}

// FieldInfo is one line of the table info block
type FieldInfo struct {
	Column  string     `json:"column"`
	NonNull int        `json:"non_null"`
	Type    ColumnType `json:"type"`
}

// TableInfo describes table shape and column density
type TableInfo struct {
	Source   string         `json:"source"`
	LoadedAt core.Timestamp `json:"loaded_at"`
	Rows     int            `json:"rows"`
	Columns  int            `json:"columns"`
	Fields   []FieldInfo    `json:"fields"`
}

// HistogramBin is one equal-width bin, [Low, High) except the last which is closed.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// DensityPoint is one evaluation of a kernel density estimate
type DensityPoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// Histogram is the binned distribution of a numeric column. Density is a
// Gaussian kernel density estimate over the same values, empty when fewer
// than two distinct values exist.
type Histogram struct {
	Column    string         `json:"column"`
	Bins      []HistogramBin `json:"bins"`
	Total     int            `json:"total"`
	Missing   int            `json:"missing"`
	Density   []DensityPoint `json:"density,omitempty"`
	Bandwidth float64        `json:"bandwidth,omitempty"`
}

// BinWidth is the width of each bin, 0 for an empty histogram.
func (h Histogram) BinWidth() float64 {
	if len(h.Bins) == 0 {
		return 0
	}
	return h.Bins[0].High - h.Bins[0].Low
}

// CountGroup is one bar of a count plot: records with X and Hue.
type CountGroup struct {
	X     string `json:"x"`
	Hue   string `json:"hue"`
	Count int    `json:"count"`
}

// BoxSummary holds box plot statistics for one group
type BoxSummary struct {
	Group        string      `json:"group"`
	Count        int         `json:"count"`
	Min          Measurement `json:"min"`
	Q1           Measurement `json:"q1"`
	Median       Measurement `json:"median"`
	Q3           Measurement `json:"q3"`
	Max          Measurement `json:"max"`
	LowerWhisker Measurement `json:"lower_whisker"`
	UpperWhisker Measurement `json:"upper_whisker"`
	Outliers     []float64   `json:"outliers"`
}

// NumericRange is the observed extent of a numeric column
type NumericRange struct {
	Column string      `json:"column"`
	Min    Measurement `json:"min"`
	Max    Measurement `json:"max"`
}
