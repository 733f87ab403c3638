package schema

// GroupStats holds the descriptive statistics of one field for one origin.
// Every statistic is no value when Count is 0; Std and CV are also no value when Count is 1.
type GroupStats struct {
	Origin Origin `json:"origin"`
	Count  int    `json:"count"`
	Mean   Value  `json:"mean"`
	Median Value  `json:"median"`
	Std    Value  `json:"std"`
	Min    Value  `json:"min"`
	Max    Value  `json:"max"`
	CV     Value  `json:"cv"`
}

// SummaryResult is the per-origin summary of one field.
type SummaryResult struct {
	Field   Field        `json:"field"`
	Display string       `json:"display"`
	Stats   []GroupStats `json:"stats"`
}

// RankEntry is one row of an origin ranking.
type RankEntry struct {
	Rank   int    `json:"rank"`
	Origin Origin `json:"origin"`
	Mean   Value  `json:"mean"`
}

// TestResult is the outcome of one significance test.
type TestResult struct {
	TestName    string   `json:"test"`
	Field       Field    `json:"field"`
	Statistic   Value    `json:"statistic"`
	PValue      float64  `json:"p_value"`
	Significant bool     `json:"significant"`
	DF1         int      `json:"df1"`
	DF2         int      `json:"df2,omitempty"`
	Groups      []Origin `json:"groups"`
	N           int      `json:"n"`
}

// RiskFlag is an operational risk raised for one origin.
type RiskFlag struct {
	Kind   RiskKind `json:"kind"`
	Origin Origin   `json:"origin"`
	Value  Value    `json:"value"`
}

// Candidate pairs an origin with the statistic that selected it.
type Candidate struct {
	Origin Origin `json:"origin"`
	Value  Value  `json:"value"`
}

// Recommendation is the deployment advice derived from per-origin statistics.
// Pointer fields are nil when no origin had a defined statistic.
type Recommendation struct {
	PrimaryTarget   *Candidate  `json:"primary_target"`
	SecondaryTarget *Candidate  `json:"secondary_target"`
	MostConsistent  *Candidate  `json:"most_consistent"`
	Technology      Technology  `json:"technology"`
	CSPCandidates   []Candidate `json:"csp_candidates"`
	RiskFlags       []RiskFlag  `json:"risk_flags"`
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients between fields.
type CorrelationMatrix struct {
	Fields []Field   `json:"fields"`
	Values [][]Value `json:"values"`
	Pairs  [][]int   `json:"pairs"`
}

// ProfilePoint is the mean of a field at one hour of day for one origin.
type ProfilePoint struct {
	Origin Origin `json:"origin"`
	Hour   int    `json:"hour"`
	Mean   Value  `json:"mean"`
	Count  int    `json:"count"`
}

// Overview is the headline summary of a dataset.
type Overview struct {
	Field        Field    `json:"field"`
	TotalRecords int      `json:"total_records"`
	Origins      []Origin `json:"origins"`
	OverallMean  Value    `json:"overall_mean"`
	BestOrigin   Origin   `json:"best_origin,omitempty"`
	BestMean     Value    `json:"best_mean"`
}

// DetailedStats maps field to origin to statistics.
type DetailedStats map[Field]map[Origin]GroupStats
