package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/sunspot/core/algo"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mode schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       mode,
		Precision:    2,
		Width:        120,
		Granularity:  schema.RawGranularity,
		CacheBackend: schema.SQLiteBackend,
	}
}

func sampleSummary() schema.SummaryResult {
	return schema.SummaryResult{
		Field:   schema.GHI,
		Display: schema.FieldDisplayName(schema.GHI),
		Stats: []schema.GroupStats{
			{Origin: schema.Benin, Count: 3, Mean: schema.Some(240.5), Median: schema.Some(230), Std: schema.Some(12.25), Min: schema.Some(0), Max: schema.Some(900), CV: schema.Some(5.09)},
			{Origin: schema.Togo, Count: 1, Mean: schema.Some(100), Median: schema.Some(100), Std: schema.None(), Min: schema.Some(100), Max: schema.Some(100), CV: schema.None()},
		},
	}
}

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSummaryResultsTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummaryResults(&buf, sampleSummary(), testConfig(schema.TextOut), 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Global Horizontal Irradiance")
	assert.Contains(t, output, "Benin")
	assert.Contains(t, output, "240.50")
	assert.Contains(t, output, "900.00", "wide tables include max")
	assert.Contains(t, output, "-", "missing std renders as a dash")
	assert.Contains(t, output, "over 4 rows")
}

func TestWriteSummaryResultsNarrowTableDropsMinMax(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	cfg.Width = 60

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryResults(&buf, sampleSummary(), cfg, time.Second))
	assert.NotContains(t, buf.String(), "900.00")
}

func TestWriteSummaryResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryResults(&buf, sampleSummary(), testConfig(schema.CSVOut), time.Second))

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"field", "origin", "count", "mean", "median", "std", "min", "max", "cv"}, records[0])
	assert.Equal(t, []string{"GHI", "Benin", "3", "240.50", "230.00", "12.25", "0.00", "900.00", "5.09"}, records[1])
	assert.Equal(t, "", records[2][5], "missing std is an empty cell")
}

func TestWriteSummaryResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryResults(&buf, sampleSummary(), testConfig(schema.JSONOut), time.Second))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "GHI", decoded["field"])
	stats := decoded["stats"].([]any)
	require.Len(t, stats, 2)
	togo := stats[1].(map[string]any)
	assert.Nil(t, togo["std"])
	assert.InDelta(t, 100.0, togo["mean"], 1e-9)
}

func TestWriteRankResults(t *testing.T) {
	entries := []schema.RankEntry{
		{Rank: 1, Origin: schema.Benin, Mean: schema.Some(240)},
		{Rank: 2, Origin: schema.Togo, Mean: schema.Some(120)},
		{Rank: 3, Origin: schema.SierraLeone, Mean: schema.None()},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRankResults(&buf, schema.GHI, entries, testConfig(schema.TextOut), time.Second))
		output := buf.String()
		assert.Contains(t, output, "Average Global Horizontal Irradiance")
		assert.Contains(t, output, strings.Repeat("█", maxBarWidth))
		assert.Contains(t, output, strings.Repeat("█", maxBarWidth/2))
		assert.Contains(t, output, "Ranked 3 origins")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRankResults(&buf, schema.GHI, entries, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, &buf)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"1", "Benin", "GHI", "240.00"}, records[1])
		assert.Equal(t, []string{"3", "Sierra Leone", "GHI", ""}, records[3])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRankResults(&buf, schema.GHI, entries, testConfig(schema.JSONOut), time.Second))
		var decoded struct {
			Field   string             `json:"field"`
			Ranking []schema.RankEntry `json:"ranking"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "GHI", decoded.Field)
		assert.Equal(t, entries, decoded.Ranking)
	})
}

func TestMeanBar(t *testing.T) {
	assert.Empty(t, meanBar(schema.None(), 10))
	assert.Empty(t, meanBar(schema.Some(5), 0))
	assert.Empty(t, meanBar(schema.Some(-1), 10))
	assert.Equal(t, "█", meanBar(schema.Some(0.001), 1000), "tiny positive means still get one block")
	assert.Equal(t, strings.Repeat("█", maxBarWidth), meanBar(schema.Some(10), 10))
}

func TestWriteSignificanceResults(t *testing.T) {
	results := []schema.TestResult{
		{TestName: "ANOVA", Field: schema.GHI, Statistic: schema.Some(12.5), PValue: 0.00001, Significant: true, DF1: 2, DF2: 9, N: 12, Groups: []schema.Origin{schema.Benin, schema.Togo, schema.SierraLeone}},
		{TestName: "Kruskal-Wallis", Field: schema.GHI, Statistic: schema.Some(math.Inf(1)), PValue: 0.2, DF1: 2, N: 12, Groups: []schema.Origin{schema.Benin, schema.Togo, schema.SierraLeone}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSignificanceResults(&buf, results, testConfig(schema.TextOut), time.Second))
		output := buf.String()
		assert.Contains(t, output, "ANOVA")
		assert.Contains(t, output, "1.00e-05")
		assert.Contains(t, output, "+Inf")
		assert.Contains(t, output, "2, 9")
		assert.Contains(t, output, contract.SignificantValue)
		assert.Contains(t, output, contract.NotSignificantValue)
		assert.Contains(t, output, "Significance level: p < "+strconv.FormatFloat(algo.SignificanceLevel, 'g', -1, 64)+".")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSignificanceResults(&buf, results, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, &buf)
		require.Len(t, records, 3)
		assert.Equal(t, "true", records[1][4])
		assert.Equal(t, "Benin|Togo|Sierra Leone", records[1][8])
		assert.Equal(t, "+Inf", records[2][2])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSignificanceResults(&buf, results, testConfig(schema.JSONOut), time.Second))
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, contract.SignificantValue, decoded[0]["label"])
		assert.Equal(t, "+Inf", decoded[1]["statistic"])
	})
}

func sampleRecommendation() schema.Recommendation {
	return schema.Recommendation{
		PrimaryTarget:   &schema.Candidate{Origin: schema.Benin, Value: schema.Some(240)},
		SecondaryTarget: &schema.Candidate{Origin: schema.Togo, Value: schema.Some(5)},
		MostConsistent:  &schema.Candidate{Origin: schema.SierraLeone, Value: schema.Some(190)},
		Technology:      schema.CSPTechnology,
		CSPCandidates:   []schema.Candidate{{Origin: schema.Benin, Value: schema.Some(410)}},
		RiskFlags:       []schema.RiskFlag{{Kind: schema.HighHumidity, Origin: schema.SierraLeone, Value: schema.Some(80)}},
	}
}

func TestWriteRecommendationText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecommendation(&buf, sampleRecommendation(), testConfig(schema.TextOut), time.Second))
	output := buf.String()
	assert.Contains(t, output, "Primary target (highest mean GHI): Benin (240.00)")
	assert.Contains(t, output, "Technology: CSP")
	assert.Contains(t, output, "CSP candidate Benin with mean DNI 410.00")
	assert.Contains(t, output, "HighHumidity at Sierra Leone (80.00)")
}

func TestWriteRecommendationWithoutCandidates(t *testing.T) {
	var buf bytes.Buffer
	rec := schema.Recommendation{Technology: schema.PVTechnology}
	require.NoError(t, WriteRecommendation(&buf, rec, testConfig(schema.TextOut), time.Second))
	output := buf.String()
	assert.Contains(t, output, "Primary target (highest mean GHI): n/a")
	assert.Contains(t, output, "Risk flags: none")
}

func TestWriteRecommendationCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecommendation(&buf, sampleRecommendation(), testConfig(schema.CSVOut), time.Second))
	records := readCSV(t, &buf)
	require.Len(t, records, 7)
	assert.Equal(t, []string{"kind", "origin", "label", "value"}, records[0])
	assert.Equal(t, []string{"primary_target", "Benin", "Benin", "240.00"}, records[1])
	assert.Equal(t, []string{"technology", "", "CSP", ""}, records[4])
	assert.Equal(t, []string{"risk_flag", "Sierra Leone", "HighHumidity", "80.00"}, records[6])
}

func TestWriteRecommendationJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecommendation(&buf, sampleRecommendation(), testConfig(schema.JSONOut), time.Second))
	var decoded schema.Recommendation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRecommendation(), decoded)
}

func sampleDataset() schema.Dataset {
	ts := time.Date(2021, 8, 9, 10, 0, 0, 0, time.UTC)
	hour, month := 10, 8
	return schema.Dataset{Rows: []schema.Observation{
		{Origin: schema.Benin, Timestamp: &ts, Hour: &hour, Month: &month, Date: "2021-08-09", GHI: schema.Some(500), DNI: schema.Some(300), Tamb: schema.Some(31.5)},
		{Origin: schema.Togo, GHI: schema.Some(1)},
	}}
}

func TestWriteDatasetCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDataset(&buf, sampleDataset(), testConfig(schema.CSVOut), time.Second))
	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, datasetHeader(), records[0])
	assert.Equal(t, []string{"Benin", "2021-08-09T10:00:00Z", "", "10", "8", "2021-08-09", "500.00", "300.00", "", "31.50", "", "", ""}, records[1])
	assert.Equal(t, "", records[2][1], "rows without a timestamp have empty time columns")
}

func TestWriteDatasetTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	cfg.Width = 60

	var buf bytes.Buffer
	require.NoError(t, WriteDataset(&buf, sampleDataset(), cfg, time.Second))
	output := buf.String()
	assert.Contains(t, output, "2021-08-09T10:00:00Z")
	assert.Contains(t, output, "31.50")
	assert.Contains(t, output, "Showing 2 of 2 rows at raw granularity")
}

func TestWriteDatasetTableIsCapped(t *testing.T) {
	ds := schema.Dataset{}
	for range maxTableRows + 5 {
		ds.Rows = append(ds.Rows, schema.Observation{Origin: schema.Togo, GHI: schema.Some(1)})
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDataset(&buf, ds, testConfig(schema.TextOut), time.Second))
	assert.Contains(t, buf.String(), "Showing 50 of 55 rows")
}

func TestWriteDatasetJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDataset(&buf, schema.Dataset{}, testConfig(schema.JSONOut), time.Second))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteCorrelation(t *testing.T) {
	m := schema.CorrelationMatrix{
		Fields: []schema.Field{schema.GHI, schema.Tamb},
		Values: [][]schema.Value{{schema.Some(1), schema.Some(0.75)}, {schema.Some(0.75), schema.Some(1)}},
		Pairs:  [][]int{{10, 8}, {8, 9}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCorrelation(&buf, m, testConfig(schema.TextOut), time.Second))
		assert.Contains(t, buf.String(), "0.75")
		assert.Contains(t, buf.String(), "1.00")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCorrelation(&buf, m, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, &buf)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"GHI", "Tamb", "0.75", "8"}, records[2])
	})
}

func TestWriteProfile(t *testing.T) {
	points := []schema.ProfilePoint{
		{Origin: schema.Benin, Hour: 6, Mean: schema.Some(12), Count: 2},
		{Origin: schema.Benin, Hour: 12, Mean: schema.Some(800), Count: 2},
		{Origin: schema.Togo, Hour: 12, Mean: schema.Some(750), Count: 1},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProfile(&buf, schema.GHI, points, testConfig(schema.TextOut), time.Second))
		output := buf.String()
		assert.Contains(t, output, "06:00")
		assert.Contains(t, output, "12:00")
		assert.Contains(t, output, "750.00")
		assert.NotContains(t, output, "07:00")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProfile(&buf, schema.GHI, points, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, &buf)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"GHI", "Togo", "12", "750.00", "1"}, records[3])
	})
}

func TestWriteStatsResults(t *testing.T) {
	report := StatsReport{
		Overview: schema.Overview{
			Field:        schema.GHI,
			TotalRecords: 4,
			Origins:      []schema.Origin{schema.Benin, schema.Togo},
			OverallMean:  schema.Some(205.38),
			BestOrigin:   schema.Benin,
			BestMean:     schema.Some(240.5),
		},
		Stats: []schema.SummaryResult{sampleSummary()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatsResults(&buf, report, testConfig(schema.TextOut), time.Second))
	output := buf.String()
	assert.Contains(t, output, "Records: 4  Origins: 2")
	assert.Contains(t, output, "Best origin by GHI: Benin (240.50)")

	buf.Reset()
	require.NoError(t, WriteStatsResults(&buf, report, testConfig(schema.CSVOut), time.Second))
	assert.Len(t, readCSV(t, &buf), 3)
}
