// Package agg has time-bucket aggregation logic for observation datasets.
package agg

import (
	"sort"
	"time"

	"github.com/huangsam/sunspot/schema"
)

// Bucket key layouts per granularity. All are lexically sortable.
const (
	hourlyKeyLayout  = "2006-01-02T15:00"
	dailyKeyLayout   = "2006-01-02"
	monthlyKeyLayout = "2006-01"
)

// bucketID groups observations by bucket key and origin.
type bucketID struct {
	key    string
	origin schema.Origin
}

// bucketAcc accumulates per-field sums over present values of one bucket.
type bucketAcc struct {
	start  time.Time
	sums   map[schema.Field]float64
	counts map[schema.Field]int
}

func newBucketAcc(start time.Time) *bucketAcc {
	return &bucketAcc{
		start:  start,
		sums:   make(map[schema.Field]float64, len(schema.AllFields)),
		counts: make(map[schema.Field]int, len(schema.AllFields)),
	}
}

func (b *bucketAcc) add(o schema.Observation) {
	for _, f := range schema.AllFields {
		if v, ok := o.Get(f).Get(); ok {
			b.sums[f] += v
			b.counts[f]++
		}
	}
}

// Aggregate collapses observations into (bucket, origin) means at the given granularity.
// Raw is the identity. Rows without a timestamp pass through unchanged, and a dataset
// with no timestamps at all is returned as-is. The input is never mutated.
func Aggregate(ds schema.Dataset, g schema.Granularity) schema.Dataset {
	if g == schema.RawGranularity || g == "" || !ds.HasTimestamps() {
		return ds
	}

	buckets := make(map[bucketID]*bucketAcc)
	var passthrough []schema.Observation
	for _, o := range ds.Rows {
		if o.Timestamp == nil {
			passthrough = append(passthrough, o.Clone())
			continue
		}
		start := BucketStart(*o.Timestamp, g)
		id := bucketID{key: BucketKey(start, g), origin: o.Origin}
		acc, ok := buckets[id]
		if !ok {
			acc = newBucketAcc(start)
			buckets[id] = acc
		}
		acc.add(o)
	}

	ids := make([]bucketID, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].key != ids[j].key {
			return ids[i].key < ids[j].key
		}
		return ids[i].origin < ids[j].origin
	})

	rows := make([]schema.Observation, 0, len(ids)+len(passthrough))
	for _, id := range ids {
		rows = append(rows, buildRow(id, buckets[id], g))
	}
	rows = append(rows, passthrough...)
	return schema.Dataset{Rows: rows}
}

// buildRow emits the aggregated observation for one bucket.
func buildRow(id bucketID, acc *bucketAcc, g schema.Granularity) schema.Observation {
	start := acc.start
	o := schema.Observation{
		Origin:    id.origin,
		Timestamp: &start,
		BucketKey: id.key,
	}
	for _, f := range schema.AllFields {
		if n := acc.counts[f]; n > 0 {
			o.Set(f, schema.Some(acc.sums[f]/float64(n)))
		}
	}

	month := int(start.Month())
	o.Month = &month
	switch g {
	case schema.HourlyGranularity:
		hour := start.Hour()
		o.Hour = &hour
		o.Date = start.Format(dailyKeyLayout)
	case schema.DailyGranularity:
		o.Date = start.Format(dailyKeyLayout)
	}
	return o
}

// BucketStart floors a timestamp to the start of its bucket, in UTC.
func BucketStart(ts time.Time, g schema.Granularity) time.Time {
	ts = ts.UTC()
	switch g {
	case schema.HourlyGranularity:
		return ts.Truncate(time.Hour)
	case schema.DailyGranularity:
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	case schema.MonthlyGranularity:
		return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return ts
	}
}

// BucketKey renders the stable, sortable key of a bucket start.
func BucketKey(start time.Time, g schema.Granularity) string {
	switch g {
	case schema.HourlyGranularity:
		return start.Format(hourlyKeyLayout)
	case schema.DailyGranularity:
		return start.Format(dailyKeyLayout)
	case schema.MonthlyGranularity:
		return start.Format(monthlyKeyLayout)
	default:
		return start.Format(time.RFC3339Nano)
	}
}
