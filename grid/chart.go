package grid

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const timeStampKey = "timeStamp"

// Point is one sample of a metric series
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a single metric over time
type Series struct {
	Key    string
	Title  string
	Points []Point
}

// Values returns the samples in time order
func (s Series) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// ChartSeries reads a metric payload: an array of objects holding a
// timeStamp (epoch ms) and one metric. The metric is the first key of the
// first sample that is not timeStamp. Samples without the metric are skipped.
func ChartSeries(data json.RawMessage) (Series, bool) {
	samples := Rows(data)
	if len(samples) == 0 {
		return Series{}, false
	}

	var key string
	samples[0].ForEach(func(k, _ gjson.Result) bool {
		if k.String() != timeStampKey {
			key = k.String()
			return false
		}
		return true
	})
	if key == "" {
		return Series{}, false
	}

	s := Series{Key: key, Title: AxisTitle(key)}
	for _, sample := range samples {
		v := sample.Get(gjson.Escape(key))
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		s.Points = append(s.Points, Point{
			Time:  time.UnixMilli(sample.Get(timeStampKey).Int()),
			Value: v.Float(),
		})
	}
	if len(s.Points) == 0 {
		return Series{}, false
	}
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Time.Before(s.Points[j].Time)
	})
	return s, true
}

// AxisTitle humanizes a metric key: "read_IO_rate" becomes "Read io rate"
func AxisTitle(key string) string {
	t := strings.ToLower(strings.ReplaceAll(key, "_", " "))
	if t == "" {
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}
