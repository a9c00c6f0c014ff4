package profile

import (
	"sort"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/montanaflynn/stats"
)

const (
	maxBars          = 10
	maxScatterPoints = 50
)

func visualize(ds *dataset.Dataset, cls dataset.Classification) *Visualization {
	switch {
	case len(cls.Categorical) > 0 && len(cls.Numeric) > 0:
		return barChart(ds, cls.Categorical[0], cls.Numeric[0])
	case len(cls.Numeric) >= 2:
		return scatter(ds, cls.Numeric[0], cls.Numeric[1])
	}
	return nil
}

func barChart(ds *dataset.Dataset, catName, numName string) *Visualization {
	cat, _ := ds.Column(catName)
	num, _ := ds.Column(numName)
	groups := make(map[string][]float64)
	for i := 0; i < cat.Len(); i++ {
		if cat.IsNull(i) {
			continue
		}
		k := cat.Format(i)
		if _, ok := groups[k]; !ok {
			groups[k] = nil
		}
		if !num.IsNull(i) {
			groups[k] = append(groups[k], num.Num[i])
		}
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxBars {
		keys = keys[:maxBars]
	}
	data := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		var mean any
		if m, err := stats.Mean(groups[k]); err == nil {
			mean = m
		}
		data = append(data, map[string]any{catName: k, numName: mean})
	}
	return &Visualization{Type: "bar", XAxis: catName, YAxis: numName, Data: data}
}

func scatter(ds *dataset.Dataset, xName, yName string) *Visualization {
	x, _ := ds.Column(xName)
	y, _ := ds.Column(yName)
	n := min(ds.Rows(), maxScatterPoints)
	data := make([]map[string]any, 0, n)
	cell := func(c *dataset.Column, i int) any {
		if c.IsNull(i) {
			return nil
		}
		return c.Num[i]
	}
	for i := 0; i < n; i++ {
		data = append(data, map[string]any{xName: cell(x, i), yName: cell(y, i)})
	}
	return &Visualization{Type: "scatter", XAxis: xName, YAxis: yName, Data: data}
}
