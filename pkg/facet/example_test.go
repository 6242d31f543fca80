package facet_test

import (
	"fmt"

	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/facet"
)

func ExampleBuild() {
	idx := facet.Build([]dataset.Record{
		{Year: 2019, Country: "US", Operator: "SpaceX / Starlink"},
		{Year: 2020, Country: "UK", Operator: "OneWeb"},
		{Year: 2020, Country: "US", Operator: "SpaceX / Starlink"},
	})
	fmt.Println(idx.Values(facet.Country))
	fmt.Println(idx.Count(facet.Country, "US"))
	// Output:
	// [UK US]
	// 2
}

func ExampleIndex_Search() {
	idx := facet.Build([]dataset.Record{
		{Operator: "China / BeiDou"},
		{Operator: "China / Gaofen"},
		{Operator: "EU / Galileo"},
	})
	fmt.Println(idx.Search(facet.Operator, "china"))
	// Output: [China / BeiDou China / Gaofen]
}
