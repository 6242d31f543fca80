// Package pkg provides the core libraries for orbitdash.
//
// # Overview
//
// Orbitdash is a filterable dashboard over a static catalog of objects in
// low Earth orbit. The pkg directory is organized into three areas:
//
//  1. Domain logic: [dataset], [facet], [selection], [filter], [aggregate]
//     and the render coordinator in [dashboard]
//  2. Output: render/chart draws frames as SVG or PNG; [summary] fetches
//     the text for a focused year
//  3. Infrastructure: [cache], [config], [errors], [httputil],
//     [observability], [session] and [buildinfo]
//
// # Architecture
//
// Every state change runs one render cycle:
//
//	selection change / mode / resize / focus
//	         ↓
//	    [filter] package (AND across dimensions, OR within)
//	         ↓
//	    [aggregate] package (yearly, cumulative, cohort, status, top-k)
//	         ↓
//	    [dashboard.Frame] (immutable snapshot)
//	         ↓
//	    sinks: chart files, terminal view, HTTP canvas
//
// # Quick Start
//
//	ds, _ := dataset.Open(ctx, "data/clean_leo_satellites.csv", dataset.DefaultColumns(), nil)
//	idx := facet.Build(ds.Records)
//
//	d, _ := dashboard.New(ds, idx)
//	defer d.Close()
//	_ = d.Toggle(facet.Country, "US")
//
//	paths, _ := chart.WriteFiles("out", "", d.Frame(), []string{"svg"})
package pkg
