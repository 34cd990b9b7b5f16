// Package mapclassify provides classification schemes that assign numeric
// observations to ordered bins, mainly for choropleth maps.
//
// mapclassify offers fifteen schemes behind one small API: fit a scheme to a
// vector, read back the bin edges, the class of every observation and
// goodness-of-fit diagnostics, then classify new values with the same edges.
//
// # Features
//
// - Elementary schemes: EqualInterval, Quantiles, Percentiles, BoxPlot, StdMean, MaximumBreaks, UserDefined
// - Optimal and iterative schemes: FisherJenks, Jenks-Caspall, NaturalBreaks, HeadTailBreaks, MaxP
// - Streaming: rolling sessions that refit as batches arrive
// - Pooled classification of several columns with shared edges
// - Class count search driven by the goodness of absolute deviation fit (GADF)
//
// # Installation
//
//	go get github.com/YuminosukeSato/mapclassify
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/mapclassify/classify"
//	)
//
//	func main() {
//	    y := []float64{1.5, 2.2, 3.9, 10.1, 11.4, 12.0, 20.7, 21.3}
//
//	    c, err := classify.Fit(y, classify.FisherJenks{K: 3})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(c.Bins(), c.Counts(), c.GADF())
//	    fmt.Println(c.FindBin([]float64{0, 15, 30}))
//	}
//
// # Packages
//
//   - classify: schemes, Classifier, Session, Pooled, GADFSearch and KClassifiers
//   - cluster: one-dimensional k-means used by NaturalBreaks
//   - metrics: ADCM, ADAM, TSS, within-class sum of squares and GADF
//   - preprocessing: validation, empirical percentiles, subsampling
//   - core/model: capability interfaces and streaming state
//   - core/parallel: parallel helpers
//   - pkg/errors: structured errors and warnings
//   - pkg/log: structured logging
//
// # Warnings
//
// Reduced class counts and iteration caps are reported as warnings rather than
// errors. Route them to the structured logger with:
//
//	log.InstallWarningHook()
//
// # License
//
// mapclassify is released under the MIT License.
package mapclassify
