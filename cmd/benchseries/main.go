// Command benchseries times the processor pipeline on a synthetic series.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/process"
)

// genSeries builds a random walk with occasional spikes, repeated readings
// and missing values.
func genSeries(n int, missp, spikep, repeatp float64, rnd *rand.Rand) frame.Series {
	b := frame.NewBuilder("value", n)
	v := 20.0
	for i := 0; i < n; i++ {
		if rnd.Float64() < missp {
			b.AppendNull()
			continue
		}
		if rnd.Float64() >= repeatp {
			v += rnd.NormFloat64()
		}
		if rnd.Float64() < spikep {
			b.Append(999)
			continue
		}
		b.Append(v)
	}
	return b.Series()
}

func main() {
	var (
		rows    = flag.Int("rows", 1_000_000, "series length")
		window  = flag.Int("window", process.DefaultWindow, "moving average window")
		missp   = flag.Float64("missing", 0.01, "probability of a missing value")
		spikep  = flag.Float64("spikes", 0.001, "probability of an out-of-range spike")
		repeatp = flag.Float64("repeats", 0.2, "probability of repeating the previous reading")
		iters   = flag.Int("iterations", 5, "pipeline runs to time")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	s := genSeries(*rows, *missp, *spikep, *repeatp, rand.New(rand.NewSource(*seed)))

	p := process.NewPipeline()
	steps := []process.Config{
		{Kind: process.KindRangeFilter, Enabled: true, Lower: -100, Upper: 100},
		{Kind: process.KindMovingAverage, Enabled: true, Window: *window},
		{Kind: process.KindDuplicateFilter, Enabled: true},
	}
	for _, c := range steps {
		if err := p.Set(c); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	runtime.GC()
	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	var out frame.Series
	for i := 0; i < *iters; i++ {
		var err error
		out, err = p.Run(context.Background(), s)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	perRun := elapsed / time.Duration(*iters)
	valuesPerSec := float64(*rows) / perRun.Seconds()
	summary := map[string]any{
		"rows":                  *rows,
		"kept":                  out.Len(),
		"iterations":            *iters,
		"elapsed_ms":            elapsed.Milliseconds(),
		"per_run_ms":            perRun.Milliseconds(),
		"values_per_sec":        valuesPerSec,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"window":                *window,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Values: %d (kept %d)\n", *rows, out.Len())
	fmt.Printf("Per run: %s\n", perRun)
	fmt.Printf("Throughput: %.0f values/s\n", valuesPerSec)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
