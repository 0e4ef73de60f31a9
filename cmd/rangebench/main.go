package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/cenkalti/log"
	"github.com/mitchellh/go-homedir"

	"github.com/g-m-twostay/range-trees/Bench"
	"github.com/g-m-twostay/range-trees/Gen"
	"github.com/g-m-twostay/range-trees/Logger"
)

const defaultConfig = "~/.rangebench.yaml"

var (
	config  = flag.String("c", defaultConfig, "config file")
	debug   = flag.Bool("d", false, "enable debug log")
	out     = flag.String("o", "workload.msgpack", "workload file written by gen")
	in      = flag.String("i", "", "workload file read by verify and parallel, generated if empty")
	points  = flag.Uint("n", 100000, "number of points for gen, verify, parallel and query-range")
	queries = flag.Int("q", 1000, "number of queries for gen, verify and parallel")
	kind    = flag.String("k", Bench.KindFc, "index kind for parallel")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] construct|query-length|query-range|verify|parallel|gen\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "index kinds: %v\n", Bench.Kinds())
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	if *debug {
		Logger.SetLevel(log.DEBUG)
	}

	configFile, err := homedir.Expand(*config)
	if err != nil {
		fmt.Fprint(os.Stderr, "Cannot determine home directory! Specify config file with -c flag.")
		os.Exit(1)
	}
	c, err := Bench.LoadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}
	e, err := Bench.New(c)
	if err != nil {
		log.Fatal(err)
	}

	switch cmd := flag.Arg(0); cmd {
	case "construct":
		_, err = e.ConstructTime(c.DataLengths)
	case "query-length":
		_, err = e.QueryTimeDataLength(c.DataLengths)
	case "query-range":
		_, err = e.QueryTimeQueryRange(uint32(*points), c.QueryRanges)
	case "gen":
		var w *Gen.Workload
		if w, err = workload(e, c); err == nil {
			err = w.Save(*out)
		}
	case "verify":
		var w *Gen.Workload
		if w, err = workload(e, c); err == nil {
			err = e.Verify(w)
		}
	case "parallel":
		err = parallel(e, c)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// workload read from -i, or generated with query side QueryRange*CoordMax.
func workload(e *Bench.Experiment, c *Bench.Config) (*Gen.Workload, error) {
	if *in != "" {
		return Gen.LoadWorkload(*in)
	}
	return Gen.NewWorkload(e.Generator(), uint32(*points), *queries, uint32(c.QueryRange*float64(c.CoordMax)))
}

func parallel(e *Bench.Experiment, c *Bench.Config) error {
	w, err := workload(e, c)
	if err != nil {
		return err
	}
	b, err := Bench.NewIndex(*kind)
	if err != nil {
		return err
	}
	if err = b.Build(slices.Clone(w.Points)); err != nil {
		return err
	}
	for _, workers := range []int{1, c.Workers} {
		e.Parallel(b, w.Queries, workers)
	}
	return nil
}
