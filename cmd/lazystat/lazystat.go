// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/lazysorted"
	flags "github.com/jessevdk/go-flags"
)

type config struct {
	InFile      string    `short:"i" long:"infile" description:"File with one number per line (defaults to stdin)"`
	Median      bool      `short:"m" long:"median" description:"Print the median"`
	Percentiles []float64 `short:"p" long:"percentile" description:"Percentile in [0, 100] to print (may be repeated)"`
	Top         int       `short:"t" long:"top" description:"Print the largest N values in descending order"`
	Bottom      int       `short:"b" long:"bottom" description:"Print the smallest N values in ascending order"`
	TrimFrac    float64   `long:"trimmed-mean" description:"Print the mean after discarding this fraction of each tail"`
	DebugLevel  string    `short:"d" long:"debuglevel" default:"info" description:"Logging level {trace, debug, info, warn, error, critical}"`
}

var log btclog.Logger

// readValues parses one float per line, skipping blank lines.
func readValues(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %v", line, err)
		}
		values = append(values, v)
	}
	return values, scanner.Err()
}

// percentileIndex maps a percentile in [0, 100] to a position by scaling it
// over [0, n-1] and truncating toward zero.
func percentileIndex(p float64, n int) int {
	k := int(p / 100 * float64(n-1))
	if k < 0 {
		k = 0
	}
	if k >= n {
		k = n - 1
	}
	return k
}

func realMain() error {
	cfg := config{}
	parser := flags.NewParser(&cfg, flags.Default)
	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	backendLog := btclog.NewBackend(os.Stderr)
	log = backendLog.Logger("LAZY")
	level, _ := btclog.LevelFromString(cfg.DebugLevel)
	log.SetLevel(level)
	lazysorted.UseLogger(log)

	in := os.Stdin
	if cfg.InFile != "" {
		f, err := os.Open(cfg.InFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	values, err := readValues(in)
	if err != nil {
		return err
	}
	n := len(values)
	if n == 0 {
		return fmt.Errorf("no input values")
	}
	log.Debugf("loaded %d values", n)

	ls := lazysorted.NewOrdered(values)

	if cfg.Median {
		v, err := ls.Get(n / 2)
		if err != nil {
			return err
		}
		fmt.Printf("median: %g\n", v)
	}

	for _, p := range cfg.Percentiles {
		if p < 0 || p > 100 {
			return fmt.Errorf("percentile %g outside [0, 100]", p)
		}
		v, err := ls.Get(percentileIndex(p, n))
		if err != nil {
			return err
		}
		fmt.Printf("p%g: %g\n", p, v)
	}

	if cfg.Top > 0 {
		k := cfg.Top
		if k > n {
			k = n
		}
		vs, err := ls.Slice(n-k, n, 1)
		if err != nil {
			return err
		}
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
		fmt.Printf("top %d: %v\n", k, vs)
	}

	if cfg.Bottom > 0 {
		k := cfg.Bottom
		if k > n {
			k = n
		}
		vs, err := ls.Slice(0, k, 1)
		if err != nil {
			return err
		}
		fmt.Printf("bottom %d: %v\n", k, vs)
	}

	if cfg.TrimFrac > 0 {
		if cfg.TrimFrac >= 0.5 {
			return fmt.Errorf("trim fraction %g leaves nothing",
				cfg.TrimFrac)
		}
		cut := int(cfg.TrimFrac * float64(n))
		kept, err := ls.Between(cut, n-cut)
		if err != nil {
			return err
		}
		if len(kept) == 0 {
			return fmt.Errorf("trim fraction %g leaves nothing",
				cfg.TrimFrac)
		}
		var sum float64
		for _, v := range kept {
			sum += v
		}
		fmt.Printf("trimmed mean (%g): %g\n", cfg.TrimFrac,
			sum/float64(len(kept)))
	}

	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
