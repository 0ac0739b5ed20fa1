// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// setbench drives configurable concurrent workloads against the hashset
// locking variants and reports per-variant throughput
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-common/bark"
	"github.com/urfave/cli"

	"github.com/uber-common/hashset"
)

var kindsByName = map[string]hashset.Kind{
	"sequential": hashset.Sequential,
	"coarse":     hashset.CoarseGrained,
	"striped":    hashset.Striped,
	"refinable":  hashset.Refinable,
}

func main() {
	app := cli.NewApp()
	app.Name = "setbench"
	app.Usage = "a command-line tool for benchmarking hashset locking variants"
	app.Version = "1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "variants, r",
			Value: "coarse,striped,refinable",
			Usage: "comma-separated variants to run: sequential, coarse, striped, refinable, or 'all'",
		},
		cli.IntFlag{
			Name:  "capacity, c",
			Value: 64,
			Usage: "initial bucket count of each set",
		},
		cli.IntFlag{
			Name:  "goroutines, g",
			Value: 8,
			Usage: "concurrent workers per variant (sequential always runs with 1)",
		},
		cli.IntFlag{
			Name:  "ops, n",
			Value: 1 << 20,
			Usage: "total operations per variant",
		},
		cli.IntFlag{
			Name:  "keyspace, k",
			Value: 1 << 16,
			Usage: "number of distinct keys driven through each set",
		},
		cli.IntFlag{
			Name:  "read-percent, p",
			Value: 90,
			Usage: "percentage of operations that are Contains; the rest split evenly between Add and Remove",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "enable debug logging, including per-resize log lines",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	logger := bark.NewLoggerFromLogrus(log.StandardLogger())

	variants := c.String("variants")
	if variants == "all" {
		variants = "sequential,coarse,striped,refinable"
	}

	readPercent := c.Int("read-percent")
	if readPercent < 0 || readPercent > 100 {
		return fmt.Errorf("read-percent must be within [0,100], got %d", readPercent)
	}

	for _, name := range strings.Split(variants, ",") {
		kind, ok := kindsByName[strings.TrimSpace(strings.ToLower(name))]
		if !ok {
			return fmt.Errorf("%s is not a variant; pick from: sequential, coarse, striped, refinable", name)
		}

		cfg := workload{
			kind:        kind,
			capacity:    c.Int("capacity"),
			goroutines:  c.Int("goroutines"),
			ops:         c.Int("ops"),
			keySpace:    c.Int("keyspace"),
			readPercent: readPercent,
		}
		if kind == hashset.Sequential {
			cfg.goroutines = 1
		}

		cfg.run(logger)
	}

	return nil
}

type workload struct {
	kind        hashset.Kind
	capacity    int
	goroutines  int
	ops         int
	keySpace    int
	readPercent int
}

func (w workload) run(logger bark.Logger) {
	set := hashset.New(w.kind, w.capacity, &hashset.Options[int]{
		Logger: logger,
	})

	logger.WithFields(bark.Fields{
		"variant":     w.kind.String(),
		"goroutines":  w.goroutines,
		"ops":         w.ops,
		"keySpace":    w.keySpace,
		"readPercent": w.readPercent,
	}).Info("setbench: starting workload")

	// warm the set to half the key space so reads have something to find
	for k := 0; k < w.keySpace/2; k++ {
		set.Add(k)
	}

	start := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < w.goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			writeSplit := w.readPercent + (100-w.readPercent)/2

			for i := 0; i < w.ops/w.goroutines; i++ {
				k := rng.Intn(w.keySpace)
				switch r := rng.Intn(100); {
				case r < w.readPercent:
					set.Contains(k)
				case r < writeSplit:
					set.Add(k)
				default:
					set.Remove(k)
				}
			}
		}(int64(g) + 1)
	}
	wg.Wait()

	elapsed := time.Since(start)

	logger.WithFields(bark.Fields{
		"variant":       w.kind.String(),
		"elapsed":       elapsed.String(),
		"opsPerSec":     int(float64(w.ops) / elapsed.Seconds()),
		"finalSize":     set.Size(),
		"finalCapacity": set.Capacity(),
	}).Info("setbench: workload complete")
}
