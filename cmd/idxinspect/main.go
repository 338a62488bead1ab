// Command idxinspect is a read-only diagnostic over a bptreeidx index
// file: it reports the tree's shape and, optionally, scans a key
// range. It never writes to the index.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vahagz-labs/bptreeidx/config"
	"github.com/vahagz-labs/bptreeidx/pkg/bptreeidx"
	"github.com/vahagz-labs/bptreeidx/pkg/pager"
	"github.com/vahagz-labs/bptreeidx/util/logger"
)

func main() {
	path := flag.String("path", "", "path to the index file (required)")
	from := flag.Int("from", 0, "if set with -to, scan and print keys in [from, to)")
	to := flag.Int("to", 0, "end of the scan range, exclusive")
	flag.Parse()

	if *path == "" {
		fatal("idxinspect: -path is required")
	}

	cfg := config.New()
	logger.L.SetLevel(cfg.LogLevel)
	opts := &bptreeidx.Options{FileMode: cfg.FileMode, Logger: logger.L}

	idx, err := bptreeidx.Open(*path, pager.ModeRead, opts)
	if err != nil {
		fatal(err)
	}
	defer idx.Close()

	stats, err := idx.Stats()
	if err != nil {
		fatal(err)
	}

	count, err := idx.GetTotalKeyCount()
	if err != nil {
		fatal(err)
	}

	fmt.Printf("height=%d root_pid=%d leaves=%d internals=%d keys=%d\n",
		stats.Height, stats.RootPid, stats.LeafCount, stats.InternalCount, count)

	if *to <= *from {
		return
	}

	cur, err := idx.Locate(bptreeidx.Key(*from))
	if err != nil && err != bptreeidx.ErrNoSuchRecord {
		fatal(err)
	}

	for {
		key, rec, err := idx.ReadForward(&cur)
		if err == bptreeidx.ErrEndOfTree {
			break
		}
		if err != nil {
			fatal(err)
		}
		if int(key) >= *to {
			break
		}
		fmt.Printf("%d -> (pid=%d, sid=%d)\n", key, rec.Pid, rec.Sid)
	}
}

func fatal(val interface{}) {
	fmt.Fprintln(os.Stderr, val)
	os.Exit(1)
}
