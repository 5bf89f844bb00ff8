// Command badgerdb is a small demo that exercises the buffer pool core end
// to end: load config, open a page file, allocate and read pages through
// the Manager, and print pool statistics. It is not a SQL engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/uw-cs564/badgerdb/bufpool"
	"github.com/uw-cs564/badgerdb/config"
	"github.com/uw-cs564/badgerdb/pagefile"
)

func checkError(err error, message string) {
	if err != nil {
		log.Fatalf("%s: %v", message, err)
	}
}

func main() {
	configPath := flag.String("config", "", "path to a buffer pool config YAML file")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		checkError(err, "failed to load config")
		cfg = loaded
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.BufferPool.LogLevel == "debug" {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zapCfg.Build()
	checkError(err, "failed to build logger")
	defer logger.Sync()
	sugar := logger.Sugar()

	file, err := pagefile.OpenDiskFile(cfg.BufferPool.DataDir, "datafile.dat", cfg.BufferPool.PageSize)
	checkError(err, "failed to open page file")
	defer file.Close()

	mgr := bufpool.New(cfg.BufferPool.Frames, cfg.BufferPool.PageSize, sugar)

	pageNo, page, err := mgr.AllocPage(file)
	checkError(err, "failed to allocate page")
	copy(page.Bytes(), []byte("hello, badgerdb"))
	checkError(mgr.UnpinPage(file, pageNo, true), "failed to unpin allocated page")

	reread, err := mgr.ReadPage(file, pageNo)
	checkError(err, "failed to re-read page")
	fmt.Printf("page %d contents: %q\n", pageNo, reread.Bytes()[:len("hello, badgerdb")])
	checkError(mgr.UnpinPage(file, pageNo, false), "failed to unpin reread page")

	checkError(mgr.FlushFile(file), "failed to flush file")

	stats := mgr.Stats()
	fmt.Printf("stats: accesses=%d diskReads=%d diskWrites=%d\n", stats.Accesses, stats.DiskReads, stats.DiskWrites)

	mgr.PrintSelf(os.Stdout)
}
