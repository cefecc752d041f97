// Benchstore, toplama benchmark'ını bir kez çalıştırır, sonucu MongoDB'ye
// kaydeder ve aynı benchmark'ın son çalıştırmalarını listeler.
//
// Kullanım:
//
//	benchstore [-uri mongodb://localhost:27017] [-db perfdb] [-collection benchruns]
//	           [-history 10] [-o results.txt] [-timeout 10s]
//
// -o verilirse tüm çıktı ekranla birlikte o dosyaya da yazılır.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"simplebench/internal/loopsum"
	"simplebench/internal/report"
	"simplebench/internal/store"
)

const benchmarkName = "simplebench"

var (
	defaults   = store.DefaultOptions()
	uri        = flag.String("uri", defaults.URI, "MongoDB connection `uri`")
	database   = flag.String("db", defaults.Database, "database `name`")
	collection = flag.String("collection", defaults.Collection, "collection `name`")
	history    = flag.Int64("history", 10, "list the last `n` runs")
	outFile    = flag.String("o", "", "also write output to `file`")
	timeout    = flag.Duration("timeout", defaults.Timeout, "connect and query `timeout`")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: benchstore [flags]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("benchstore: ")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 || *history < 0 {
		usage()
	}

	logger := report.NewLogger(os.Stdout)
	if *outFile != "" {
		var err error
		logger, err = report.NewFileLogger(*outFile, os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	err := run(context.Background(), logger)
	if cerr := logger.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *report.Logger) error {
	if err := logger.WriteHeader(benchmarkName, time.Now()); err != nil {
		return err
	}

	// Veritabanı bağlantısı ölçüme dahil olmasın diye önce benchmark
	res := loopsum.Run(loopsum.Total)
	if err := logger.WriteBenchmark(res); err != nil {
		return err
	}

	opts := defaults
	opts.URI = *uri
	opts.Database = *database
	opts.Collection = *collection
	opts.Timeout = *timeout

	st, err := store.Connect(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if _, err := st.EnsureIndexes(ctx); err != nil {
		return err
	}

	id, err := st.Save(ctx, store.NewRun(benchmarkName, res, hostname(os.Hostname), time.Now()))
	if err != nil {
		return err
	}
	if err := writeSaved(logger, id.Hex(), opts); err != nil {
		return err
	}

	if *history == 0 {
		return nil
	}
	runs, err := st.Recent(ctx, benchmarkName, *history)
	if err != nil {
		return err
	}
	total, err := st.Count(ctx, benchmarkName)
	if err != nil {
		return err
	}
	return writeHistory(logger, runs, total)
}

// closeStore - Bağlantı kapatılamazsa sadece loglar, sonuç zaten kaydedildi
func closeStore(st interface{ Close(context.Context) error }) {
	if err := st.Close(context.Background()); err != nil {
		log.Printf("mongo bağlantısı kapatılamadı: %v", err)
	}
}

func writeSaved(logger *report.Logger, id string, opts store.Options) error {
	_, err := logger.Printf("\nSaved run %s to %s.%s\n", id, opts.Database, opts.Collection)
	return err
}

// hostname - Host adı alınamazsa "unknown" döner
func hostname(lookup func() (string, error)) string {
	h, err := lookup()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}

// writeHistory - Son çalıştırmaları tablo halinde yazar, istatistik hesaplamaz
func writeHistory(logger *report.Logger, runs []store.Run, total int64) error {
	if _, err := logger.Printf("\nLast %d of %d runs:\n", len(runs), total); err != nil {
		return err
	}
	for _, r := range runs {
		_, err := logger.Printf("  %s  %-20s  n=%d  sum=%d  %s ms\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Host, r.N, r.Sum, loopsum.FormatMillis(r.ElapsedMillis))
		if err != nil {
			return err
		}
	}
	return nil
}
