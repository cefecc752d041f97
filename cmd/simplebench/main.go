// Simplebench, 0'dan 999.999'a kadar olan sayıları bir döngüde toplar
// ve geçen süreyi yazar.
//
// Kullanım:
//
//	simplebench
//
// Çıktı:
//
//	=== Java Simple Benchmark ===
//	Sum: 499999500000
//	Time: <ms> ms
package main

import (
	"io"
	"log"
	"os"

	"simplebench/internal/loopsum"
	"simplebench/internal/report"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("simplebench: ")

	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer) error {
	return report.NewLogger(w).WriteBenchmark(loopsum.Run(loopsum.Total))
}
