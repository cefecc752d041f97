// Benchserver, toplama benchmark'ını HTTP üzerinden çalıştırır.
// Her /run isteği döngüyü baştan çalıştırır, istekler arasında paylaşılan durum yoktur.
package main

import (
	"bytes"
	"flag"
	"log"
	"net/http"

	"simplebench/internal/loopsum"
	"simplebench/internal/report"
)

var addr = flag.String("addr", ":4000", "listen `address`")

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/run", runHandler)
	return mux
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// runHandler - CPU ağırlıklı iş: döngüyü çalıştırır ve üç satırı döndürür
func runHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := report.NewLogger(&buf).WriteBenchmark(loopsum.Run(loopsum.Total)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("benchserver: ")
	flag.Parse()

	log.Printf("listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, newMux()))
}
