// Package report - Benchmark çıktısını ekrana (ve istenirse dosyaya) yazar.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"simplebench/internal/loopsum"
)

// Banner - Benchmark çıktısının ilk satırı, birebir korunmalı
const Banner = "=== Java Simple Benchmark ==="

// Logger - Hem ekrana hem dosyaya yazma için logger yapısı
// Dosya verilmezse sadece verilen writer'a yazar
type Logger struct {
	file   *os.File
	writer io.Writer
}

// NewLogger - Sadece w'ye yazan logger
func NewLogger(w io.Writer) *Logger {
	return &Logger{writer: w}
}

// NewFileLogger - Çıktıyı hem console'a hem filename dosyasına yazan logger oluşturur.
// Dosya varsa üzerine yazılır.
func NewFileLogger(filename string, console io.Writer) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("dosya oluşturulamadı: %w", err)
	}

	// Her yazı hem terminal'e hem dosyaya gider
	return &Logger{
		file:   file,
		writer: io.MultiWriter(console, file),
	}, nil
}

// Printf - fmt.Printf gibi çalışır
func (l *Logger) Printf(format string, args ...any) (int, error) {
	return fmt.Fprintf(l.writer, format, args...)
}

// Print - fmt.Print gibi çalışır
func (l *Logger) Print(args ...any) (int, error) {
	return fmt.Fprint(l.writer, args...)
}

// Println - fmt.Println gibi çalışır
func (l *Logger) Println(args ...any) (int, error) {
	return fmt.Fprintln(l.writer, args...)
}

// Close - Dosya açıldıysa kapatır. Mutlaka defer ile çağrılmalı.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// WriteHeader - Çalıştırma başlığını yazar (başlık, tarih, saat)
func (l *Logger) WriteHeader(title string, now time.Time) error {
	ruler := strings.Repeat("=", 60)
	_, err := l.Printf("%s\nTEST: %s\nDate: %s\n%s\n", ruler, title, now.Format("2006-01-02 15:04:05"), ruler)
	return err
}

// WriteBenchmark - Sonucu üç satır halinde yazar:
//
//	=== Java Simple Benchmark ===
//	Sum: 499999500000
//	Time: 0.8123 ms
func (l *Logger) WriteBenchmark(r loopsum.Result) error {
	lines := []string{
		Banner,
		fmt.Sprintf("Sum: %d", r.Sum),
		"Time: " + loopsum.FormatMillis(r.Millis()) + " ms",
	}
	for _, line := range lines {
		if _, err := l.Println(line); err != nil {
			return fmt.Errorf("benchmark çıktısı yazılamadı: %w", err)
		}
	}
	return nil
}
