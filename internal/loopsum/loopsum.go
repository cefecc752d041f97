// Package loopsum - Zamanlanmış toplama döngüsü
// 0'dan N-1'e kadar olan sayıları optimize edilmemiş bir döngüde toplar
// ve bu işlemin ne kadar sürdüğünü ölçer.
package loopsum

import (
	"strconv"
	"strings"
	"time"
)

// Total - Benchmark'ın varsayılan döngü sayısı (1 milyon)
const Total int32 = 1_000_000

// Result - Tek bir döngü çalıştırmasının sonucu
type Result struct {
	N       int32         // Döngü sayısı
	Sum     int64         // Akümülatörün son değeri
	Elapsed time.Duration // Monotonic saatle ölçülen süre
}

// Run - Sayaç [0, n) aralığında döner, her değeri 64-bit akümülatöre ekler.
// n <= 0 ise döngü hiç çalışmaz ve Sum 0 olur.
func Run(n int32) Result {
	// time.Now monotonic okuma da taşır, time.Since bu okumayı kullanır
	start := time.Now()

	var sum int64
	for i := int32(0); i < n; i++ {
		sum += int64(i)
	}

	elapsed := time.Since(start)

	return Result{N: n, Sum: sum, Elapsed: elapsed}
}

// Millis - Geçen süreyi milisaniye cinsinden float olarak döndürür
// (nanosaniye / 1_000_000.0)
func (r Result) Millis() float64 {
	return float64(r.Elapsed.Nanoseconds()) / 1_000_000.0
}

// Expected - Kapalı form: n*(n-1)/2
func Expected(n int32) int64 {
	if n <= 0 {
		return 0
	}
	m := int64(n)
	return m * (m - 1) / 2
}

// FormatMillis - Süreyi orijinal benchmark çıktısındaki double formatıyla yazar.
// [1e-3, 1e7) aralığında düz ondalık ("5.0", "0.8123"), dışında bilimsel
// gösterim ("1.0E-4", "1.2345E7").
func FormatMillis(ms float64) string {
	if ms == 0 {
		return "0.0"
	}
	abs := ms
	if abs < 0 {
		abs = -abs
	}

	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(ms, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// strconv "1.2345E-04" üretir, exponent kısmını sadeleştir
	s := strconv.FormatFloat(ms, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(e)
}
