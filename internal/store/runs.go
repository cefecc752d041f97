package store

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"simplebench/internal/loopsum"
)

var (
	ErrSumMismatch      = errors.New("sum does not match closed form")
	ErrNegativeDuration = errors.New("negative elapsed time")
	ErrIndexConflict    = errors.New("conflicting index already exists")
)

// Sunucunun aynı isimde ama farklı tanımlı index için döndüğü hata kodları
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// Run - Collection'daki bir benchmark çalıştırması dokümanı
type Run struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Benchmark     string             `bson:"benchmark"`
	N             int32              `bson:"n"`
	Sum           int64              `bson:"sum"`
	ElapsedNanos  int64              `bson:"elapsedNanos"`
	ElapsedMillis float64            `bson:"elapsedMillis"`
	Host          string             `bson:"host"`
	GoVersion     string             `bson:"goVersion"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// NewRun - Döngü sonucundan kaydedilecek dokümanı oluşturur
func NewRun(name string, r loopsum.Result, host string, now time.Time) Run {
	return Run{
		Benchmark:     name,
		N:             r.N,
		Sum:           r.Sum,
		ElapsedNanos:  r.Elapsed.Nanoseconds(),
		ElapsedMillis: r.Millis(),
		Host:          host,
		GoVersion:     runtime.Version(),
		// MongoDB tarihleri milisaniye hassasiyetinde saklar
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}
}

// Validate - Toplam kapalı formla uyuşmuyorsa ya da süre negatifse hata döner
func (r Run) Validate() error {
	if want := loopsum.Expected(r.N); r.Sum != want {
		return fmt.Errorf("%w: n=%d sum=%d want=%d", ErrSumMismatch, r.N, r.Sum, want)
	}
	if r.ElapsedNanos < 0 {
		return fmt.Errorf("%w: %dns", ErrNegativeDuration, r.ElapsedNanos)
	}
	return nil
}

// historyIndex - Recent sorgusu benchmark adına göre filtreleyip tarihe göre sıralar
func historyIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "benchmark", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("benchmark_1_createdAt_-1"),
	}
}

// EnsureIndexes - Geçmiş sorgusu için index oluşturur.
// Aynı tanımlı index zaten varsa sunucu işlemi sessizce geçer. Aynı isimde
// farklı tanımlı bir index varsa ErrIndexConflict döner.
func (s *Store) EnsureIndexes(ctx context.Context) (string, error) {
	name, err := s.col.Indexes().CreateOne(ctx, historyIndex())
	if err != nil {
		var ce mongo.CommandError
		if errors.As(err, &ce) && (ce.Code == codeIndexOptionsConflict || ce.Code == codeIndexKeySpecsConflict) {
			return "", fmt.Errorf("%w: %w", ErrIndexConflict, err)
		}
		return "", fmt.Errorf("index oluşturulamadı: %w", err)
	}
	return name, nil
}

// Save - Çalıştırmayı doğrular ve collection'a ekler
func (s *Store) Save(ctx context.Context, r Run) (primitive.ObjectID, error) {
	if err := r.Validate(); err != nil {
		return primitive.NilObjectID, err
	}

	res, err := s.col.InsertOne(ctx, r)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("çalıştırma kaydedilemedi: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("beklenmeyen _id tipi %T", res.InsertedID)
	}
	return id, nil
}

// Recent - Benchmark'ın en yeni limit adet çalıştırmasını döndürür (yeniden eskiye)
func (s *Store) Recent(ctx context.Context, benchmark string, limit int64) ([]Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{"benchmark": benchmark}, opts)
	if err != nil {
		return nil, fmt.Errorf("geçmiş okunamadı: %w", err)
	}
	defer cursor.Close(ctx)

	// cursor.All yerine Next ile tek tek oku
	var runs []Run
	for cursor.Next(ctx) {
		var r Run
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("doküman çözülemedi: %w", err)
		}
		runs = append(runs, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Count - Benchmark için kayıtlı çalıştırma sayısı
func (s *Store) Count(ctx context.Context, benchmark string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"benchmark": benchmark})
}
