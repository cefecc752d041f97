// Package store - Benchmark çalıştırmalarını MongoDB'de saklar ve geri okur.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options - MongoDB bağlantı ayarları
type Options struct {
	URI         string
	Database    string
	Collection  string
	MaxPoolSize uint64
	Timeout     time.Duration // Bağlantı ve ping için üst süre
}

// DefaultOptions - Lokal MongoDB için varsayılan ayarlar
func DefaultOptions() Options {
	return Options{
		URI:         "mongodb://localhost:27017",
		Database:    "perfdb",
		Collection:  "benchruns",
		MaxPoolSize: 100,
		Timeout:     10 * time.Second,
	}
}

// Store - Benchmark çalıştırmalarının tutulduğu collection
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// clientOptions - Options'tan driver ayarlarını üretir.
// snappy ve zstd sıkıştırması sunucu destekliyorsa kullanılır.
func clientOptions(o Options) *options.ClientOptions {
	return options.Client().
		ApplyURI(o.URI).
		SetMaxPoolSize(o.MaxPoolSize).
		SetCompressors([]string{"snappy", "zstd"}).
		SetConnectTimeout(o.Timeout).
		SetServerSelectionTimeout(o.Timeout)
}

// Connect - MongoDB'ye bağlanır ve sunucunun cevap verdiğini ping ile doğrular
func Connect(ctx context.Context, o Options) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(o))
	if err != nil {
		return nil, fmt.Errorf("mongo bağlantısı kurulamadı: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping başarısız (%s): %w", o.URI, err)
	}

	return newStore(client, client.Database(o.Database).Collection(o.Collection)), nil
}

func newStore(client *mongo.Client, col *mongo.Collection) *Store {
	return &Store{client: client, col: col}
}

// Close - Bağlantı havuzunu kapatır
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
