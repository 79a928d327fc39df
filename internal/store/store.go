// Package store reads company reference documents from the document store.
//
// The collection holds a single document keyed by uppercase symbol, with
// per-company sub-documents (income_statement, balance_sheet, cash_flow,
// pros, cons, about). All reads are field projections; the store exposes no
// write surface.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/seenimoa/equitybrief/internal/config"
	"github.com/seenimoa/equitybrief/pkg/models"
	"github.com/seenimoa/equitybrief/pkg/utils"
)

// Sentinel errors mapped to 404 responses by the API layer.
var (
	ErrCompanyNotFound = errors.New("store: company not found")
	ErrFieldNotFound   = errors.New("store: field not found")
)

// Store is a read-only view over the company reference collection with a
// short-TTL cache in front of it.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	cache  *Cache
}

// Connect establishes the document-store connection and verifies it with a
// ping. A failure here is a startup-fatal error.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		cache:  NewCache(ttl),
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ListSymbols returns all known company symbols, sorted. An empty
// collection maps to ErrCompanyNotFound.
func (s *Store) ListSymbols(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get("symbols"); ok {
		return cached.([]string), nil
	}

	doc, err := s.findProjected(ctx, bson.M{"_id": 0})
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(doc))
	for k := range doc {
		symbols = append(symbols, k)
	}
	if len(symbols) == 0 {
		return nil, ErrCompanyNotFound
	}
	sort.Strings(symbols)

	s.cache.Set("symbols", symbols)
	return symbols, nil
}

// Company returns the full reference document for a symbol.
func (s *Store) Company(ctx context.Context, symbol string) (*models.CompanyData, error) {
	symbol = utils.NormalizeSymbol(symbol)

	cacheKey := "company:" + symbol
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*models.CompanyData), nil
	}

	doc, err := s.findProjected(ctx, bson.M{symbol: 1, "_id": 0})
	if err != nil {
		return nil, err
	}

	raw, ok := doc[symbol]
	if !ok {
		return nil, ErrCompanyNotFound
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("store: remarshal %s: %w", symbol, err)
	}
	var company models.CompanyData
	if err := bson.Unmarshal(data, &company); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", symbol, err)
	}

	s.cache.Set(cacheKey, &company)
	return &company, nil
}

// Field returns one sub-document of a company via field projection.
// An absent symbol or field maps to ErrFieldNotFound.
func (s *Store) Field(ctx context.Context, symbol, field string) (any, error) {
	symbol = utils.NormalizeSymbol(symbol)

	cacheKey := "field:" + symbol + ":" + field
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	doc, err := s.findProjected(ctx, bson.M{symbol + "." + field: 1, "_id": 0})
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	sub, ok := doc[symbol].(bson.M)
	if !ok {
		return nil, ErrFieldNotFound
	}
	value, ok := sub[field]
	if !ok {
		return nil, ErrFieldNotFound
	}

	s.cache.Set(cacheKey, value)
	return value, nil
}

// findProjected runs the single-document projection query shared by all
// read paths.
func (s *Store) findProjected(ctx context.Context, projection bson.M) (bson.M, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, bson.D{}, options.FindOne().SetProjection(projection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("store: query: %w", err)
	}
	return doc, nil
}
