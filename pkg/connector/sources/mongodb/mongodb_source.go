// Package mongodb implements core.Source over a MongoDB database. Documents
// are decoded as bson.D so field order survives into the profiler.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/models"
)

var _ core.Source = (*Source)(nil)

// Config contains MongoDB-specific configuration
type Config struct {
	URI                    string
	Database               string
	ServerSelectionTimeout time.Duration
	BatchSize              int32
	// ExcludeFields are projected away server-side. "_id" is excluded by
	// default so that generated identifiers do not defeat duplicate detection.
	ExcludeFields []string
	// IncludeSystem lists "system.*" collections too.
	IncludeSystem bool
}

// Source reads collections from one MongoDB database.
type Source struct {
	config   Config
	logger   *zap.Logger
	client   *mongo.Client
	database *mongo.Database
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Source, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mongo uri is required")
	}
	if cfg.Database == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mongo database is required")
	}
	if cfg.ServerSelectionTimeout <= 0 {
		cfg.ServerSelectionTimeout = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Source{
		config: cfg,
		logger: logger.With(zap.String("connector", "mongodb"), zap.String("database", cfg.Database)),
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to MongoDB").
			WithDetail("database", cfg.Database)
	}
	s.client = client
	s.database = client.Database(cfg.Database)

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info("connected to MongoDB")
	return s, nil
}

// Ping verifies the server is reachable.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "MongoDB connection failed").
			WithDetail("database", s.config.Database).
			WithDetail("hint", "check that MongoDB is running, that MONGO_URI and DB_NAME are correct, and that this host is allowed to connect")
	}
	return nil
}

// ListCollections implements core.Source.
func (s *Source) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.database.ListCollectionNames(ctx, bson.D{}, options.ListCollections().SetNameOnly(true))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "failed to list collections").
			WithDetail("database", s.config.Database)
	}
	if s.config.IncludeSystem {
		return names, nil
	}

	out := names[:0]
	for _, n := range names {
		if !strings.HasPrefix(n, "system.") {
			out = append(out, n)
		}
	}
	return out, nil
}

// Materialize implements core.Source.
func (s *Source) Materialize(ctx context.Context, name string) ([]models.Document, error) {
	findOpts := options.Find().SetBatchSize(s.config.BatchSize)
	if proj := projection(s.config.ExcludeFields); len(proj) > 0 {
		findOpts.SetProjection(proj)
	}

	cursor, err := s.database.Collection(name).Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "failed to query collection").
			WithDetail("collection", name)
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	for cursor.Next(ctx) {
		var raw bson.D
		if err := cursor.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "failed to decode document").
				WithDetail("collection", name).
				WithDetail("index", len(docs))
		}
		docs = append(docs, ConvertDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "cursor failed").
			WithDetail("collection", name)
	}

	s.logger.Debug("materialized collection", zap.String("collection", name), zap.Int("documents", len(docs)))
	return docs, nil
}

// Close implements core.Source.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, fmt.Sprintf("failed to disconnect from %s", s.config.Database))
	}
	return nil
}

func projection(exclude []string) bson.D {
	var proj bson.D
	for _, f := range exclude {
		f = strings.TrimSpace(f)
		if f != "" {
			proj = append(proj, bson.E{Key: f, Value: 0})
		}
	}
	return proj
}
