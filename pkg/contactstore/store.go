// Package contactstore reads a user's contacts and their connections from
// PostgreSQL and assembles the network graph the analytics passes consume.
// It never writes: computed scores are not persisted.
package contactstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/metrics"
)

const (
	sqlSelectContacts = `
        SELECT id, name, COALESCE(company, ''), COALESCE(affiliation, ''),
               COALESCE(position, ''), COALESCE(tags, '{}')
        FROM contacts
        WHERE owner_id = $1
        ORDER BY id`

	sqlSelectConnections = `
        SELECT contact_id, connected_contact_id
        FROM contact_connections
        WHERE owner_id = $1
        ORDER BY contact_id, connected_contact_id`
)

// ErrEmptyOwner is returned when no owner ID is given.
var ErrEmptyOwner = errors.New("contactstore: owner ID is required")

// DBPool abstracts pgxpool.Pool so the store can be tested with a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connection is one stored link between two contacts.
type Connection struct {
	From string
	To   string
}

// Store loads contact networks.
type Store struct {
	pool    DBPool
	logger  logging.Logger
	metrics *metrics.Registry
	close   func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(s *Store) {
		s.metrics = registry
	}
}

// New creates a store on an existing pool and verifies the connection.
func New(ctx context.Context, pool DBPool, opts ...Option) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		pool:   pool,
		logger: logging.NewNopLogger(),
		close:  func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Component("contactstore"))
	return s, nil
}

// Open connects to dsn with a pgx pool. Close releases the pool.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	s, err := New(ctx, pool, opts...)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.close = pool.Close
	return s, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases resources owned by the store.
func (s *Store) Close() {
	s.close()
}

// LoadContacts returns every contact of owner ordered by ID.
func (s *Store) LoadContacts(ctx context.Context, ownerID string) ([]graph.Contact, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}

	rows, err := s.pool.Query(ctx, sqlSelectContacts, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []graph.Contact
	for rows.Next() {
		var c graph.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.Affiliation, &c.Position, &c.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}
	return contacts, nil
}

// LoadConnections returns every stored connection of owner.
func (s *Store) LoadConnections(ctx context.Context, ownerID string) ([]Connection, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}

	rows, err := s.pool.Query(ctx, sqlSelectConnections, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()

	var connections []Connection
	for rows.Next() {
		var c Connection
		if err := rows.Scan(&c.From, &c.To); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		connections = append(connections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read connections: %w", err)
	}
	return connections, nil
}

// LoadNetwork loads owner's contacts and connections and builds the graph.
// Connections are stored once per pair and added in both directions.
func (s *Store) LoadNetwork(ctx context.Context, ownerID string) (*graph.NetworkGraph, graph.Contacts, error) {
	start := time.Now()
	g, contacts, err := s.loadNetwork(ctx, ownerID)

	status := "success"
	if err != nil {
		status = "error"
		s.logger.Error("network load failed", logging.String("owner_id", ownerID), logging.Error(err))
	} else {
		s.logger.Debug("network loaded",
			append(logging.GraphSize(g.Len(), g.EdgeCount()),
				logging.String("owner_id", ownerID),
				logging.Latency(time.Since(start)))...)
	}
	if s.metrics != nil {
		s.metrics.RecordContactStoreLoad(status, time.Since(start))
	}
	return g, contacts, err
}

func (s *Store) loadNetwork(ctx context.Context, ownerID string) (*graph.NetworkGraph, graph.Contacts, error) {
	list, err := s.LoadContacts(ctx, ownerID)
	if err != nil {
		return nil, graph.Contacts{}, err
	}
	connections, err := s.LoadConnections(ctx, ownerID)
	if err != nil {
		return nil, graph.Contacts{}, err
	}

	b := graph.NewBuilder()
	for _, c := range list {
		b.AddNode(graph.NetworkNode{
			ID:          c.ID,
			Name:        c.Name,
			Company:     c.Company,
			Affiliation: c.Affiliation,
			Position:    c.Position,
		})
	}
	for _, conn := range connections {
		b.Connect(conn.From, conn.To)
	}

	g, err := b.Build()
	if err != nil {
		return nil, graph.Contacts{}, fmt.Errorf("failed to build network for owner %q: %w", ownerID, err)
	}
	return g, graph.NewContacts(list), nil
}
