package telemetry

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

var ErrCollectorDisabled = errors.New("telemetry: collector disabled")

type CollectorOptions struct {
	// Endpoint is the analytics host; batches go to <Endpoint>/batch/.
	Endpoint string
	APIKey   string
	// DBPath is the sqlite outbox file.
	DBPath     string
	DistinctID string
	BatchSize  int
	Interval   time.Duration
	Client     *http.Client
	Logger     *log.Logger
}

// Collector buffers events in a sqlite outbox and ships them in batches.
// Events survive a failed delivery and go out with the next flush. Without
// an API key it accepts and discards events.
type Collector struct {
	endpoint   string
	apiKey     string
	distinctID string
	batchSize  int
	interval   time.Duration
	client     *http.Client
	logger     *log.Logger

	flushMu   sync.Mutex
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

type batchEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
	Timestamp  string         `json:"timestamp"`
	UUID       string         `json:"uuid"`
}

type batchRequest struct {
	APIKey string       `json:"api_key"`
	Batch  []batchEvent `json:"batch"`
}

// OpenCollector opens (or creates) the outbox. A collector without an API
// key is returned disabled and opens no database.
func OpenCollector(opts CollectorOptions) (*Collector, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := &Collector{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		apiKey:     opts.APIKey,
		distinctID: opts.DistinctID,
		batchSize:  opts.BatchSize,
		interval:   opts.Interval,
		client:     opts.Client,
		logger:     logger,
	}
	if c.distinctID == "" {
		c.distinctID = uuid.NewString()
	}
	if c.batchSize <= 0 {
		c.batchSize = 50
	}
	if c.interval <= 0 {
		c.interval = 10 * time.Second
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.apiKey == "" || c.endpoint == "" {
		logger.Info("analytics collector disabled", "reason", "no api key or endpoint")
		return c, nil
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = "~/.hedgehog/outbox.db"
	}
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("telemetry: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create outbox dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open outbox: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: connect outbox: %w", err)
	}
	c.db = db
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: migrate outbox: %w", err)
	}
	return c, nil
}

func (c *Collector) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS outbox (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			properties TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);
	`
	_, err := c.db.Exec(schema)
	return err
}

func (c *Collector) Enabled() bool {
	return c != nil && c.db != nil
}

func (c *Collector) DistinctID() string {
	if c == nil {
		return ""
	}
	return c.distinctID
}

// HandleEvent appends evt to the outbox.
func (c *Collector) HandleEvent(evt GameplayEvent) error {
	if !c.Enabled() {
		return nil
	}
	props, err := json.Marshal(evt.Properties)
	if err != nil {
		return fmt.Errorf("telemetry: encode %s: %w", evt.Name, err)
	}
	_, err = c.db.Exec(
		"INSERT OR IGNORE INTO outbox (id, name, properties, timestamp) VALUES (?, ?, ?, ?)",
		evt.ID.String(), evt.Name, string(props), evt.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("telemetry: queue %s: %w", evt.Name, err)
	}
	return nil
}

// Pending returns the number of events not yet delivered.
func (c *Collector) Pending() (int, error) {
	if !c.Enabled() {
		return 0, ErrCollectorDisabled
	}
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM outbox").Scan(&n); err != nil {
		return 0, fmt.Errorf("telemetry: count outbox: %w", err)
	}
	return n, nil
}

// Flush sends up to one batch and deletes it from the outbox on success.
// It returns the number of events delivered.
func (c *Collector) Flush(ctx context.Context) (int, error) {
	if !c.Enabled() {
		return 0, ErrCollectorDisabled
	}
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, name, properties, timestamp FROM outbox ORDER BY id LIMIT ?", c.batchSize)
	if err != nil {
		return 0, fmt.Errorf("telemetry: read outbox: %w", err)
	}
	var (
		ids   []string
		batch []batchEvent
	)
	for rows.Next() {
		var id, name, props, ts string
		if err := rows.Scan(&id, &name, &props, &ts); err != nil {
			rows.Close()
			return 0, fmt.Errorf("telemetry: scan outbox: %w", err)
		}
		properties := map[string]any{}
		if err := json.Unmarshal([]byte(props), &properties); err != nil {
			c.logger.Warn("dropping undecodable event", "id", id, "error", err)
		}
		properties["distinct_id"] = c.distinctID
		evt := batchEvent{Event: name, Properties: properties, Timestamp: ts}
		if parsed, err := ulid.Parse(id); err == nil {
			evt.UUID = uuid.UUID(parsed).String()
		}
		ids = append(ids, id)
		batch = append(batch, evt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("telemetry: read outbox: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := c.post(ctx, batchRequest{APIKey: c.apiKey, Batch: batch}); err != nil {
		return 0, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("telemetry: begin delete: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM outbox WHERE id = ?", id); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("telemetry: delete %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("telemetry: commit delete: %w", err)
	}
	return len(ids), nil
}

func (c *Collector) post(ctx context.Context, body batchRequest) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("telemetry: encode batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/batch/", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("telemetry: build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telemetry: send batch: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry: send batch: status %d", resp.StatusCode)
	}
	return nil
}

// Run flushes on every interval until ctx is done, then makes one last
// attempt to drain the outbox.
func (c *Collector) Run(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			c.drain(final)
			cancel()
			return
		case <-ticker.C:
			c.drain(ctx)
		}
	}
}

func (c *Collector) drain(ctx context.Context) {
	for {
		n, err := c.Flush(ctx)
		if err != nil {
			c.logger.Warn("analytics flush failed", "error", err)
			return
		}
		if n < c.batchSize {
			return
		}
	}
}

func (c *Collector) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.flushMu.Lock()
		defer c.flushMu.Unlock()
		c.closeErr = c.db.Close()
	})
	return c.closeErr
}
