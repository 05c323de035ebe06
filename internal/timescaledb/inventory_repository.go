package timescaledb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/layout"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

type pgInventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) repository.InventoryRepository {
	return &pgInventoryRepository{pool: pool}
}

var inventoryDDL = []string{
	`CREATE TABLE IF NOT EXISTS datacenter (
		datacenter_id   SERIAL PRIMARY KEY,
		name            VARCHAR(100) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS aisle (
		aisle_id        SERIAL PRIMARY KEY,
		datacenter_id   INTEGER NOT NULL,
		label           VARCHAR(20) NOT NULL,
		CONSTRAINT fk_aisle_datacenter
			FOREIGN KEY (datacenter_id)
			REFERENCES datacenter(datacenter_id)
			ON DELETE CASCADE,
		CONSTRAINT uq_aisle_label_per_dc
			UNIQUE (datacenter_id, label)
	);`,
	`CREATE TABLE IF NOT EXISTS rack (
		rack_id         SERIAL PRIMARY KEY,
		aisle_id        INTEGER NOT NULL,
		label           VARCHAR(20) NOT NULL,
		max_servers     INTEGER NOT NULL DEFAULT 8,
		CONSTRAINT fk_rack_aisle
			FOREIGN KEY (aisle_id)
			REFERENCES aisle(aisle_id)
			ON DELETE CASCADE,
		CONSTRAINT uq_rack_label_per_aisle
			UNIQUE (aisle_id, label)
	);`,
	`CREATE TABLE IF NOT EXISTS server (
		server_id       SERIAL PRIMARY KEY,
		rack_id         INTEGER NOT NULL,
		hostname        VARCHAR(100) NOT NULL UNIQUE,
		serial_number   VARCHAR(100) NOT NULL UNIQUE,
		slot            INTEGER NOT NULL,
		CONSTRAINT fk_server_rack
			FOREIGN KEY (rack_id)
			REFERENCES rack(rack_id)
			ON DELETE CASCADE,
		CONSTRAINT uq_server_rack_slot UNIQUE (rack_id, slot),
		CONSTRAINT chk_server_slot_range CHECK (slot BETWEEN 1 AND 8)
	);`,
	`CREATE TABLE IF NOT EXISTS datacenter_cell (
		cell_id       SERIAL PRIMARY KEY,
		datacenter_id INTEGER NOT NULL,
		x             INTEGER NOT NULL,
		y             INTEGER NOT NULL,
		is_rack       BOOLEAN NOT NULL DEFAULT FALSE,
		rack_id       INTEGER,
		CONSTRAINT fk_cell_datacenter
			FOREIGN KEY (datacenter_id)
			REFERENCES datacenter(datacenter_id)
			ON DELETE CASCADE,
		CONSTRAINT fk_cell_rack
			FOREIGN KEY (rack_id)
			REFERENCES rack(rack_id)
			ON DELETE SET NULL,
		CONSTRAINT uq_cell_coord UNIQUE (datacenter_id, x, y)
	);`,
}

// EnsureLayout creates the inventory schema and, when no datacenter row
// exists yet, persists the generated room. Calling it again is a no-op.
func (r *pgInventoryRepository) EnsureLayout(ctx context.Context, name string, l *layout.Layout) error {
	for _, ddl := range inventoryDDL {
		if _, err := r.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create inventory schema: %w", err)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin layout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID int64
	err = tx.QueryRow(ctx, "SELECT datacenter_id FROM datacenter LIMIT 1;").Scan(&existingID)
	if err == nil {
		log.Info().Int64("datacenter_id", existingID).Msg("Datacenter layout already exists")
		return tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing datacenter: %w", err)
	}

	var dcID int64
	err = tx.QueryRow(ctx,
		"INSERT INTO datacenter (name) VALUES ($1) RETURNING datacenter_id;", name,
	).Scan(&dcID)
	if err != nil {
		return fmt.Errorf("failed to create datacenter: %w", err)
	}

	aisleIDs := make(map[string]int64)
	for _, aisleLabel := range l.AisleLabels() {
		var aisleID int64
		err = tx.QueryRow(ctx,
			"INSERT INTO aisle (datacenter_id, label) VALUES ($1, $2) RETURNING aisle_id;",
			dcID, aisleLabel,
		).Scan(&aisleID)
		if err != nil {
			return fmt.Errorf("failed to create aisle %s: %w", aisleLabel, err)
		}
		aisleIDs[aisleLabel] = aisleID
	}

	rackCells := make(map[layout.Point]int64)
	for _, rack := range l.Racks {
		var rackID int64
		err = tx.QueryRow(ctx,
			"INSERT INTO rack (aisle_id, label, max_servers) VALUES ($1, $2, $3) RETURNING rack_id;",
			aisleIDs[rack.AisleLabel], rack.Label, 8,
		).Scan(&rackID)
		if err != nil {
			return fmt.Errorf("failed to create rack %s: %w", rack.Label, err)
		}
		for _, cell := range rack.Cells {
			rackCells[cell] = rackID
		}
	}

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := layout.Point{X: x, Y: y}
			if rackID, isRack := rackCells[p]; isRack {
				_, err = tx.Exec(ctx,
					"INSERT INTO datacenter_cell (datacenter_id, x, y, is_rack, rack_id) VALUES ($1, $2, $3, TRUE, $4);",
					dcID, x, y, rackID,
				)
			} else {
				_, err = tx.Exec(ctx,
					"INSERT INTO datacenter_cell (datacenter_id, x, y, is_rack) VALUES ($1, $2, $3, FALSE);",
					dcID, x, y,
				)
			}
			if err != nil {
				return fmt.Errorf("failed to create cell (%d,%d): %w", x, y, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit layout: %w", err)
	}
	log.Info().Int64("datacenter_id", dcID).Int("racks", len(l.Racks)).Msg("Datacenter layout created")
	return nil
}

const serverSelectSQL = `
	SELECT
		s.server_id,
		s.rack_id,
		s.hostname,
		s.serial_number,
		s.slot,
		r.label AS rack_label,
		a.label AS aisle_label
	FROM server s
	JOIN rack r ON r.rack_id = s.rack_id
	JOIN aisle a ON a.aisle_id = r.aisle_id`

func (r *pgInventoryRepository) ListServers(ctx context.Context) ([]model.Server, error) {
	rows, err := r.pool.Query(ctx, serverSelectSQL+" ORDER BY a.aisle_id, s.rack_id, s.slot;")
	if err != nil {
		log.Error().Err(err).Msg("Failed to list servers")
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	defer rows.Close()

	servers := make([]model.Server, 0)
	for rows.Next() {
		var s model.Server
		if err := rows.Scan(&s.ServerID, &s.RackID, &s.Hostname, &s.SerialNumber, &s.Slot, &s.RackLabel, &s.AisleLabel); err != nil {
			log.Error().Err(err).Msg("Failed to scan server row")
			continue
		}
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating server rows: %w", err)
	}
	return servers, nil
}

func (r *pgInventoryRepository) FindServerByID(ctx context.Context, serverID int64) (*model.Server, error) {
	return r.findServer(ctx, serverSelectSQL+" WHERE s.server_id = $1;", serverID)
}

func (r *pgInventoryRepository) FindServerByHostname(ctx context.Context, hostname string) (*model.Server, error) {
	return r.findServer(ctx, serverSelectSQL+" WHERE s.hostname = $1;", hostname)
}

func (r *pgInventoryRepository) findServer(ctx context.Context, query string, arg interface{}) (*model.Server, error) {
	var s model.Server
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&s.ServerID, &s.RackID, &s.Hostname, &s.SerialNumber, &s.Slot, &s.RackLabel, &s.AisleLabel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrServerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find server: %w", err)
	}
	return &s, nil
}

// CreateServer enforces the placement invariants inside one transaction:
// the rack must exist, hostname and serial must be unused, and the slot
// must be free and within 1..max_servers. A nil slot takes the first
// free one.
func (r *pgInventoryRepository) CreateServer(ctx context.Context, rackID int64, rackLabel, hostname, serial string, slot *int) (*model.Server, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var maxServers int
	if rackID != 0 {
		err = tx.QueryRow(ctx,
			"SELECT rack_id, max_servers FROM rack WHERE rack_id = $1;", rackID,
		).Scan(&rackID, &maxServers)
	} else {
		err = tx.QueryRow(ctx,
			"SELECT rack_id, max_servers FROM rack WHERE label = $1;", rackLabel,
		).Scan(&rackID, &maxServers)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrRackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up rack: %w", err)
	}

	var taken bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM server WHERE hostname = $1 OR serial_number = $2);",
		hostname, serial,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if taken {
		return nil, repository.ErrDuplicateServer
	}

	usedSlots := make(map[int]bool)
	rows, err := tx.Query(ctx, "SELECT slot FROM server WHERE rack_id = $1 ORDER BY slot;", rackID)
	if err != nil {
		return nil, fmt.Errorf("failed to read used slots: %w", err)
	}
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		usedSlots[s] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating slots: %w", err)
	}

	var assigned int
	if slot == nil {
		for s := 1; s <= maxServers; s++ {
			if !usedSlots[s] {
				assigned = s
				break
			}
		}
		if assigned == 0 {
			return nil, repository.ErrRackFull
		}
	} else {
		if *slot < 1 || *slot > maxServers {
			return nil, repository.ErrSlotRange
		}
		if usedSlots[*slot] {
			return nil, repository.ErrSlotTaken
		}
		assigned = *slot
	}

	var serverID int64
	err = tx.QueryRow(ctx,
		"INSERT INTO server (rack_id, hostname, serial_number, slot) VALUES ($1, $2, $3, $4) RETURNING server_id;",
		rackID, hostname, serial, assigned,
	).Scan(&serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert server: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit server creation: %w", err)
	}

	return r.FindServerByID(ctx, serverID)
}

func (r *pgInventoryRepository) DeleteServerByHostname(ctx context.Context, hostname string) (*model.Server, error) {
	server, err := r.FindServerByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM server WHERE hostname = $1;", hostname)
	if err != nil {
		return nil, fmt.Errorf("failed to delete server: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrServerNotFound
	}
	log.Info().Str("hostname", hostname).Int64("server_id", server.ServerID).Msg("Server deleted")
	return server, nil
}
