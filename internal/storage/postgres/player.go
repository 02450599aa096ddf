package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

// storedItem accepts both inventory encodings found in player rows: the
// current object form and the legacy bare-string form that held only an
// item name.
type storedItem struct {
	inst       catalog.ItemInstance
	legacyName string
}

func (s *storedItem) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.legacyName)
	}
	return json.Unmarshal(data, &s.inst)
}

// PlayerRepository provides player persistence operations backed by a
// players table with JSONB inventory columns. It satisfies player.Repository.
type PlayerRepository struct {
	db      *pgxpool.Pool
	catalog *catalog.Catalog
}

// NewPlayerRepository creates a PlayerRepository. The catalog is used to
// resolve legacy string inventory entries to their templates on load.
//
// Precondition: db must be a valid, open connection pool; cat must be non-nil.
func NewPlayerRepository(db *pgxpool.Pool, cat *catalog.Catalog) *PlayerRepository {
	return &PlayerRepository{db: db, catalog: cat}
}

// Load retrieves a player by ID, normalizing legacy inventory entries and
// rebuilding the equipment index.
//
// Postcondition: Returns the player or player.ErrPlayerNotFound.
func (r *PlayerRepository) Load(ctx context.Context, id string) (*player.Player, error) {
	var (
		p          player.Player
		itemsRaw   []byte
		pendingRaw []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, role, gold, items, pending_gacha
		 FROM players WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Role, &p.Gold, &itemsRaw, &pendingRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, player.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("querying player: %w", err)
	}

	items, err := r.decodeItems(itemsRaw)
	if err != nil {
		return nil, fmt.Errorf("decoding items for player %s: %w", id, err)
	}
	p.Items = items
	p.Equipped = make(map[string]*catalog.ItemInstance)
	p.RebuildEquipped()

	if len(pendingRaw) > 0 {
		var pending player.PendingGacha
		if err := json.Unmarshal(pendingRaw, &pending); err != nil {
			return nil, fmt.Errorf("decoding pending gacha for player %s: %w", id, err)
		}
		p.PendingGacha = &pending
	}
	return &p, nil
}

// Save upserts the full player record.
//
// Postcondition: A subsequent Load returns an equivalent record.
func (r *PlayerRepository) Save(ctx context.Context, p *player.Player) error {
	itemsRaw, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	var pendingRaw []byte
	if p.PendingGacha != nil {
		pendingRaw, err = json.Marshal(p.PendingGacha)
		if err != nil {
			return fmt.Errorf("encoding pending gacha: %w", err)
		}
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO players (id, role, gold, items, pending_gacha)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET role = EXCLUDED.role,
		     gold = EXCLUDED.gold,
		     items = EXCLUDED.items,
		     pending_gacha = EXCLUDED.pending_gacha,
		     updated_at = NOW()`,
		p.ID, p.Role, p.Gold, itemsRaw, pendingRaw,
	)
	if err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

// Ensure returns the existing player or creates a fresh one with starting
// gold and the given role. Safe against concurrent first-time callers.
func (r *PlayerRepository) Ensure(ctx context.Context, id, role string) (*player.Player, error) {
	p, err := r.Load(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, player.ErrPlayerNotFound) {
		return nil, err
	}

	fresh := player.New(id, role)
	tag, err := r.db.Exec(ctx,
		`INSERT INTO players (id, role, gold, items)
		 VALUES ($1, $2, $3, '[]')
		 ON CONFLICT (id) DO NOTHING`,
		fresh.ID, fresh.Role, fresh.Gold,
	)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the race to another creator.
		return r.Load(ctx, id)
	}
	return fresh, nil
}

// decodeItems unmarshals an inventory column. Legacy string entries are
// resolved against the catalog at the template's minimum stats; names no
// longer in the catalog degrade to weightless junk so the row stays loadable.
func (r *PlayerRepository) decodeItems(raw []byte) ([]*catalog.ItemInstance, error) {
	var stored []storedItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	items := make([]*catalog.ItemInstance, 0, len(stored))
	for _, s := range stored {
		if s.legacyName == "" {
			inst := s.inst
			items = append(items, &inst)
			continue
		}
		items = append(items, r.normalizeLegacy(s.legacyName))
	}
	return items, nil
}

func (r *PlayerRepository) normalizeLegacy(name string) *catalog.ItemInstance {
	t, ok := r.catalog.Item(name)
	if !ok {
		return &catalog.ItemInstance{
			ID:       uuid.New().String(),
			Name:     name,
			Rarity:   "D",
			Category: catalog.CategoryJunk,
		}
	}
	return &catalog.ItemInstance{
		ID:       uuid.New().String(),
		Name:     t.Name,
		Attack:   t.Attack.Min,
		Defense:  t.Defense.Min,
		Speed:    t.Speed.Min,
		MP:       t.MP.Min,
		Weight:   t.Weight.Min,
		Rarity:   t.Rarity,
		Category: t.Category,
		Image:    t.Image,
	}
}
