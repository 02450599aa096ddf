package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
	"github.com/tent58518-cell/RPGgo/internal/storage/postgres"
	"github.com/tent58518-cell/RPGgo/internal/testutil"
)

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	items := []*catalog.ItemTemplate{
		{
			Name:     "Bronze Sword",
			Attack:   catalog.StatRange{Min: 2, Max: 6},
			Weight:   catalog.StatRange{Min: 8, Max: 12},
			Rarity:   "C",
			Category: catalog.SlotWeapon,
		},
	}
	cat, err := catalog.New(items, nil, nil, nil, nil)
	require.NoError(t, err)
	return cat
}

func setupRepo(t *testing.T) *postgres.PlayerRepository {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewPlayerRepository(pool, testCatalog(t))
}

func TestPlayerRepository_EnsureCreates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id := uniqueID("p")

	p, err := repo.Ensure(ctx, id, "knight")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "knight", p.Role)
	assert.Equal(t, player.StartingGold, p.Gold)
	assert.Empty(t, p.Items)

	// Second call returns the existing record, not a fresh one.
	p.Gold = 99
	require.NoError(t, repo.Save(ctx, p))
	again, err := repo.Ensure(ctx, id, "mage")
	require.NoError(t, err)
	assert.Equal(t, 99, again.Gold)
	assert.Equal(t, "knight", again.Role)
}

func TestPlayerRepository_LoadNotFound(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.Load(context.Background(), uniqueID("missing"))
	assert.ErrorIs(t, err, player.ErrPlayerNotFound)
}

func TestPlayerRepository_SaveRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id := uniqueID("p")

	p, err := repo.Ensure(ctx, id, "")
	require.NoError(t, err)

	sword := catalog.ItemInstance{
		ID: "item-1", Name: "Bronze Sword", Attack: 4, Weight: 10,
		Rarity: "C", Category: catalog.SlotWeapon,
	}
	_, err = p.AddItem(sword, 50)
	require.NoError(t, err)
	require.NoError(t, p.Equip("item-1", 50))
	p.Gold = 42
	p.PendingGacha = &player.PendingGacha{
		Item: catalog.ItemInstance{ID: "item-2", Name: "Bronze Sword", Weight: 9, Rarity: "C", Category: catalog.SlotWeapon},
		Gold: 4,
	}
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Gold)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Bronze Sword", got.Items[0].Name)
	assert.True(t, got.Items[0].Equipped)
	require.NotNil(t, got.Equipped[catalog.SlotWeapon], "equipment index rebuilt on load")
	require.NotNil(t, got.PendingGacha)
	assert.Equal(t, 4, got.PendingGacha.Gold)
}

func TestPlayerRepository_ClearsPendingGacha(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id := uniqueID("p")

	p, err := repo.Ensure(ctx, id, "")
	require.NoError(t, err)
	p.PendingGacha = &player.PendingGacha{
		Item: catalog.ItemInstance{ID: "x", Name: "Bronze Sword", Weight: 9, Rarity: "C", Category: catalog.SlotWeapon},
		Gold: 4,
	}
	require.NoError(t, repo.Save(ctx, p))

	p.PendingGacha = nil
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.PendingGacha)
}

func TestPlayerRepository_NormalizesLegacyItems(t *testing.T) {
	pool := testutil.NewPool(t)
	repo := postgres.NewPlayerRepository(pool, testCatalog(t))
	ctx := context.Background()
	id := uniqueID("legacy")

	// Simulate an old row whose inventory held bare item names.
	_, err := pool.Exec(ctx,
		`INSERT INTO players (id, role, gold, items)
		 VALUES ($1, '', 10, '["Bronze Sword", "Lost Relic"]')`,
		id,
	)
	require.NoError(t, err)

	p, err := repo.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Items, 2)

	// A known name resolves to its template at minimum stats.
	assert.Equal(t, "Bronze Sword", p.Items[0].Name)
	assert.Equal(t, 2, p.Items[0].Attack)
	assert.Equal(t, 8, p.Items[0].Weight)
	assert.Equal(t, catalog.SlotWeapon, p.Items[0].Category)
	assert.NotEmpty(t, p.Items[0].ID)

	// An unknown name degrades to weightless junk rather than failing the load.
	assert.Equal(t, "Lost Relic", p.Items[1].Name)
	assert.Equal(t, catalog.CategoryJunk, p.Items[1].Category)
	assert.Zero(t, p.Items[1].Weight)

	// Saving rewrites the row in the current encoding.
	require.NoError(t, repo.Save(ctx, p))
	got, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p.Items[0].ID, got.Items[0].ID)
}
