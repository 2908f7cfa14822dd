package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smallretail/fieldsync/internal/idempotency/domain"
	pkgdb "github.com/smallretail/fieldsync/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := pkgdb.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.SyncLog{}))
	return conn
}

func TestReserveCreatesOnce(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	vendorID := node.Generate()

	entry, created, err := repo.Reserve(ctx, conn, "order-1", domain.KindOrder, vendorID)
	require.NoError(t, err)
	require.True(t, created)
	require.False(t, entry.Committed())

	// The second reservation loses the race and gets the existing row back.
	again, created, err := repo.Reserve(ctx, conn, "order-1", domain.KindOrder, vendorID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, entry.LocalID, again.LocalID)
	require.False(t, again.Committed())
}

func TestFindUnseenKeyReturnsNil(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()

	entry, err := repo.Find(context.Background(), conn, "never-seen")
	require.NoError(t, err)
	require.Nil(t, entry)
	require.False(t, entry.Committed())
}

func TestRecordIsWriteOnce(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	vendorID := node.Generate()
	firstID := node.Generate()
	secondID := node.Generate()

	_, _, err = repo.Reserve(ctx, conn, "order-1", domain.KindOrder, vendorID)
	require.NoError(t, err)

	require.NoError(t, repo.Record(ctx, conn, "order-1", firstID))
	// A second Record must not overwrite the committed server id.
	require.NoError(t, repo.Record(ctx, conn, "order-1", secondID))

	entry, err := repo.Find(ctx, conn, "order-1")
	require.NoError(t, err)
	require.True(t, entry.Committed())
	require.Equal(t, firstID, *entry.ServerID)
}
