package readmodel

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tretabank/domain"
)

func testRecord(id, number string) *AccountRecord {
	return &AccountRecord{
		ID:            id,
		Number:        number,
		OwnerName:     "Alice",
		OwnerDocument: "12345678900",
		Balance:       decimal.RequireFromString("100.00"),
		Currency:      "BRL",
	}
}

func TestMemoryAccountRepository_SaveAndFind(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("acc-1", "111")))

	got, err := repo.FindByNumber(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.ID)
	assert.Equal(t, "Alice", got.OwnerName)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestMemoryAccountRepository_FindMissing(t *testing.T) {
	repo := NewMemoryAccountRepository()

	_, err := repo.FindByNumber(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMemoryAccountRepository_Update(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	record := testRecord("acc-1", "111")
	require.NoError(t, repo.Save(ctx, record))

	record.Balance = decimal.RequireFromString("60.00")
	require.NoError(t, repo.Update(ctx, record))

	got, err := repo.FindByNumber(ctx, "111")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("60.00")))
}

func TestMemoryAccountRepository_UpdateMissing(t *testing.T) {
	repo := NewMemoryAccountRepository()

	err := repo.Update(context.Background(), testRecord("ghost", "000"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("acc-1", "111")))

	first, err := repo.FindByNumber(ctx, "111")
	require.NoError(t, err)
	first.OwnerName = "Mallory"

	second, err := repo.FindByNumber(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Alice", second.OwnerName)
}
