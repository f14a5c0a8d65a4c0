package repos_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegecart/internal/domain"
	"collegecart/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	return db
}

func TestUserCreateAndLookup(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)

	u := &domain.User{ID: "u1", Email: "Asha@Campus.Test", Name: "Asha", Hash: "x"}
	require.NoError(t, users.Create(u))

	// Email lookup is case-insensitive.
	got, err := users.ByEmail("asha@campus.test")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = users.ByEmail("nobody@campus.test")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = users.ByID("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserFailureCounterLocksAtThreshold(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	require.NoError(t, users.Create(&domain.User{ID: "u1", Email: "a@b.co", Name: "A", Hash: "x"}))

	until := time.Now().Add(15 * time.Minute)
	for i := 0; i < 2; i++ {
		require.NoError(t, users.RecordFailure("u1", 3, until))
	}
	u, err := users.ByID("u1")
	require.NoError(t, err)
	assert.Equal(t, 2, u.LoginAttempts)
	assert.Empty(t, u.LockedUntil)

	require.NoError(t, users.RecordFailure("u1", 3, until))
	u, err = users.ByID("u1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.LockedUntil)

	require.NoError(t, users.ResetFailures("u1"))
	u, err = users.ByID("u1")
	require.NoError(t, err)
	assert.Zero(t, u.LoginAttempts)
	assert.Empty(t, u.LockedUntil)
}

func TestUserTokenLifecycle(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	require.NoError(t, users.Create(&domain.User{ID: "u1", Email: "a@b.co", Name: "A", Hash: "x"}))

	require.NoError(t, users.BindToken("tok-1", "u1"))
	u, err := users.TokenUser("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	require.NoError(t, users.RevokeToken("tok-1"))
	_, err = users.TokenUser("tok-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserDeleteCascade(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	require.NoError(t, users.Create(&domain.User{ID: "u1", Email: "a@b.co", Name: "A", Hash: "x"}))
	require.NoError(t, users.BindToken("tok-1", "u1"))
	db.MustExec(`INSERT INTO products(id,seller_id,name,category,condition,price)
	             VALUES('p1','u1','Thing','other','good',10)`)
	db.MustExec(`INSERT INTO orders(id,buyer_id,total,status,hostel,room_number,otp_hash,otp_expires_at,transaction_id)
	             VALUES('o1','u1',10,'pending','OBH','12','h','2099-01-01T00:00:00Z','t1')`)

	require.NoError(t, users.DeleteCascade("u1"))

	_, err := users.ByID("u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Pending orders flip to cancelled but are kept for the seller's records.
	var status string
	require.NoError(t, db.Get(&status, `SELECT status FROM orders WHERE id='o1'`))
	assert.Equal(t, "cancelled", status)
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := memdb(t)
	require.NoError(t, repos.SeedDemo(db))
	require.NoError(t, repos.SeedDemo(db))

	var nUsers, nProducts int
	require.NoError(t, db.Get(&nUsers, `SELECT COUNT(*) FROM users`))
	require.NoError(t, db.Get(&nProducts, `SELECT COUNT(*) FROM products`))
	assert.Equal(t, 3, nUsers)
	assert.Equal(t, 4, nProducts)
}
