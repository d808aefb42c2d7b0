package session

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoLazarte/marketplace-client/internal/cart"
	"github.com/JoLazarte/marketplace-client/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

func TestSaveCart_ReplacesSnapshotInOneTx(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM cart_lines").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO cart_lines").
		WithArgs(int64(1), "BOOK", "Rayuela", 30.0, 2, 5, 0.0, false, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO cart_lines").
		WithArgs(int64(2), "ALBUM", "Abraxas", 45.0, 1, 3, 10.0, true, "http://img").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.SaveCart(context.Background(), []cart.Line{
		{ID: 1, Kind: domain.KindBook, Title: "Rayuela", Price: 30, Quantity: 2, Stock: 5},
		{ID: 2, Kind: domain.KindAlbum, Title: "Abraxas", Price: 45, Quantity: 1, Stock: 3,
			DiscountPercentage: 10, DiscountActive: true, ImageURL: "http://img"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCart_RollsBackOnInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM cart_lines").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO cart_lines").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.SaveCart(context.Background(), []cart.Line{{ID: 1, Kind: domain.KindBook, Quantity: 1, Stock: 1}})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCart_PreservesOrderAndKinds(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{
		"product_id", "kind", "title", "price", "quantity", "stock",
		"discount_percentage", "discount_active", "image_url",
	}).
		AddRow(7, "ALBUM", "Clics Modernos", 50.0, 1, 4, 25.0, true, "").
		AddRow(3, "BOOK", "Ficciones", 20.0, 2, 9, 0.0, false, "")
	mock.ExpectQuery("SELECT (.+) FROM cart_lines").WillReturnRows(rows)

	lines, err := repo.LoadCart(context.Background())

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(7), lines[0].ID)
	assert.Equal(t, domain.KindAlbum, lines[0].Kind)
	assert.True(t, lines[0].DiscountActive)
	assert.Equal(t, domain.KindBook, lines[1].Kind)
}

func TestPurchaseState_RoundTrip(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE purchase_state SET draft_id").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveDraftID(context.Background(), 42))

	mock.ExpectQuery("SELECT draft_id, payment_method FROM purchase_state").
		WillReturnRows(sqlmock.NewRows([]string{"draft_id", "payment_method"}).AddRow(42, "CARD"))

	draftID, method, err := repo.LoadPurchaseState(context.Background())
	require.NoError(t, err)
	require.NotNil(t, draftID)
	assert.Equal(t, int64(42), *draftID)
	assert.Equal(t, "CARD", method)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPurchaseState_EmptyDraft(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT draft_id, payment_method FROM purchase_state").
		WillReturnRows(sqlmock.NewRows([]string{"draft_id", "payment_method"}).AddRow(nil, nil))

	draftID, method, err := repo.LoadPurchaseState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draftID)
	assert.Empty(t, method)
}

func TestAuthSession_LoadMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM auth_session").
		WillReturnRows(sqlmock.NewRows([]string{"token", "username", "first_name", "last_name", "email", "role"}))

	_, err := repo.LoadAuth(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAuthSession_SaveAndLoad(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO auth_session").
		WithArgs("tok-1", "jo", "Jo", "Lazarte", "jo@mail.com", "BUYER").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.SaveAuth(context.Background(), AuthRecord{
		Token: "tok-1", Username: "jo", FirstName: "Jo", LastName: "Lazarte",
		Email: "jo@mail.com", Role: "BUYER",
	}))

	mock.ExpectQuery("SELECT (.+) FROM auth_session").
		WillReturnRows(sqlmock.NewRows([]string{"token", "username", "first_name", "last_name", "email", "role"}).
			AddRow("tok-1", "jo", "Jo", "Lazarte", "jo@mail.com", "BUYER"))

	rec, err := repo.LoadAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", rec.Token)
	assert.Equal(t, "BUYER", rec.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}
