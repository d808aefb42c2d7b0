package admin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoLazarte/marketplace-client/internal/catalog"
	"github.com/JoLazarte/marketplace-client/internal/domain"
)

type mockProductsAPI struct {
	createBookCalls  int
	updateBookCalls  int
	toggleBookCalls  int
	createAlbumCalls int
	updateAlbumCalls int
	toggleAlbumCalls int

	lastBook  any
	lastAlbum any
	lastToken string

	err      error
	statsRaw json.RawMessage
}

func (m *mockProductsAPI) CreateBook(_ context.Context, book any, token string) (json.RawMessage, error) {
	m.createBookCalls++
	m.lastBook = book
	m.lastToken = token
	return json.RawMessage(`{}`), m.err
}

func (m *mockProductsAPI) UpdateBook(_ context.Context, book any, token string) (json.RawMessage, error) {
	m.updateBookCalls++
	m.lastBook = book
	m.lastToken = token
	return json.RawMessage(`{}`), m.err
}

func (m *mockProductsAPI) ToggleBookStatus(_ context.Context, _ int64, _ bool, token string) error {
	m.toggleBookCalls++
	m.lastToken = token
	return m.err
}

func (m *mockProductsAPI) CreateAlbum(_ context.Context, album any, token string) (json.RawMessage, error) {
	m.createAlbumCalls++
	m.lastAlbum = album
	m.lastToken = token
	return json.RawMessage(`{}`), m.err
}

func (m *mockProductsAPI) UpdateAlbum(_ context.Context, album any, token string) (json.RawMessage, error) {
	m.updateAlbumCalls++
	m.lastAlbum = album
	m.lastToken = token
	return json.RawMessage(`{}`), m.err
}

func (m *mockProductsAPI) ToggleAlbumStatus(_ context.Context, _ int64, _ bool, token string) error {
	m.toggleAlbumCalls++
	m.lastToken = token
	return m.err
}

func (m *mockProductsAPI) AdminStats(_ context.Context, token string) (json.RawMessage, error) {
	m.lastToken = token
	return m.statsRaw, m.err
}

type noopSource struct{}

func (noopSource) List(context.Context, bool, string) ([]domain.Product, error) {
	return nil, nil
}

func (noopSource) Get(context.Context, int64, bool, string) (*domain.Product, error) {
	return nil, nil
}

func newTestService() (*Service, *mockProductsAPI, *int, *int) {
	api := &mockProductsAPI{}
	books := catalog.NewCache("books", noopSource{})
	albums := catalog.NewCache("albums", noopSource{})

	bookInvalidations, albumInvalidations := 0, 0
	books.OnInvalidate(func() { bookInvalidations++ })
	albums.OnInvalidate(func() { albumInvalidations++ })

	return NewService(api, books, albums), api, &bookInvalidations, &albumInvalidations
}

func validBookForm() BookForm {
	return BookForm{
		Title:      "Rayuela",
		Author:     "Julio Cortazar",
		Editorial:  "Sudamericana",
		ISBN:       "978-84-376-0494-7",
		GenreBooks: []string{"Novel"},
		Price:      25.5,
		Stock:      10,
		URLImage:   "https://covers.example.com/rayuela.jpg",
	}
}

func validAlbumForm() AlbumForm {
	return AlbumForm{
		Title:       "Artaud",
		Author:      "Pescado Rabioso",
		RecordLabel: "Talent",
		Year:        1973,
		ISRC:        "AR-TAL-73-00001",
		Genres:      []string{"Rock"},
		Price:       30,
		Stock:       5,
		URLImage:    "https://covers.example.com/artaud.jpg",
	}
}

func TestCreateBook_Success_InvalidatesCache(t *testing.T) {
	svc, api, bookInv, albumInv := newTestService()

	err := svc.CreateBook(context.Background(), validBookForm(), "token-1")

	require.NoError(t, err)
	assert.Equal(t, 1, api.createBookCalls)
	assert.Equal(t, "token-1", api.lastToken)
	assert.Equal(t, 1, *bookInv)
	assert.Equal(t, 0, *albumInv)
}

func TestCreateBook_MissingFields_NoRequest(t *testing.T) {
	svc, api, bookInv, _ := newTestService()

	form := validBookForm()
	form.Title = "   "
	form.ISBN = ""
	form.GenreBooks = nil

	err := svc.CreateBook(context.Background(), form, "token-1")

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "isbn")
	assert.Contains(t, verrs, "genreBooks")
	assert.Equal(t, 0, api.createBookCalls)
	assert.Equal(t, 0, *bookInv)
}

func TestCreateBook_RejectsBadNumbersAndURL(t *testing.T) {
	svc, _, _, _ := newTestService()

	form := validBookForm()
	form.Price = 0
	form.Stock = -1
	form.DiscountPercentage = 120
	form.URLImage = "not-a-url"

	err := svc.CreateBook(context.Background(), form, "token-1")

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "price")
	assert.Contains(t, verrs, "stock")
	assert.Contains(t, verrs, "discountPercentage")
	assert.Contains(t, verrs, "urlImage")
}

func TestCreateBook_TrimsFields(t *testing.T) {
	svc, api, _, _ := newTestService()

	form := validBookForm()
	form.Title = "  Rayuela  "

	require.NoError(t, svc.CreateBook(context.Background(), form, "token-1"))

	sent, ok := api.lastBook.(BookForm)
	require.True(t, ok)
	assert.Equal(t, "Rayuela", sent.Title)
}

func TestUpdateBook_BackendError_NoInvalidation(t *testing.T) {
	svc, api, bookInv, _ := newTestService()
	api.err = errors.New("backend down")

	err := svc.UpdateBook(context.Background(), validBookForm(), "token-1")

	require.Error(t, err)
	assert.Equal(t, 1, api.updateBookCalls)
	assert.Equal(t, 0, *bookInv)
}

func TestSetBookActive_InvalidatesCache(t *testing.T) {
	svc, api, bookInv, _ := newTestService()

	require.NoError(t, svc.SetBookActive(context.Background(), 7, false, "token-1"))

	assert.Equal(t, 1, api.toggleBookCalls)
	assert.Equal(t, 1, *bookInv)
}

func TestCreateAlbum_Success_InvalidatesAlbumCacheOnly(t *testing.T) {
	svc, api, bookInv, albumInv := newTestService()

	require.NoError(t, svc.CreateAlbum(context.Background(), validAlbumForm(), "token-1"))

	assert.Equal(t, 1, api.createAlbumCalls)
	assert.Equal(t, 0, *bookInv)
	assert.Equal(t, 1, *albumInv)
}

func TestCreateAlbum_MissingAlbumFields(t *testing.T) {
	svc, api, _, _ := newTestService()

	form := validAlbumForm()
	form.RecordLabel = ""
	form.ISRC = ""
	form.Year = 0
	form.Genres = nil

	err := svc.CreateAlbum(context.Background(), form, "token-1")

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "recordLabel")
	assert.Contains(t, verrs, "isrc")
	assert.Contains(t, verrs, "year")
	assert.Contains(t, verrs, "genres")
	assert.Equal(t, 0, api.createAlbumCalls)
}

func TestSetAlbumActive_BackendError(t *testing.T) {
	svc, api, _, albumInv := newTestService()
	api.err = errors.New("backend down")

	err := svc.SetAlbumActive(context.Background(), 3, true, "token-1")

	require.Error(t, err)
	assert.Equal(t, 1, api.toggleAlbumCalls)
	assert.Equal(t, 0, *albumInv)
}

func TestStats_DecodesCounts(t *testing.T) {
	svc, api, _, _ := newTestService()
	api.statsRaw = json.RawMessage(`{
		"activeBooksCount": 12,
		"inactiveBooksCount": 3,
		"activeAlbumsCount": 8,
		"inactiveAlbumsCount": 1
	}`)

	stats, err := svc.Stats(context.Background(), "token-1")

	require.NoError(t, err)
	assert.Equal(t, &Stats{
		ActiveBooksCount:    12,
		InactiveBooksCount:  3,
		ActiveAlbumsCount:   8,
		InactiveAlbumsCount: 1,
	}, stats)
}

func TestStats_BackendError(t *testing.T) {
	svc, api, _, _ := newTestService()
	api.err = errors.New("unauthorized")

	stats, err := svc.Stats(context.Background(), "token-1")

	require.Error(t, err)
	assert.Nil(t, stats)
}

func TestValidationErrors_MessageListsFields(t *testing.T) {
	verrs := ValidationErrors{"title": "title is required", "isbn": "isbn is required"}
	assert.Equal(t, "invalid fields: isbn, title", verrs.Error())
}
