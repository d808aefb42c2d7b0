package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/JoLazarte/marketplace-client/internal/cart"
	"github.com/JoLazarte/marketplace-client/internal/domain"
	"github.com/JoLazarte/marketplace-client/internal/pricing"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to buy")
	ErrNotAuthenticated = errors.New("authentication required before checkout")

	// ErrNoDraft means confirm/cancel arrived without a created draft; the
	// purchase flow must restart from the cart.
	ErrNoDraft = errors.New("no buy draft in progress")

	ErrDraftInProgress = errors.New("a buy draft is already in progress")

	ErrNoPaymentMethod       = errors.New("no payment method selected")
	ErrInvalidPaymentMethod  = errors.New("unknown payment method")
	ErrCardIncomplete        = errors.New("card details are incomplete")
	ErrPaymentNotImplemented = errors.New("payment method not yet implemented")

	// ErrNotConfirmed covers a 2xx confirm response whose payload does not
	// acknowledge the purchase; the draft stays open for a retry.
	ErrNotConfirmed = errors.New("purchase could not be confirmed")
)

// buysAPI is the slice of the backend client the lifecycle needs.
type buysAPI interface {
	CreateBuy(ctx context.Context, body any, token string) (json.RawMessage, error)
	ConfirmBuy(ctx context.Context, buyID int64, token string) (json.RawMessage, error)
	EmptyBuy(ctx context.Context, buyID int64, token string) (json.RawMessage, error)
}

// stateRepo persists the draft id and payment method across restarts.
type stateRepo interface {
	SaveDraftID(ctx context.Context, id int64) error
	ClearDraftID(ctx context.Context) error
	SavePaymentMethod(ctx context.Context, method string) error
	ClearPaymentMethod(ctx context.Context) error
}

// BuyItem is one order line of a buy draft. Exactly one of BookID and
// MusicAlbumID is set, chosen by the line's Kind discriminant.
type BuyItem struct {
	BookID        *int64  `json:"bookId,omitempty"`
	MusicAlbumID  *int64  `json:"musicAlbumId,omitempty"`
	FinalPrice    float64 `json:"finalPrice"`
	TotalQuantity int     `json:"totalQuantity"`
}

type buyRequest struct {
	Items []BuyItem `json:"items"`
}

// Lifecycle drives a buy draft from creation through confirmation or
// cancellation, including the cart and persisted-state side effects.
type Lifecycle struct {
	api  buysAPI
	cart *cart.Store
	repo stateRepo

	mu      sync.Mutex
	status  Status
	draftID int64
	method  PaymentMethod
	card    CardDetails
}

func NewLifecycle(api buysAPI, cartStore *cart.Store, repo stateRepo) *Lifecycle {
	return &Lifecycle{
		api:    api,
		cart:   cartStore,
		repo:   repo,
		status: StatusNone,
	}
}

// Restore rehydrates a persisted draft after a restart.
func (l *Lifecycle) Restore(draftID *int64, method string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if draftID != nil {
		l.draftID = *draftID
		l.status = StatusDraft
	}
	if m := PaymentMethod(method); m.Valid() {
		l.method = m
	}
}

func (l *Lifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// DraftID returns the open draft's server id, if any.
func (l *Lifecycle) DraftID() (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draftID, l.status == StatusDraft
}

func (l *Lifecycle) PaymentMethod() PaymentMethod {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.method
}

// SelectPaymentMethod records the chosen method and persists it so the
// selection survives a reload of the checkout page.
func (l *Lifecycle) SelectPaymentMethod(ctx context.Context, method PaymentMethod) error {
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.method = method
	if err := l.repo.SavePaymentMethod(ctx, string(method)); err != nil {
		log.Printf("payment method save error: %v", err)
	}
	return nil
}

// SetCardDetails stores the inline card form; memory only.
func (l *Lifecycle) SetCardDetails(card CardDetails) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.card = card
}

// CreateDraft submits the cart contents as a new buy draft. The empty-cart
// and missing-token checks short-circuit before any network call.
func (l *Lifecycle) CreateDraft(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrNotAuthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status == StatusDraft {
		return 0, ErrDraftInProgress
	}

	lines := l.cart.Lines()
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}

	req := buyRequest{Items: make([]BuyItem, 0, len(lines))}
	for _, line := range lines {
		req.Items = append(req.Items, formatBuyItem(line))
	}

	raw, err := l.api.CreateBuy(ctx, req, token)
	if err != nil {
		return 0, fmt.Errorf("create buy: %w", err)
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil || created.ID == 0 {
		return 0, fmt.Errorf("create buy: backend returned no draft id")
	}

	l.draftID = created.ID
	l.status = StatusDraft
	if err := l.repo.SaveDraftID(ctx, created.ID); err != nil {
		log.Printf("draft id save error: %v", err)
	}
	return created.ID, nil
}

// Confirm completes the open draft. On success the cart, draft id and
// payment method are all cleared; on failure the draft stays open so the
// user may retry.
func (l *Lifecycle) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status != StatusDraft {
		return ErrNoDraft
	}
	if l.method == "" {
		return ErrNoPaymentMethod
	}
	if !l.method.Implemented() {
		return ErrPaymentNotImplemented
	}
	if l.method == PaymentCard && !l.card.Complete() {
		return ErrCardIncomplete
	}

	raw, err := l.api.ConfirmBuy(ctx, l.draftID, token)
	if err != nil {
		return fmt.Errorf("confirm buy: %w", err)
	}

	var reply struct {
		OK        bool `json:"ok"`
		Confirmed bool `json:"confirmed"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil || (!reply.OK && !reply.Confirmed) {
		return ErrNotConfirmed
	}

	l.finish(ctx, StatusConfirmed)
	return nil
}

// Cancel empties the open draft server-side and resets the local flow.
func (l *Lifecycle) Cancel(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status != StatusDraft {
		return ErrNoDraft
	}

	if _, err := l.api.EmptyBuy(ctx, l.draftID, token); err != nil {
		return fmt.Errorf("empty buy: %w", err)
	}

	l.finish(ctx, StatusNone)
	return nil
}

// finish applies the shared terminal side effects. Called with the mutex held.
func (l *Lifecycle) finish(ctx context.Context, status Status) {
	l.cart.Clear(ctx)
	l.draftID = 0
	l.method = ""
	l.card = CardDetails{}
	l.status = status

	if err := l.repo.ClearDraftID(ctx); err != nil {
		log.Printf("draft id clear error: %v", err)
	}
	if err := l.repo.ClearPaymentMethod(ctx); err != nil {
		log.Printf("payment method clear error: %v", err)
	}
}

func formatBuyItem(line cart.Line) BuyItem {
	item := BuyItem{
		FinalPrice:    pricing.EffectivePrice(line.Price, line.DiscountPercentage, line.DiscountActive),
		TotalQuantity: line.Quantity,
	}
	id := line.ID
	if line.Kind == domain.KindAlbum {
		item.MusicAlbumID = &id
	} else {
		item.BookID = &id
	}
	return item
}
