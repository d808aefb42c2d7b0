package purchase

// Status is the explicit buy-draft state. NONE -> DRAFT -> CONFIRMED, or
// DRAFT -> NONE on cancellation. A confirmed buy needs no further client
// action, so CONFIRMED permits starting a new draft.
type Status string

const (
	StatusNone      Status = "NONE"
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
)

func (s Status) String() string {
	return string(s)
}

// HasDraft reports whether a server-side draft is open.
func (s Status) HasDraft() bool {
	return s == StatusDraft
}
