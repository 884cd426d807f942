package scheduling

import (
	"regexp"
	"strconv"
)

// Requester is a tagged variant: a real account, or the clinic blocking its
// own time. No sentinel ids and no placeholder rows are persisted for manual
// blocks; storage keeps a NULL requester instead.
type Requester struct {
	accountID uint
	manual    bool
}

func AccountRequester(id uint) Requester {
	return Requester{accountID: id}
}

func ManualBlockRequester() Requester {
	return Requester{manual: true}
}

func (r Requester) IsManualBlock() bool {
	return r.manual
}

// AccountID returns the account id; ok is false for manual blocks.
func (r Requester) AccountID() (uint, bool) {
	if r.manual {
		return 0, false
	}
	return r.accountID, true
}

// ServiceSelection is the closed counterpart for what is being booked:
// one or more catalog services, or a raw duration with no service attached
// (the manual-block path). Resolved against the catalog exactly once, at the
// booking-transaction boundary.
type ServiceSelection struct {
	serviceIDs []uint
	rawMinutes int
	raw        bool
}

func CatalogSelection(ids ...uint) ServiceSelection {
	return ServiceSelection{serviceIDs: ids}
}

func RawDurationSelection(minutes int) ServiceSelection {
	return ServiceSelection{rawMinutes: minutes, raw: true}
}

func (s ServiceSelection) IsRawDuration() bool {
	return s.raw
}

func (s ServiceSelection) CatalogIDs() []uint {
	return s.serviceIDs
}

func (s ServiceSelection) RawMinutes() int {
	return s.rawMinutes
}

var blockDurationRe = regexp.MustCompile(`DURATION_MINUTES=(\d+)`)

// ParseBlockDuration extracts DURATION_MINUTES=<n> from a manual block's
// notes. Absent or unparsable values fall back to the default; the result is
// always positive.
func ParseBlockDuration(notes string) int {
	m := blockDurationRe.FindStringSubmatch(notes)
	if m == nil {
		return DefaultSlotMinutes
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultSlotMinutes
	}
	return n
}
