package matching

// Pass identifies which key matched a source record.
type Pass int

const (
	PassNone Pass = iota
	PassThirdParty
	PassConfirmation
	PassGuestName
)

func (p Pass) String() string {
	switch p {
	case PassThirdParty:
		return "third_party_id"
	case PassConfirmation:
		return "confirmation_number"
	case PassGuestName:
		return "guest_name"
	default:
		return "none"
	}
}

// Claims is the set of system records (by index into the system slice)
// already consumed in a reconciliation run.
type Claims map[int]struct{}

func NewClaims() Claims { return make(Claims) }

func (c Claims) Has(i int) bool {
	_, ok := c[i]
	return ok
}

func (c Claims) Len() int { return len(c) }

func (c Claims) claim(i int) { c[i] = struct{}{} }

// TieBreak picks one of several unclaimed candidates, given in table order.
type TieBreak func(candidates []int) int

// FirstInTableOrder keeps the first candidate. Results depend on upload row order.
func FirstInTableOrder(candidates []int) int { return candidates[0] }

// Assignment pairs a source row with the system row that enriched it.
// System is -1 when nothing matched.
type Assignment struct {
	Source int
	System int
	Pass   Pass
}

func (a Assignment) Matched() bool { return a.System >= 0 }

type Matcher struct {
	TieBreak TieBreak
}

func NewMatcher() *Matcher {
	return &Matcher{TieBreak: FirstInTableOrder}
}

type passSpec struct {
	pass      Pass
	sourceKey func(*SourceRecord) string
	systemKey func(*SystemRecord) string
}

var passes = []passSpec{
	{
		pass:      PassThirdParty,
		sourceKey: func(r *SourceRecord) string { return r.OrderID },
		systemKey: func(r *SystemRecord) string { return r.NormalizedThirdParty },
	},
	{
		pass:      PassConfirmation,
		sourceKey: func(r *SourceRecord) string { return r.NormalizedConfirmation },
		systemKey: func(r *SystemRecord) string { return r.BookingID },
	},
	{
		pass:      PassGuestName,
		sourceKey: func(r *SourceRecord) string { return r.GuestName },
		systemKey: func(r *SystemRecord) string { return r.GuestName },
	},
}

// Match runs the three passes in priority order. Each pass only sees source
// rows left unmatched by earlier passes and only unclaimed system rows.
// Empty keys never match. claims may be nil; the updated set is returned.
func (m *Matcher) Match(source []SourceRecord, system []SystemRecord, claims Claims) ([]Assignment, Claims) {
	if claims == nil {
		claims = NewClaims()
	}
	tieBreak := m.TieBreak
	if tieBreak == nil {
		tieBreak = FirstInTableOrder
	}

	assignments := make([]Assignment, len(source))
	for i := range assignments {
		assignments[i] = Assignment{Source: i, System: -1, Pass: PassNone}
	}

	for _, p := range passes {
		index := buildIndex(system, p.systemKey)
		for i := range source {
			if assignments[i].Matched() {
				continue
			}
			key := p.sourceKey(&source[i])
			if key == "" {
				continue
			}
			candidates := unclaimed(index[key], claims)
			if len(candidates) == 0 {
				continue
			}
			chosen := tieBreak(candidates)
			claims.claim(chosen)
			assignments[i] = Assignment{Source: i, System: chosen, Pass: p.pass}
		}
	}
	return assignments, claims
}

// buildIndex maps key -> system indices in table order.
func buildIndex(system []SystemRecord, key func(*SystemRecord) string) map[string][]int {
	index := make(map[string][]int, len(system))
	for i := range system {
		k := key(&system[i])
		if k == "" {
			continue
		}
		index[k] = append(index[k], i)
	}
	return index
}

func unclaimed(candidates []int, claims Claims) []int {
	out := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if !claims.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
