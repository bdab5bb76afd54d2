package programs

// Status represents the workflow position of a program. It is the single
// source of truth; nothing outside the workflow engine may change it.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusQueried           Status = "queried"
	StatusAnsweredQuery     Status = "answered_query"
	StatusApproved          Status = "approved"
	StatusMMKAccepted       Status = "mmk_accepted"
	StatusPaymentInProgress Status = "payment_in_progress"
	StatusPaymentCompleted  Status = "payment_completed"
	StatusRejected          Status = "rejected"
)

// forwardPath is the ordered forward progression. StatusRejected is a
// side-branch and deliberately not part of the linear order.
var forwardPath = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusQueried,
	StatusAnsweredQuery,
	StatusApproved,
	StatusMMKAccepted,
	StatusPaymentInProgress,
	StatusPaymentCompleted,
}

var forwardRank = func() map[Status]int {
	ranks := make(map[Status]int, len(forwardPath))
	for i, s := range forwardPath {
		ranks[s] = i
	}
	return ranks
}()

var validStatuses = func() map[Status]bool {
	valid := make(map[Status]bool, len(forwardPath)+1)
	for _, s := range forwardPath {
		valid[s] = true
	}
	valid[StatusRejected] = true
	return valid
}()

var terminalStatuses = map[Status]bool{
	StatusRejected:         true,
	StatusPaymentCompleted: true,
}

// ParseStatus validates a persisted status string. Values outside the
// enumeration are rejected rather than defaulted.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !validStatuses[s] {
		return "", ErrUnknownStatus
	}
	return s, nil
}

func (s Status) String() string { return string(s) }

// IsValid returns true if the status is part of the enumeration.
func (s Status) IsValid() bool { return validStatuses[s] }

// IsTerminal returns true if no further transition is permitted.
func (s Status) IsTerminal() bool { return terminalStatuses[s] }

// Precedes reports whether a comes strictly before b on the forward path.
// StatusRejected is outside the order and never precedes nor follows.
func Precedes(a, b Status) bool {
	ra, okA := forwardRank[a]
	rb, okB := forwardRank[b]
	if !okA || !okB {
		return false
	}
	return ra < rb
}

// StatusMeta is presentation metadata exposed as data. The UI renders from
// this table instead of keeping its own label/color copies.
type StatusMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusMeta = map[Status]StatusMeta{
	StatusDraft:             {Label: "Draft", Color: "gray"},
	StatusSubmitted:         {Label: "Submitted", Color: "blue"},
	StatusQueried:           {Label: "Queried", Color: "orange"},
	StatusAnsweredQuery:     {Label: "Query Answered", Color: "teal"},
	StatusApproved:          {Label: "Approved", Color: "green"},
	StatusMMKAccepted:       {Label: "MMK Accepted", Color: "green"},
	StatusPaymentInProgress: {Label: "Payment In Progress", Color: "purple"},
	StatusPaymentCompleted:  {Label: "Payment Completed", Color: "green"},
	StatusRejected:          {Label: "Rejected", Color: "red"},
}

// Meta returns the presentation metadata for a status.
func (s Status) Meta() StatusMeta { return statusMeta[s] }

// TimelineState classifies a forward status relative to the program's
// current position.
type TimelineState string

const (
	TimelineCompleted TimelineState = "completed"
	TimelineCurrent   TimelineState = "current"
	TimelinePending   TimelineState = "pending"
)

// TimelineEntry is one step of the progress visualization.
type TimelineEntry struct {
	Status Status        `json:"status"`
	Label  string        `json:"label"`
	State  TimelineState `json:"state"`
}

// TimelineView is the full progress visualization for one program.
// Rejection is carried as a flag so it cannot corrupt the linear
// comparison of forward statuses.
type TimelineView struct {
	IsRejected bool            `json:"is_rejected"`
	Entries    []TimelineEntry `json:"entries"`
}

// TimelineFor builds the timeline for a program. For rejected programs the
// forward position is taken from the furthest stamped milestone, since the
// status field no longer records it.
func TimelineFor(p *Program) TimelineView {
	current := p.Status
	if p.IsRejected() {
		current = StatusDraft
		if p.SubmittedAt != nil {
			current = StatusSubmitted
		}
	}
	view := TimelineView{IsRejected: p.IsRejected()}
	for _, s := range forwardPath {
		entry := TimelineEntry{Status: s, Label: s.Meta().Label}
		switch {
		case Precedes(s, current) || (p.IsRejected() && s == current):
			entry.State = TimelineCompleted
		case s == current:
			entry.State = TimelineCurrent
		default:
			entry.State = TimelinePending
		}
		view.Entries = append(view.Entries, entry)
	}
	return view
}
