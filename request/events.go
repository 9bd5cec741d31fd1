package request

// CandidateEventType marks how far a candidate got through filter evaluation.
type CandidateEventType int

const (
	// EventObserved: the candidate was delivered but did not match.
	EventObserved CandidateEventType = iota
	// EventMatched: the candidate matched the filter list.
	EventMatched
	// EventAccepted: the candidate completed the request.
	EventAccepted
)

// CandidateEvent is an observability record emitted per evaluated candidate.
type CandidateEvent struct {
	Type            CandidateEventType
	Address         string
	Name            string
	RSSI            int
	MatchedServices []string
}
