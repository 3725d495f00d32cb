package entity

// FeedState is the typed state the feed layer hands to the UI instead
// of raw repository errors.
type FeedState string

const (
	FeedStateLoading   FeedState = "loading"
	FeedStateReady     FeedState = "ready"
	FeedStateEmpty     FeedState = "empty"
	FeedStateEndOfFeed FeedState = "end_of_feed"
	FeedStateError     FeedState = "error"
)

type SignUpResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type FeedResponse struct {
	State      FeedState       `json:"state"`
	Candidates []ScoredListing `json:"candidates"`
	NextOffset int             `json:"next_offset"`
	HasMore    bool            `json:"has_more"`
	Retryable  bool            `json:"retryable,omitempty"`
}

type SwipeResponse struct {
	TargetID  string `json:"target_id"`
	Direction string `json:"direction"`
	Queued    bool   `json:"queued"`
}
