package models

// UnlimitedBalance is the balance value upstream reports for tokens without a limit.
const UnlimitedBalance = 100000000

// Amount is a numeric value that may not be known yet.
type Amount struct {
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// Unknown returns an Amount with no value.
func Unknown() Amount {
	return Amount{}
}

// Known returns an Amount holding v.
func Known(v float64) Amount {
	return Amount{Value: v, Known: true}
}

// EndpointSession is the view state for one endpoint.
type EndpointSession struct {
	Balance      Amount      `json:"balance"`
	Usage        Amount      `json:"usage"`
	AccessExpiry Amount      `json:"accessExpiry"`
	Logs         []LogRecord `json:"logs"`
	TokenValid   bool        `json:"tokenValid"`
}

// DefaultSession returns the session state before any successful query.
func DefaultSession() EndpointSession {
	return EndpointSession{
		Balance:      Unknown(),
		Usage:        Unknown(),
		AccessExpiry: Unknown(),
		Logs:         []LogRecord{},
	}
}

// IsUnlimited reports whether the balance is the unlimited sentinel.
func (s EndpointSession) IsUnlimited() bool {
	return s.Balance.Known && s.Balance.Value == UnlimitedBalance
}

// NeverExpires reports whether access has no expiry.
func (s EndpointSession) NeverExpires() bool {
	return s.AccessExpiry.Known && s.AccessExpiry.Value == 0
}

// Remaining returns balance minus usage when both are known.
func (s EndpointSession) Remaining() Amount {
	if !s.Balance.Known || !s.Usage.Known {
		return Unknown()
	}
	return Known(s.Balance.Value - s.Usage.Value)
}

// Clone returns a copy that shares no slices with s.
func (s EndpointSession) Clone() EndpointSession {
	clone := s
	clone.Logs = make([]LogRecord, len(s.Logs))
	copy(clone.Logs, s.Logs)
	return clone
}
