package models

// Message represents a single message row from the archive.
// Messages are read-only: the pipeline never writes them back.
type Message struct {
	MessageID     string       `json:"message_id"`
	AuthorID      string       `json:"author_id"`
	ChannelID     string       `json:"channel_id"`
	Content       string       `json:"content"`
	CreatedAt     string       `json:"created_at"` // ISO timestamp as stored
	ReferenceID   *string      `json:"reference_id"`
	ReactionCount int          `json:"reaction_count"`
	Attachments   []Attachment `json:"attachments"`
}

// Attachment represents one media attachment on a message
type Attachment struct {
	URL         string `json:"url"`
	ProxyURL    string `json:"proxy_url"`
	ContentType string `json:"content_type"`
}

// ScanRow is the narrow projection used by the full-table scan.
// Only the columns the accumulators need are selected, since the scan
// touches every row in the archive.
type ScanRow struct {
	AuthorID    string  `json:"author_id"`
	ChannelID   string  `json:"channel_id"`
	CreatedAt   string  `json:"created_at"`
	ReferenceID *string `json:"reference_id"`
}

// ContentRow is the projection used by the content sampler
type ContentRow struct {
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
}

// Member represents a server member from the lookup table
type Member struct {
	MemberID   string `json:"member_id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	ServerNick string `json:"server_nick"`
	AvatarURL  string `json:"avatar_url"`
}

// DisplayName resolves the preferred display name for a member:
// server nickname first, then global name, then username
func (m *Member) DisplayName() string {
	if m.ServerNick != "" {
		return m.ServerNick
	}
	if m.GlobalName != "" {
		return m.GlobalName
	}
	return m.Username
}

// Channel represents a channel from the lookup table
type Channel struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
}

// ProgressEvent describes pipeline progress for a consumer.
// Events are emitted at least once per completed unit of work within a
// phase and once on every phase transition.
type ProgressEvent struct {
	Phase      int    `json:"phase"`
	PhaseLabel string `json:"phaseLabel"`
	PhasePct   int    `json:"phasePct"`
	OverallPct int    `json:"overallPct"`
	Error      string `json:"error,omitempty"`
}
