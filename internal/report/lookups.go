package report

import "github.com/discord-recap/internal/models"

// Lookups are the immutable display tables derived from the member and
// channel rows, built once per run and freely shared for reads
type Lookups struct {
	MemberNames   map[string]string
	MemberAvatars map[string]string
	ChannelNames  map[string]string
}

// BuildLookups indexes members and channels by id. Channel names carry
// the "#" prefix the renderer expects.
func BuildLookups(members []models.Member, channels []models.Channel) Lookups {
	lk := Lookups{
		MemberNames:   make(map[string]string, len(members)),
		MemberAvatars: make(map[string]string),
		ChannelNames:  make(map[string]string, len(channels)),
	}
	for i := range members {
		m := &members[i]
		lk.MemberNames[m.MemberID] = m.DisplayName()
		if m.AvatarURL != "" {
			lk.MemberAvatars[m.MemberID] = m.AvatarURL
		}
	}
	for _, ch := range channels {
		lk.ChannelNames[ch.ChannelID] = "#" + ch.ChannelName
	}
	return lk
}

// MemberName resolves a member display name, falling back to the raw id
func (lk Lookups) MemberName(id string) string {
	if name, ok := lk.MemberNames[id]; ok {
		return name
	}
	return id
}

// ChannelName resolves a channel display name, falling back to the raw id
func (lk Lookups) ChannelName(id string) string {
	if name, ok := lk.ChannelNames[id]; ok {
		return name
	}
	return id
}
