package consistency

// Clan is the ephemeral member index of one resolved clan.
type Clan struct {
	ID      int64
	Tag     string
	members map[int64]struct{}
}

// NewClan returns an empty clan.
func NewClan(id int64, tag string) *Clan {
	return &Clan{ID: id, Tag: tag, members: make(map[int64]struct{})}
}

// AddMember adds playerID and reports false when it was already a member.
func (c *Clan) AddMember(playerID int64) bool {
	if _, ok := c.members[playerID]; ok {
		return false
	}
	c.members[playerID] = struct{}{}
	return true
}

// HasMember reports whether playerID is a member.
func (c *Clan) HasMember(playerID int64) bool {
	_, ok := c.members[playerID]
	return ok
}

// Len returns the number of members.
func (c *Clan) Len() int {
	return len(c.members)
}
