package membership

import "github.com/biluochun/biluochun/internal/db/models"

// Brief is the listing projection of a team.
type Brief struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Detailed is the single team projection. Invite is only set for members.
type Detailed struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	ModName     string `json:"mod_name"`
	Description string `json:"description"`
	Repo        string `json:"repo"`
	MemberCount int64  `json:"member_count"`
	Invite      string `json:"invite,omitempty"`
}

// Member is the public projection of a user.
type Member struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TeamInfo is the mutable team metadata. Absent fields are left unchanged.
type TeamInfo struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,max=255"`
	ModName     *string `json:"mod_name" form:"mod_name" validate:"omitempty,max=255"`
	Description *string `json:"desc" form:"desc" validate:"omitempty,max=4096"`
	Repo        *string `json:"repo" form:"repo" validate:"omitempty,max=512,url"`
}

// JoinRequest carries the invite code of the team to join.
type JoinRequest struct {
	InviteCode string `json:"invite_code" form:"invite_code" validate:"required"`
}

// AssignRequest lists the users to put into a team.
type AssignRequest struct {
	Users []uint64 `json:"users" form:"users" validate:"required,min=1,dive,gt=0"`
}

// BriefOf projects a team for listings.
func BriefOf(t *models.Team) Brief {
	return Brief{ID: t.ID, Name: t.Name}
}

func detailedOf(t *models.Team, members int64, withInvite bool) *Detailed {
	d := &Detailed{
		ID:          t.ID,
		Name:        t.Name,
		ModName:     t.ModName,
		Description: t.Description,
		Repo:        t.Repo,
		MemberCount: members,
	}

	if withInvite {
		d.Invite = t.Invite
	}

	return d
}

func (in *TeamInfo) apply(t *models.Team) {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.ModName != nil {
		t.ModName = *in.ModName
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Repo != nil {
		t.Repo = *in.Repo
	}
}
