package game

import "context"

// Service defines every player- and operator-facing game command. All
// methods are safe for concurrent use; each runs its read-validate-
// mutate sequence atomically against the world aggregate and persists
// a snapshot before returning.
type Service interface {
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)
	Profile(ctx context.Context, input *ProfileInput) (*ProfileOutput, error)
	Cultivate(ctx context.Context, input *CultivateInput) (*CultivateOutput, error)
	Daily(ctx context.Context, input *DailyInput) (*DailyOutput, error)
	Fight(ctx context.Context, input *FightInput) (*FightOutput, error)
	UseSkill(ctx context.Context, input *UseSkillInput) (*UseSkillOutput, error)
	MySkills(ctx context.Context, input *MySkillsInput) (*MySkillsOutput, error)
	PK(ctx context.Context, input *PKInput) (*PKOutput, error)
	CreateClan(ctx context.Context, input *CreateClanInput) (*CreateClanOutput, error)
	JoinClan(ctx context.Context, input *JoinClanInput) (*JoinClanOutput, error)
	LeaveClan(ctx context.Context, input *LeaveClanInput) (*LeaveClanOutput, error)
	ListClans(ctx context.Context, input *ListClansInput) (*ListClansOutput, error)
	ClanWar(ctx context.Context, input *ClanWarInput) (*ClanWarOutput, error)
	Admin(ctx context.Context, input *AdminInput) (*AdminOutput, error)
	Learn(ctx context.Context, input *LearnInput) (*LearnOutput, error)
	ChatMessage(ctx context.Context, input *ChatMessageInput) (*ChatMessageOutput, error)
}
