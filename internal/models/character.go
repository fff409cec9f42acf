package models

// CharacterSummary is one roster entry returned by the siblings endpoint.
// Item levels stay as the formatted strings upstream sends ("1,620.00").
type CharacterSummary struct {
	ServerName         string `json:"ServerName" validate:"required"`
	CharacterName      string `json:"CharacterName" validate:"required"`
	CharacterLevel     int    `json:"CharacterLevel"`
	CharacterClassName string `json:"CharacterClassName"`
	ItemAvgLevel       string `json:"ItemAvgLevel"`
	ItemMaxLevel       string `json:"ItemMaxLevel"`
}

// CharacterProfile is the armory profile of a single character.
type CharacterProfile struct {
	CharacterImage   string     `json:"CharacterImage"`
	ExpeditionLevel  int        `json:"ExpeditionLevel"`
	PvpGradeName     string     `json:"PvpGradeName"`
	TownLevel        int        `json:"TownLevel"`
	TownName         string     `json:"TownName"`
	Title            string     `json:"Title"`
	GuildMemberGrade string     `json:"GuildMemberGrade"`
	GuildName        string     `json:"GuildName"`
	UsingSkillPoint  int        `json:"UsingSkillPoint"`
	TotalSkillPoint  int        `json:"TotalSkillPoint"`
	Stats            []Stat     `json:"Stats" validate:"dive"`
	Tendencies       []Tendency `json:"Tendencies" validate:"dive"`

	ServerName         string `json:"ServerName" validate:"required"`
	CharacterName      string `json:"CharacterName" validate:"required"`
	CharacterLevel     int    `json:"CharacterLevel"`
	CharacterClassName string `json:"CharacterClassName"`
	ItemAvgLevel       string `json:"ItemAvgLevel"`
	ItemMaxLevel       string `json:"ItemMaxLevel"`
}

type Stat struct {
	Type    string   `json:"Type" validate:"required"`
	Value   string   `json:"Value"`
	Tooltip []string `json:"Tooltip"`
}

type Tendency struct {
	Type     string `json:"Type" validate:"required"`
	Point    int    `json:"Point"`
	MaxPoint int    `json:"MaxPoint"`
}

// Roster is the queried character together with every character on the same
// expedition, in upstream order.
type Roster []CharacterSummary
