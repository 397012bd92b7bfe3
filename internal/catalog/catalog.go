// internal/catalog/catalog.go

// Package catalog lists the mini-games and the treehouse rewards they unlock.
//
// Each game, completed for the first time, unlocks UnlockPerGame pieces of
// furniture (capped at the furniture count) and collects the game's
// character. Replays unlock nothing.
package catalog

// GameType identifies a mini-game.
type GameType string

const (
	Detective      GameType = "detective"
	Matching       GameType = "matching"
	Spelling       GameType = "spelling"
	FillBlank      GameType = "fill_blank"
	Bubble         GameType = "bubble"
	WordSearch     GameType = "word_search"
	HiddenTreasure GameType = "hidden_treasure"
	Crossword      GameType = "crossword"
	Jigsaw         GameType = "jigsaw"
	RainDrops      GameType = "rain_drops"
)

// UnlockPerGame is how many furniture pieces a first completion unlocks.
const UnlockPerGame = 2

// Game describes one menu entry.
type Game struct {
	ID           GameType `json:"id"`
	Name         string   `json:"name"`
	CharacterID  int      `json:"characterId"`  // collectible shown in the treehouse
	ServerScored bool     `json:"serverScored"` // completed only by finishing a server session
}

// Furniture is a decorative treehouse item.
type Furniture struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var games = []Game{
	{Detective, "Emoji Detective", 54, true},
	{Matching, "Word Match", 133, false},
	{Spelling, "Spelling Bee", 15, false},
	{FillBlank, "Fill in Blank", 143, true},
	{Bubble, "Bubble Pop", 7, false},
	{WordSearch, "Word Search", 201, true},
	{HiddenTreasure, "Hidden Treasure", 63, true},
	{Crossword, "Crossword Puzzle", 235, true},
	{Jigsaw, "Word Builder", 137, false},
	{RainDrops, "Rain Drops", 186, false},
}

var furniture = []Furniture{
	{"f1", "Cozy Sofa"},
	{"f2", "Reading Lamp"},
	{"f3", "Soft Bed"},
	{"f4", "Big TV"},
	{"f5", "Snack Jar"},
	{"f6", "Game Console"},
	{"f7", "Potted Plant"},
	{"f8", "Music Player"},
	{"f9", "Bookshelf"},
	{"f10", "Wall Clock"},
	{"f11", "Toy Chest"},
	{"f12", "Balcony Chair"},
	{"f13", "Sunlight Window"},
	{"f14", "Art Station"},
	{"f15", "Telescope"},
}

// Games returns the menu in display order.
func Games() []Game { return append([]Game(nil), games...) }

// Lookup finds a game by id.
func Lookup(id GameType) (Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// ServerScored reports whether id is a known game that only a finished
// server session may complete.
func ServerScored(id GameType) bool {
	g, ok := Lookup(id)
	return ok && g.ServerScored
}

// FurnitureList returns every furniture item in unlock order.
func FurnitureList() []Furniture { return append([]Furniture(nil), furniture...) }

// Unlocked is the furniture count unlocked after n distinct completions.
func Unlocked(n int) int {
	return min(n*UnlockPerGame, len(furniture))
}

// Treehouse is the reward screen for one player.
type Treehouse struct {
	Completed  []GameType  `json:"completed"`
	Unlocked   []Furniture `json:"unlocked"`
	Locked     int         `json:"locked"`
	Characters []int       `json:"characters"` // character ids, completion order
}

// BuildTreehouse derives the reward screen from completed games, given in
// completion order. Unknown and repeated game ids are ignored.
func BuildTreehouse(completed []GameType) Treehouse {
	th := Treehouse{Completed: []GameType{}, Unlocked: []Furniture{}, Characters: []int{}}
	seen := make(map[GameType]bool)
	for _, id := range completed {
		g, ok := Lookup(id)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		th.Completed = append(th.Completed, id)
		th.Characters = append(th.Characters, g.CharacterID)
	}
	n := Unlocked(len(th.Completed))
	th.Unlocked = append(th.Unlocked, furniture[:n]...)
	th.Locked = len(furniture) - n
	return th
}
