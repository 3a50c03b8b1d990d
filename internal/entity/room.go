package entity

const MaxPlayers = 2

type Player struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
}

// Room is one game session shared through its ID code.
// Version counts accepted writes; the registry uses it for conditional updates.
type Room struct {
	ID      string     `json:"id"`
	Players []*Player  `json:"players"`
	Game    *GameState `json:"game"`
	Version int64      `json:"version"`
}

func NewRoom(id string, creator *Player, game *GameState) *Room {
	return &Room{
		ID:      id,
		Players: []*Player{creator},
		Game:    game,
		Version: 1,
	}
}

func (that *Room) FindPlayer(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// RemovePlayer - drops the player from the room, reporting whether they were a member.
func (that *Room) RemovePlayer(id string) bool {
	for i, player := range that.Players {
		if player.ID == id {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			return true
		}
	}

	return false
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

// Clone - deep copy, so registry callers never alias stored state.
func (that *Room) Clone() *Room {
	players := make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		players[i] = &copied
	}

	var game *GameState
	if that.Game != nil {
		copied := *that.Game
		if that.Game.WinningLine != nil {
			line := *that.Game.WinningLine
			copied.WinningLine = &line
		}
		game = &copied
	}

	return &Room{
		ID:      that.ID,
		Players: players,
		Game:    game,
		Version: that.Version,
	}
}
