package generator

import (
	"encoding/json"
	"strconv"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

type wordSearchDoc struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Grid  []string `json:"grid"`
	Words []string `json:"words"`
}

var wordSearchLists = map[puzzle.Difficulty]struct {
	size  int
	words []string
}{
	puzzle.DifficultyEasy:   {10, []string{"CAT", "DOG", "BIRD", "FISH", "FROG", "MOUSE"}},
	puzzle.DifficultyMedium: {12, []string{"PLANET", "COMET", "METEOR", "GALAXY", "NEBULA", "ORBIT", "SATURN", "LUNAR"}},
	puzzle.DifficultyHard:   {14, []string{"VIOLIN", "CELLO", "TRUMPET", "CLARINET", "PIANO", "OBOE", "HARP", "FLUTE", "DRUMS", "TUBA"}},
	puzzle.DifficultyExpert: {15, []string{"GLACIER", "VOLCANO", "CANYON", "TUNDRA", "SAVANNA", "DESERT", "PLATEAU", "LAGOON", "FJORD", "ATOLL", "ISTHMUS", "MESA"}},
}

// wordSearch drops each target onto its own row, reversing some for
// variety, and fills the rest of the grid with noise.
func (g *Generator) wordSearch(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	list, ok := wordSearchLists[difficulty]
	if !ok {
		list = wordSearchLists[puzzle.DifficultyEasy]
	}

	grid := make([][]byte, list.size)
	for r := range grid {
		grid[r] = make([]byte, list.size)
		for c := range grid[r] {
			grid[r][c] = byte('A' + g.rng.Intn(26))
		}
	}
	for i, word := range list.words {
		letters := []byte(word)
		if g.rng.Intn(2) == 1 {
			for a, b := 0, len(letters)-1; a < b; a, b = a+1, b-1 {
				letters[a], letters[b] = letters[b], letters[a]
			}
		}
		start := g.rng.Intn(list.size - len(letters) + 1)
		copy(grid[i][start:], letters)
	}

	rows := make([]string, list.size)
	for r := range rows {
		rows[r] = string(grid[r])
	}
	return marshal(wordSearchDoc{Rows: list.size, Cols: list.size, Grid: rows, Words: list.words})
}

type wordForgeDoc struct {
	Letters string         `json:"letters"`
	Center  string         `json:"center"`
	Words   []wordEntryDoc `json:"words"`
}

type wordEntryDoc struct {
	Word string `json:"word"`
	Clue string `json:"clue,omitempty"`
}

var wordForgeBoards = map[puzzle.Difficulty]struct {
	letters string
	center  string
	words   []string
}{
	puzzle.DifficultyEasy: {"ACEHNRT", "T", []string{
		"ENCHANTER", "ENCHANT", "CHATTER", "TRANCE", "CHANT", "TEACH", "CHEAT",
		"HEART", "EARTH", "CRATE", "TRACE", "REACT", "NECTAR", "CATER", "THREAT", "ATTACH",
	}},
	puzzle.DifficultyMedium: {"AEGLNOT", "G", []string{
		"TANGELO", "ELONGATE", "ANGEL", "ANGLE", "ALONG", "GOAT", "GATE", "GLEN",
		"TANGLE", "TANGO", "TOGA", "GELATO", "EAGLET", "GALLON", "LAGOON",
	}},
	puzzle.DifficultyHard: {"CDEIORV", "V", []string{
		"DIVORCE", "DIVORCED", "VOICE", "VOICED", "COVER", "COVERED", "COVE",
		"DIVE", "DIVER", "DOVE", "DRIVE", "DROVE", "VIDEO", "DEVICE", "CORVID", "DIVIDER",
	}},
	puzzle.DifficultyExpert: {"ABEILMR", "B", []string{
		"BALMIER", "MARBLE", "RAMBLE", "BRAMBLE", "AMBER", "BLAME", "LIMBER",
		"BRIM", "BEAM", "BLARE", "AMBLE", "BAILER", "LIBEL", "BARBELL", "EMBER", "AMIABLE",
	}},
}

func (g *Generator) wordForge(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	board, ok := wordForgeBoards[difficulty]
	if !ok {
		board = wordForgeBoards[puzzle.DifficultyEasy]
	}
	words := make([]wordEntryDoc, 0, len(board.words))
	for _, w := range board.words {
		words = append(words, wordEntryDoc{Word: w})
	}
	return marshal(wordForgeDoc{Letters: board.letters, Center: board.center, Words: words})
}

type crosswordDoc struct {
	Rows  int              `json:"rows"`
	Cols  int              `json:"cols"`
	Grid  []string         `json:"grid"`
	Clues crosswordClueDoc `json:"clues"`
}

type crosswordClueDoc struct {
	Across map[string]string `json:"across"`
	Down   map[string]string `json:"down"`
}

// crosswordBoards are word squares, so rows and columns read the same
// and every cell belongs to both an across and a down slot. Clues are
// listed in row order, then column order.
var crosswordBoards = map[puzzle.Difficulty]struct {
	grid   []string
	across []string
	down   []string
}{
	puzzle.DifficultyEasy: {
		grid:   []string{"BAT", "ALE", "TEN"},
		across: []string{"Flying mammal", "Pub pour", "Dozen minus two"},
		down:   []string{"Swing it at the plate", "Beer cousin", "Number after nine"},
	},
	puzzle.DifficultyMedium: {
		grid:   []string{"CARD", "AREA", "REAR", "DART"},
		across: []string{"One of fifty-two", "Surface measure", "Back end", "Bullseye seeker"},
		down:   []string{"Deck unit", "Zoned expanse", "Hindmost part", "Pub projectile"},
	},
	puzzle.DifficultyHard: {
		grid:   []string{"HEART", "EMBER", "ABUSE", "RESIN", "TREND"},
		across: []string{"Pump in the chest", "Glowing coal", "Misuse", "Violin bow coating", "Fashion direction"},
		down:   []string{"Card suit", "Dying fire remnant", "Treat badly", "Sticky tree sap", "Current direction"},
	},
	puzzle.DifficultyExpert: {
		grid:   []string{"SATOR", "AREPO", "TENET", "OPERA", "ROTAS"},
		across: []string{"Sower in the famous palindrome square", "The sower's name, reversed opera", "Held principle", "Aria showcase", "Duty wheels"},
		down:   []string{"Palindrome square, first column", "Second column of the square", "Principle held both ways", "Staged arias, reading down", "Wheels of duty, reading down"},
	},
}

// crossword numbers slots the standard way: scanning row-major, a cell
// that starts a slot takes the next number. In a full word square that
// yields 1..n down the top row and n+1..2n-1 down the first column.
func (g *Generator) crossword(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	board, ok := crosswordBoards[difficulty]
	if !ok {
		board = crosswordBoards[puzzle.DifficultyEasy]
	}
	n := len(board.grid)
	across := make(map[string]string, n)
	down := make(map[string]string, n)
	across["1"] = board.across[0]
	down["1"] = board.down[0]
	for j := 1; j < n; j++ {
		down[strconv.Itoa(j+1)] = board.down[j]
	}
	for i := 1; i < n; i++ {
		across[strconv.Itoa(n+i)] = board.across[i]
	}
	return marshal(crosswordDoc{
		Rows:  n,
		Cols:  n,
		Grid:  board.grid,
		Clues: crosswordClueDoc{Across: across, Down: down},
	})
}

type connectionsDoc struct {
	Groups []groupDoc `json:"groups"`
}

type groupDoc struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

var connectionsBoards = map[puzzle.Difficulty][]groupDoc{
	puzzle.DifficultyEasy: {
		{Name: "Shades of red", Words: []string{"RUBY", "CRIMSON", "SCARLET", "CHERRY"}},
		{Name: "Dog breeds", Words: []string{"BEAGLE", "BOXER", "COLLIE", "POODLE"}},
		{Name: "Planets", Words: []string{"MERCURY", "VENUS", "MARS", "NEPTUNE"}},
		{Name: "Hand tools", Words: []string{"HAMMER", "WRENCH", "CHISEL", "PLIERS"}},
	},
	puzzle.DifficultyMedium: {
		{Name: "___ board", Words: []string{"SURF", "CARD", "SOUND", "DASH"}},
		{Name: "___ house", Words: []string{"GREEN", "LIGHT", "PENT", "WARE"}},
		{Name: "___ stone", Words: []string{"LIME", "MILE", "BRIM", "CORNER"}},
		{Name: "___ fish", Words: []string{"SWORD", "CAT", "JELLY", "STAR"}},
	},
	puzzle.DifficultyHard: {
		{Name: "Chess pieces", Words: []string{"ROOK", "BISHOP", "KNIGHT", "PAWN"}},
		{Name: "Card games", Words: []string{"BRIDGE", "POKER", "HEARTS", "SOLITAIRE"}},
		{Name: "Things with banks", Words: []string{"RIVER", "BLOOD", "DATA", "PIGGY"}},
		{Name: "Corvids and kin", Words: []string{"CROW", "RAVEN", "MAGPIE", "JAY"}},
	},
	puzzle.DifficultyExpert: {
		{Name: "___ market", Words: []string{"STOCK", "FLEA", "BLACK", "SUPER"}},
		{Name: "___ hole", Words: []string{"MAN", "PIN", "KEY", "WORM"}},
		{Name: "___ storm", Words: []string{"BRAIN", "SAND", "THUNDER", "FIRE"}},
		{Name: "___ walk", Words: []string{"BOARD", "CAT", "JAY", "MOON"}},
	},
}

func (g *Generator) connections(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	groups, ok := connectionsBoards[difficulty]
	if !ok {
		groups = connectionsBoards[puzzle.DifficultyEasy]
	}
	return marshal(connectionsDoc{Groups: groups})
}
