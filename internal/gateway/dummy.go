package gateway

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// Synthetic odds for development and for running without an API key. The
// shapes mirror real odds API payloads captured in the replay log, with each
// market carrying a few clear value spots against Novig. Callers receive
// ordinary events; nothing marks them as synthetic.

type dummyLine struct {
	point float64
	a, b  int // home/over price, away/under price
}

type dummyBookOdds struct {
	h2hHome, h2hAway int
	spreads          dummyLine
	totals           dummyLine
}

type dummyGame struct {
	homeTeam, awayTeam string
	commenceInHours    int
	books              map[string]dummyBookOdds
}

var dummyGames = map[string][]dummyGame{
	"basketball_nba": {
		{
			homeTeam: "Washington Wizards", awayTeam: "Milwaukee Bucks", commenceInHours: 6,
			books: map[string]dummyBookOdds{
				"novig":      {h2hHome: -145, h2hAway: 130, spreads: dummyLine{-4.5, -112, -102}, totals: dummyLine{231.5, -112, -108}},
				"fliff":      {h2hHome: -135, h2hAway: 145, spreads: dummyLine{-4.5, -105, -115}, totals: dummyLine{231.5, -105, -110}},
				"draftkings": {h2hHome: -140, h2hAway: 135, spreads: dummyLine{-4.5, -108, -112}, totals: dummyLine{231.5, -110, -110}},
			},
		},
		{
			homeTeam: "Denver Nuggets", awayTeam: "Phoenix Suns", commenceInHours: 30,
			books: map[string]dummyBookOdds{
				"novig":      {h2hHome: -125, h2hAway: 118, spreads: dummyLine{-3.5, -110, -104}, totals: dummyLine{227.5, -115, -105}},
				"fliff":      {h2hHome: -120, h2hAway: 125, spreads: dummyLine{-3.5, -102, -110}, totals: dummyLine{227.5, -108, -104}},
				"draftkings": {h2hHome: -122, h2hAway: 122, spreads: dummyLine{-3.5, -106, -108}, totals: dummyLine{227.5, -112, -108}},
			},
		},
	},
	"americanfootball_nfl": {
		{
			homeTeam: "San Francisco 49ers", awayTeam: "Dallas Cowboys", commenceInHours: 54,
			books: map[string]dummyBookOdds{
				"novig":      {h2hHome: -175, h2hAway: 155, spreads: dummyLine{-3.5, -112, -102}, totals: dummyLine{44.5, -110, -108}},
				"fliff":      {h2hHome: -165, h2hAway: 165, spreads: dummyLine{-3.5, -104, -112}, totals: dummyLine{44.5, -106, -104}},
				"draftkings": {h2hHome: -170, h2hAway: 160, spreads: dummyLine{-3.5, -108, -110}, totals: dummyLine{44.5, -108, -110}},
			},
		},
		{
			homeTeam: "Buffalo Bills", awayTeam: "Kansas City Chiefs", commenceInHours: 74,
			books: map[string]dummyBookOdds{
				"novig":      {h2hHome: -115, h2hAway: 108, spreads: dummyLine{-2.5, -110, -104}, totals: dummyLine{48.5, -112, -102}},
				"fliff":      {h2hHome: -110, h2hAway: 118, spreads: dummyLine{-2.5, -102, -110}, totals: dummyLine{48.5, -106, -104}},
				"draftkings": {h2hHome: -112, h2hAway: 114, spreads: dummyLine{-2.5, -104, -112}, totals: dummyLine{48.5, -108, -106}},
			},
		},
	},
}

// Sharp and soft prices for the single fallback game served when a sport has
// no sample table. Every requested book gets a side so no caller breaks.
var (
	fallbackSharp = dummyBookOdds{h2hHome: -120, h2hAway: 110, spreads: dummyLine{-3.0, -110, -104}, totals: dummyLine{46.5, -112, -108}}
	fallbackSoft  = dummyBookOdds{h2hHome: -115, h2hAway: 120, spreads: dummyLine{-3.0, -104, -110}, totals: dummyLine{46.5, -106, -104}}
)

// GenerateDummyOdds builds synthetic featured-market events (h2h, spreads,
// totals) for one sport. Only markets present in the comma-separated markets
// argument are attached, and only requested books appear.
func GenerateDummyOdds(sportKey, markets string, bookKeys []string, now time.Time) []models.Event {
	requested := splitMarkets(markets)

	games := dummyGames[sportKey]
	if len(games) == 0 {
		games = []dummyGame{fallbackGame(bookKeys)}
	}

	events := make([]models.Event, 0, len(games))
	for idx, game := range games {
		event := models.Event{
			ID:           fmt.Sprintf("dummy_%s_%d_%d", sportKey, idx, now.Unix()),
			SportKey:     sportKey,
			CommenceTime: now.Add(time.Duration(game.commenceInHours) * time.Hour),
			HomeTeam:     game.homeTeam,
			AwayTeam:     game.awayTeam,
		}

		for _, bookKey := range bookKeys {
			odds, ok := game.books[bookKey]
			if !ok {
				continue
			}

			bookmaker := models.Bookmaker{
				Key:        bookKey,
				Title:      books.Label(bookKey),
				LastUpdate: now,
			}
			for _, marketKey := range requested {
				if market := buildDummyMarket(marketKey, odds, game.homeTeam, game.awayTeam, now); market != nil {
					bookmaker.Markets = append(bookmaker.Markets, *market)
				}
			}
			if len(bookmaker.Markets) > 0 {
				event.Bookmakers = append(event.Bookmakers, bookmaker)
			}
		}

		if len(event.Bookmakers) > 0 {
			events = append(events, event)
		}
	}

	return events
}

func buildDummyMarket(marketKey string, odds dummyBookOdds, home, away string, now time.Time) *models.Market {
	market := models.Market{Key: marketKey, LastUpdate: now}

	switch marketKey {
	case "h2h":
		market.Outcomes = []models.Outcome{
			{Name: home, Price: odds.h2hHome},
			{Name: away, Price: odds.h2hAway},
		}
	case "spreads":
		homePoint := odds.spreads.point
		awayPoint := -homePoint
		market.Outcomes = []models.Outcome{
			{Name: home, Price: odds.spreads.a, Point: &homePoint},
			{Name: away, Price: odds.spreads.b, Point: &awayPoint},
		}
	case "totals":
		point := odds.totals.point
		market.Outcomes = []models.Outcome{
			{Name: "Over", Price: odds.totals.a, Point: &point},
			{Name: "Under", Price: odds.totals.b, Point: &point},
		}
	default:
		return nil
	}

	return &market
}

func fallbackGame(bookKeys []string) dummyGame {
	game := dummyGame{
		homeTeam:        "Home Team",
		awayTeam:        "Away Team",
		commenceInHours: 24,
		books:           make(map[string]dummyBookOdds, len(bookKeys)),
	}
	for _, key := range bookKeys {
		if book, ok := books.Lookup(key); ok && book.BookType == models.BookTypeExchange {
			game.books[key] = fallbackSharp
		} else {
			game.books[key] = fallbackSoft
		}
	}
	return game
}

type dummyRoster struct {
	team    string
	players []string
}

var nbaRosters = []dummyRoster{
	{"Lakers", []string{"LeBron James", "Anthony Davis", "D'Angelo Russell", "Austin Reaves"}},
	{"Warriors", []string{"Stephen Curry", "Klay Thompson", "Draymond Green", "Andrew Wiggins"}},
	{"Celtics", []string{"Jayson Tatum", "Jaylen Brown", "Kristaps Porzingis", "Derrick White"}},
	{"Heat", []string{"Jimmy Butler", "Bam Adebayo", "Tyler Herro", "Duncan Robinson"}},
	{"Nuggets", []string{"Nikola Jokic", "Jamal Murray", "Michael Porter Jr.", "Aaron Gordon"}},
	{"Suns", []string{"Devin Booker", "Kevin Durant", "Bradley Beal", "Jusuf Nurkic"}},
	{"Bucks", []string{"Giannis Antetokounmpo", "Damian Lillard", "Khris Middleton", "Brook Lopez"}},
	{"76ers", []string{"Joel Embiid", "Tyrese Maxey", "Tobias Harris", "James Harden"}},
	{"Mavericks", []string{"Luka Doncic", "Kyrie Irving", "Tim Hardaway Jr.", "Grant Williams"}},
	{"Clippers", []string{"Kawhi Leonard", "Paul George", "James Harden", "Russell Westbrook"}},
}

var nflRosters = []dummyRoster{
	{"Chiefs", []string{"Patrick Mahomes", "Travis Kelce", "Isiah Pacheco", "Rashee Rice"}},
	{"Bills", []string{"Josh Allen", "Stefon Diggs", "James Cook", "Dawson Knox"}},
	{"49ers", []string{"Brock Purdy", "Christian McCaffrey", "Deebo Samuel", "George Kittle"}},
	{"Cowboys", []string{"Dak Prescott", "CeeDee Lamb", "Tony Pollard", "Jake Ferguson"}},
	{"Ravens", []string{"Lamar Jackson", "Mark Andrews", "Gus Edwards", "Zay Flowers"}},
	{"Bengals", []string{"Joe Burrow", "Ja'Marr Chase", "Joe Mixon", "Tee Higgins"}},
	{"Dolphins", []string{"Tua Tagovailoa", "Tyreek Hill", "Raheem Mostert", "Jaylen Waddle"}},
	{"Jets", []string{"Aaron Rodgers", "Breece Hall", "Garrett Wilson", "Tyler Conklin"}},
	{"Eagles", []string{"Jalen Hurts", "A.J. Brown", "D'Andre Swift", "DeVonta Smith"}},
	{"Giants", []string{"Daniel Jones", "Saquon Barkley", "Darius Slayton", "Darren Waller"}},
}

type pointRange struct {
	low, high float64
}

var propPointRanges = map[string]pointRange{
	"player_points":     {20.5, 35.5},
	"player_assists":    {5.5, 12.5},
	"player_rebounds":   {8.5, 15.5},
	"player_threes":     {2.5, 6.5},
	"player_rec_yds":    {50.5, 120.5},
	"player_pass_yds":   {200.5, 350.5},
	"player_rush_yds":   {50.5, 120.5},
	"player_anytime_td": {0.5, 2.5},
	"player_pass_tds":   {1.5, 3.5},
}

var defaultPropRange = pointRange{20.5, 35.5}

// GenerateDummyProps builds synthetic player prop events for one sport:
// three games, three players each. A player's line is rolled once per market
// and shared by every book, so every side is comparable across books. Novig
// quotes -105 both ways; the soft books quote wider.
func GenerateDummyProps(sportKey string, markets []string, bookKeys []string, now time.Time) []models.Event {
	rosters := nflRosters
	if sportKey == "basketball_nba" {
		rosters = nbaRosters
	}

	selected := make([]string, 0, len(markets))
	for _, market := range markets {
		normalized := models.NormalizePropMarket(market)
		if strings.HasPrefix(normalized, "player_") {
			selected = append(selected, normalized)
		}
	}
	if len(selected) == 0 {
		selected = []string{"player_points"}
	}

	events := make([]models.Event, 0, 3)
	for i := 0; i < 3 && i < len(rosters); i++ {
		roster := rosters[i]
		players := roster.players
		if len(players) > 3 {
			players = players[:3]
		}

		opponent := rosters[(i+3)%len(rosters)].team
		homeTeam, awayTeam := roster.team, opponent
		if rand.Intn(2) == 1 {
			homeTeam, awayTeam = opponent, roster.team
		}

		// Lines are per player per market, shared across books.
		lines := make(map[string]float64, len(players)*len(selected))
		for _, market := range selected {
			r, ok := propPointRanges[market]
			if !ok {
				r = defaultPropRange
			}
			for _, player := range players {
				raw := r.low + rand.Float64()*(r.high-r.low)
				lines[market+"|"+player] = math.Round(raw*2) / 2
			}
		}

		event := models.Event{
			ID:           fmt.Sprintf("dummy_%s_%s_at_%s", sportKey, slugify(awayTeam), slugify(homeTeam)),
			SportKey:     sportKey,
			CommenceTime: now.Add(time.Duration(24+rand.Intn(145)) * time.Hour),
			HomeTeam:     homeTeam,
			AwayTeam:     awayTeam,
		}

		for _, bookKey := range bookKeys {
			overPrice, underPrice := -105, -105
			if !strings.EqualFold(bookKey, "novig") {
				overPrice = softPropPrice()
				underPrice = softPropPrice()
			}

			bookmaker := models.Bookmaker{
				Key:        bookKey,
				Title:      books.Label(bookKey),
				LastUpdate: now,
			}
			for _, market := range selected {
				bookmaker.Markets = append(bookmaker.Markets,
					buildDummyPropMarket(market, players, lines, overPrice, underPrice, now))
			}
			event.Bookmakers = append(event.Bookmakers, bookmaker)
		}

		events = append(events, event)
	}

	return events
}

func buildDummyPropMarket(marketKey string, players []string, lines map[string]float64, overPrice, underPrice int, now time.Time) models.Market {
	market := models.Market{Key: marketKey, LastUpdate: now}

	for _, player := range players {
		playerName := player
		point := lines[marketKey+"|"+player]
		market.Outcomes = append(market.Outcomes,
			models.Outcome{Name: "Over", Price: overPrice, Point: &point, Description: &playerName},
			models.Outcome{Name: "Under", Price: underPrice, Point: &point, Description: &playerName},
		)
	}

	return market
}

func softPropPrice() int {
	if rand.Intn(2) == 0 {
		return -110
	}
	return -115
}

func splitMarkets(markets string) []string {
	parts := strings.Split(markets, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func slugify(value string) string {
	return strings.ToLower(strings.ReplaceAll(value, " ", "_"))
}
