package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"falconsphere/internal/models"
	"falconsphere/internal/set"
	"falconsphere/pkg/cache"
	"falconsphere/pkg/filter"
	"falconsphere/pkg/websocket"
)

var (
	// ErrNoSession is the message shown when a join code does not match a
	// live game. The wording is load-bearing; the join screen renders it
	// verbatim.
	ErrNoSession = errors.New("No sessions exist with that code. Ask your host to start the game.")

	ErrNameRequired   = errors.New("a display name is required")
	ErrGameNotStarted = errors.New("the game has not started yet")
	ErrAlreadyStarted = errors.New("the game has already started")
	ErrGameOver       = errors.New("the game has ended")
	ErrPlayerNotFound = errors.New("player not found in this game")
	ErrPlayerFinished = errors.New("player has already answered every slide")
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateJoinCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(code)
}

// Service owns every mutation of live game documents. All writes funnel
// through the cache's optimistic update loop, and every successful
// mutation is fanned out to the session's room so clients track state by
// subscription instead of polling.
type Service struct {
	cache  *cache.RedisCache
	sets   *set.Service
	hub    *websocket.Hub
	filter *filter.Filter
}

func NewService(store *cache.RedisCache, sets *set.Service, hub *websocket.Hub, profanity *filter.Filter) *Service {
	return &Service{cache: store, sets: sets, hub: hub, filter: profanity}
}

// Create mints a join code and stores the initial game document with the
// chosen set's slides snapshotted in.
func (s *Service) Create(ctx context.Context, setID uint) (*models.GameState, error) {
	studySet, err := s.sets.Get(setID)
	if err != nil {
		return nil, fmt.Errorf("selected set: %w", err)
	}
	if len(studySet.Slides) == 0 {
		return nil, set.ErrNoSlides
	}

	slides := make([]models.SlideSnapshot, len(studySet.Slides))
	for i, slide := range studySet.Slides {
		slides[i] = models.SlideSnapshot{
			Question:         slide.Question,
			QuestionType:     slide.QuestionType,
			Options:          slide.Options,
			CorrectAnswer:    slide.CorrectAnswer,
			CorrectAnswers:   slide.CorrectAnswers,
			OpenEndedAnswers: slide.OpenEndedAnswers,
			ImageData:        slide.ImageData,
		}
	}

	// Re-mint on the rare code collision with another live game.
	for attempt := 0; attempt < 10; attempt++ {
		game := &models.GameState{
			Code:     generateJoinCode(),
			SetID:    studySet.ID,
			SetTitle: studySet.Title,
			Status:   models.GameCreated,
			Players:  []models.Player{},
			Slides:   slides,
			Version:  1,
		}
		err := s.cache.CreateGame(ctx, game)
		if err == nil {
			log.Printf("Created session %s for set %d (%d slides)", game.Code, game.SetID, len(slides))
			return game, nil
		}
		if !errors.Is(err, cache.ErrCodeTaken) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate a join code")
}

// Join adds a profanity-checked player to a live game and returns the
// minted player identity.
func (s *Service) Join(ctx context.Context, code, name string) (*models.Player, *models.GameState, error) {
	if name == "" {
		return nil, nil, ErrNameRequired
	}
	if err := s.filter.Check(name); err != nil {
		return nil, nil, err
	}

	player := models.Player{
		ID:              uuid.NewString(),
		Name:            name,
		Answers:         []string{},
		QuestionResults: []bool{},
		QuestionTimes:   []float64{},
	}

	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		if g.Status == models.GameEnded {
			return ErrGameOver
		}
		g.Players = append(g.Players, player)
		return nil
	})
	if err != nil {
		if errors.Is(err, cache.ErrGameNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, err
	}

	s.hub.Broadcast(code, websocket.EventPlayerList, game.Players)
	return &player, game, nil
}

// Kick removes a player by stable ID, not display name, so namesakes are
// never collateral damage.
func (s *Service) Kick(ctx context.Context, code, playerID string) error {
	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		i := g.FindPlayer(playerID)
		if i < 0 {
			return ErrPlayerNotFound
		}
		g.Players = append(g.Players[:i], g.Players[i+1:]...)
		return nil
	})
	if err != nil {
		return translateNotFound(err)
	}

	s.hub.Broadcast(code, websocket.EventPlayerKicked, map[string]string{"id": playerID})
	s.hub.Broadcast(code, websocket.EventPlayerList, game.Players)
	return nil
}

// RenamePlayer updates a player's display name after the profanity gate.
func (s *Service) RenamePlayer(ctx context.Context, code, playerID, name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if err := s.filter.Check(name); err != nil {
		return err
	}

	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		i := g.FindPlayer(playerID)
		if i < 0 {
			return ErrPlayerNotFound
		}
		g.Players[i].Name = name
		return nil
	})
	if err != nil {
		return translateNotFound(err)
	}

	s.hub.Broadcast(code, websocket.EventPlayerList, game.Players)
	return nil
}

// Start moves a game from created to started and freezes its start time.
func (s *Service) Start(ctx context.Context, code string) error {
	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		switch g.Status {
		case models.GameStarted:
			return ErrAlreadyStarted
		case models.GameEnded:
			return ErrGameOver
		}
		now := time.Now().UTC()
		g.Status = models.GameStarted
		g.StartTime = &now
		g.SlideIndex = 0
		return nil
	})
	if err != nil {
		return translateNotFound(err)
	}

	s.hub.Broadcast(code, websocket.EventGameStarted, map[string]interface{}{
		"code":        code,
		"slide_index": game.SlideIndex,
	})
	return nil
}

// AdvanceSlide moves the host's shared slide pointer forward; past the
// last slide the game ends. Satisfies the hub's SessionService interface.
func (s *Service) AdvanceSlide(code string) error {
	ctx := context.Background()
	ended := false
	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		if g.Status != models.GameStarted {
			return ErrGameNotStarted
		}
		if g.SlideIndex+1 >= len(g.Slides) {
			finish(g)
			ended = true
			return nil
		}
		g.SlideIndex++
		return nil
	})
	if err != nil {
		return translateNotFound(err)
	}

	if ended {
		s.afterEnd(ctx, game)
		return nil
	}
	s.hub.Broadcast(code, websocket.EventSlideChanged, map[string]interface{}{
		"slide_index": game.SlideIndex,
		"total":       len(game.Slides),
	})
	return nil
}

// End terminates a game immediately, whatever slide it is on.
func (s *Service) End(ctx context.Context, code string) error {
	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		if g.Status == models.GameEnded {
			return ErrGameOver
		}
		finish(g)
		return nil
	})
	if err != nil {
		return translateNotFound(err)
	}
	s.afterEnd(ctx, game)
	return nil
}

func finish(g *models.GameState) {
	now := time.Now().UTC()
	g.Status = models.GameEnded
	g.EndTime = &now
}

// afterEnd persists the final leaderboard and tells the room the game is
// over.
func (s *Service) afterEnd(ctx context.Context, game *models.GameState) {
	entries := Leaderboard(game)
	if err := s.cache.SetLeaderboard(ctx, game.Code, entries); err != nil {
		log.Printf("Error persisting leaderboard for session %s: %v", game.Code, err)
	}
	s.hub.Broadcast(game.Code, websocket.EventGameEnded, map[string]interface{}{
		"code":        game.Code,
		"leaderboard": entries,
	})
}

// Announce stores a host announcement on the game document and pushes it
// to the room.
func (s *Service) Announce(ctx context.Context, code, text string) error {
	if err := s.filter.Check(text); err != nil {
		return err
	}

	_, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		g.Announcement = text
		return nil
	})
	if err != nil {
		return translateNotFound(err)
	}

	s.hub.Broadcast(code, websocket.EventAnnouncement, map[string]string{"text": text})
	return nil
}

// SubmitAnswer grades a player's answer to their current slide and folds
// the result into the game document in one atomic update. Two players
// answering at the same instant both land; the optimistic loop retries the
// loser instead of dropping its write.
func (s *Service) SubmitAnswer(ctx context.Context, code, playerID string, answers []string, timeSpent float64) (bool, *models.Player, error) {
	var (
		correct bool
		updated models.Player
	)

	game, err := s.cache.UpdateGame(ctx, code, func(g *models.GameState) error {
		ok, player, err := applyAnswer(g, playerID, answers, timeSpent)
		if err != nil {
			return err
		}
		correct = ok
		updated = *player
		return nil
	})
	if err != nil {
		return false, nil, translateNotFound(err)
	}

	s.hub.Broadcast(code, websocket.EventScoreUpdate, Leaderboard(game))
	return correct, &updated, nil
}

// applyAnswer grades and records one answer against the player's current
// slide. It is the whole SubmitAnswer mutation; keeping it pure makes the
// scoring rules testable without a store.
func applyAnswer(g *models.GameState, playerID string, answers []string, timeSpent float64) (bool, *models.Player, error) {
	if g.Status != models.GameStarted {
		return false, nil, ErrGameNotStarted
	}
	i := g.FindPlayer(playerID)
	if i < 0 {
		return false, nil, ErrPlayerNotFound
	}
	player := &g.Players[i]
	if player.CurrentSlide >= len(g.Slides) {
		return false, nil, ErrPlayerFinished
	}

	slide := g.Slides[player.CurrentSlide]
	correct := gradeAnswer(slide, answers)

	player.Answers = append(player.Answers, joinAnswers(answers))
	player.QuestionResults = append(player.QuestionResults, correct)
	player.QuestionTimes = append(player.QuestionTimes, timeSpent)
	if correct {
		player.CorrectAnswers++
		player.Score += answerPoints(timeSpent)
	}
	player.CurrentSlide++
	player.Percentage = accuracy(player.CorrectAnswers, player.CurrentSlide)

	return correct, player, nil
}

// Snapshot serves the hub's state requests; the host view includes correct
// answers, player views do not.
func (s *Service) Snapshot(code string, isHost bool) (interface{}, error) {
	game, err := s.cache.GetGame(context.Background(), code)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return game.ToDTO(isHost), nil
}

// Get returns the raw game document.
func (s *Service) Get(ctx context.Context, code string) (*models.GameState, error) {
	game, err := s.cache.GetGame(ctx, code)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return game, nil
}

// Exists reports whether a join code refers to a live game.
func (s *Service) Exists(ctx context.Context, code string) (bool, error) {
	return s.cache.GameExists(ctx, code)
}

// GetLeaderboard returns the standings for a game, from the live document
// while the game exists, falling back to the persisted final leaderboard
// once the document has expired.
func (s *Service) GetLeaderboard(ctx context.Context, code string) ([]models.LeaderboardEntry, error) {
	game, err := s.cache.GetGame(ctx, code)
	if err == nil {
		return Leaderboard(game), nil
	}
	if !errors.Is(err, cache.ErrGameNotFound) {
		return nil, err
	}

	entries, err := s.cache.GetLeaderboard(ctx, code)
	if err != nil || len(entries) == 0 {
		return nil, ErrNoSession
	}
	return entries, nil
}

// rankPlayers sorts a copy of players into standings order: correct answers
// first, ties broken by time-weighted score, then name for a stable order.
// Both the leaderboard and the CSV export rank through here.
func rankPlayers(players []models.Player) []models.Player {
	ranked := make([]models.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CorrectAnswers != ranked[j].CorrectAnswers {
			return ranked[i].CorrectAnswers > ranked[j].CorrectAnswers
		}
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// Leaderboard builds the ranked standings for a game.
func Leaderboard(game *models.GameState) []models.LeaderboardEntry {
	ranked := rankPlayers(game.Players)
	entries := make([]models.LeaderboardEntry, len(ranked))
	for i, p := range ranked {
		entries[i] = models.LeaderboardEntry{
			Name:           p.Name,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			Percentage:     accuracy(p.CorrectAnswers, p.CurrentSlide),
		}
	}
	return entries
}

func joinAnswers(answers []string) string {
	if len(answers) == 1 {
		return answers[0]
	}
	joined := ""
	for i, a := range answers {
		if i > 0 {
			joined += "; "
		}
		joined += a
	}
	return joined
}

func translateNotFound(err error) error {
	if errors.Is(err, cache.ErrGameNotFound) {
		return ErrNoSession
	}
	return err
}
