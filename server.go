package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

//go:embed frontend
var frontendFS embed.FS

const (
	maxImportSize = 2 << 20 // 2 Mo
	maxClueBatch  = 50
)

// Vocabulary is the word store the server draws puzzles from.
type Vocabulary interface {
	Words(ctx context.Context) ([]Word, error)
	AddWords(ctx context.Context, words []Word) (int, error)
	UpdateClue(ctx context.Context, id, clue string) error
	ActiveFilter(ctx context.Context) ([]string, error)
	SetActiveFilter(ctx context.Context, tags []string) error
}

// ClueSuggester proposes clues for words that lack one.
type ClueSuggester interface {
	SuggestClues(ctx context.Context, words []Word) (map[string]string, error)
}

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	stop     chan struct{}
	once     sync.Once
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		stop:     make(chan struct{}),
	}
	go rl.cleanup(time.Minute)
	return rl
}

// cleanup drops stale entries every period until close is called.
func (rl *rateLimiter) cleanup(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// close stops the cleanup goroutine. It is safe to call more than once.
func (rl *rateLimiter) close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens += refill * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux      *http.ServeMux
	store    *Store
	vocab    Vocabulary
	clues    ClueSuggester
	events   *Broadcaster
	gridSize int
	clueRL   *rateLimiter
	moveRL   *rateLimiter
}

// NewServer creates a configured HTTP server. clues may be nil, which disables
// clue suggestion.
func NewServer(store *Store, vocab Vocabulary, clues ClueSuggester) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		store:    store,
		vocab:    vocab,
		clues:    clues,
		events:   NewBroadcaster(),
		gridSize: DefaultGridSize,
		clueRL:   newRateLimiter(5, time.Minute),  // 5 suggestion batches/min per IP
		moveRL:   newRateLimiter(60, time.Second), // 60 keystrokes/sec per IP
	}
	s.routes()
	return s
}

// Close releases the background work of the server. Live streams are not
// interrupted.
func (s *Server) Close() {
	s.clueRL.close()
	s.moveRL.close()
}

func (s *Server) routes() {
	// Vocabulary API
	s.mux.HandleFunc("POST /api/words", s.handleImportWords)
	s.mux.HandleFunc("GET /api/words", s.handleListWords)
	s.mux.HandleFunc("POST /api/words/clues", s.handleSuggestClues)
	s.mux.HandleFunc("GET /api/settings/filter", s.handleGetFilter)
	s.mux.HandleFunc("PUT /api/settings/filter", s.handleSetFilter)

	// Game API
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("DELETE /api/games/{id}", s.handleDeleteGame)
	s.mux.HandleFunc("POST /api/games/{id}/input", s.handleInput)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)
	s.mux.HandleFunc("GET /api/games/{id}/ws", s.handleGameSocket)

	// Frontend static files
	frontendDir, _ := fs.Sub(frontendFS, "frontend")
	fileServer := http.FileServer(http.FS(frontendDir))
	s.mux.HandleFunc("GET /game/{id}", s.handleGamePage)
	s.mux.Handle("GET /", fileServer)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Vocabulary handlers ---

// POST /api/words — import pipe-delimited vocabulary lines.
func (s *Server) handleImportWords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "Fichier trop volumineux (max 2 Mo)", http.StatusRequestEntityTooLarge)
		return
	}

	words, err := ParseVocabulary(bytes.NewReader(body))
	if err != nil {
		jsonError(w, "Fichier de vocabulaire illisible", http.StatusBadRequest)
		return
	}

	added, err := s.vocab.AddWords(r.Context(), words)
	if err != nil {
		log.Printf("import words: %v", err)
		jsonError(w, "Erreur lors de l'import", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"parsed": len(words), "added": added})
}

// GET /api/words — list vocabulary, optionally filtered by ?tag=.
func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.vocab.Words(r.Context())
	if err != nil {
		log.Printf("list words: %v", err)
		jsonError(w, "Erreur de lecture du vocabulaire", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, FilterByTags(words, r.URL.Query()["tag"]))
}

// POST /api/words/clues — fill in missing clues with Gemini.
func (s *Server) handleSuggestClues(w http.ResponseWriter, r *http.Request) {
	if !s.clueRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}
	if s.clues == nil {
		jsonError(w, "Suggestion de définitions non configurée", http.StatusServiceUnavailable)
		return
	}

	words, err := s.vocab.Words(r.Context())
	if err != nil {
		log.Printf("list words: %v", err)
		jsonError(w, "Erreur de lecture du vocabulaire", http.StatusInternalServerError)
		return
	}

	var missing []Word
	for _, wd := range words {
		if wd.Clue == "" || wd.Clue == defaultClue {
			missing = append(missing, wd)
		}
		if len(missing) == maxClueBatch {
			break
		}
	}

	suggested, err := s.clues.SuggestClues(r.Context(), missing)
	if err != nil {
		log.Printf("Gemini suggest error: %v", err)
		jsonError(w, "Erreur lors de la suggestion des définitions", http.StatusBadGateway)
		return
	}

	updated := 0
	for id, clue := range suggested {
		if err := s.vocab.UpdateClue(r.Context(), id, clue); err != nil {
			log.Printf("update clue: %v", err)
			continue
		}
		updated++
	}

	writeJSON(w, http.StatusOK, map[string]int{"missing": len(missing), "updated": updated})
}

// GET /api/settings/filter — current tag filter.
func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	tags, err := s.vocab.ActiveFilter(r.Context())
	if err != nil {
		log.Printf("read filter: %v", err)
		jsonError(w, "Erreur de lecture du filtre", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

// PUT /api/settings/filter — replace the tag filter.
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Champ 'tags' requis", http.StatusBadRequest)
		return
	}
	if err := s.vocab.SetActiveFilter(r.Context(), req.Tags); err != nil {
		log.Printf("write filter: %v", err)
		jsonError(w, "Erreur d'enregistrement du filtre", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tags": nonNil(req.Tags)})
}

// --- Game handlers ---

// gameView is the player-facing state of a game. It never contains answers.
type gameView struct {
	ID     string       `json:"id"`
	Size   int          `json:"size"`
	Cells  [][]CellView `json:"cells"`
	Clues  Clues        `json:"clues"`
	Solved bool         `json:"solved"`
}

func newGameView(g *GameSession) gameView {
	return gameView{
		ID:     g.ID,
		Size:   g.Layout.Size(),
		Cells:  g.Cells(),
		Clues:  g.Layout.Clues(),
		Solved: g.Solved(),
	}
}

// POST /api/games — generate a crossword from the vocabulary.
// The body is optional; {"tags": [...]} overrides the active filter.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags *[]string `json:"tags"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			jsonError(w, "Requête invalide", http.StatusBadRequest)
			return
		}
	}

	words, err := s.vocab.Words(r.Context())
	if err != nil {
		log.Printf("list words: %v", err)
		jsonError(w, "Erreur de lecture du vocabulaire", http.StatusInternalServerError)
		return
	}

	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	} else if tags, err = s.vocab.ActiveFilter(r.Context()); err != nil {
		log.Printf("read filter: %v", err)
		jsonError(w, "Erreur de lecture du filtre", http.StatusInternalServerError)
		return
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	layout, err := NewCrossword(words, tags, s.gridSize, rng)
	var poolErr *PoolError
	switch {
	case errors.As(err, &poolErr):
		jsonError(w, poolErr.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, ErrGenerationFailed):
		jsonError(w, "Impossible de générer une grille valide, ajoutez des mots", http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Printf("generate crossword: %v", err)
		jsonError(w, "Erreur lors de la génération", http.StatusInternalServerError)
		return
	}

	game := s.store.CreateGame(layout)
	log.Printf("Partie %s créée (%d mots)", game.ID, len(layout.Words))
	writeJSON(w, http.StatusCreated, newGameView(game))
}

// GET /api/games — list sessions.
func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	games := s.store.ListGames()
	type summary struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		Words     int       `json:"words"`
		Solved    bool      `json:"solved"`
	}
	list := make([]summary, 0, len(games))
	for _, g := range games {
		list = append(list, summary{ID: g.ID, CreatedAt: g.CreatedAt, Words: len(g.Layout.Words), Solved: g.Solved()})
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/games/{id} — current game state.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(game))
}

// DELETE /api/games/{id} — end a game.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteGame(r.PathValue("id")) {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/games/{id}/input — record one keystroke.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if !s.moveRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}

	var req inputMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	move, err := s.applyMove(game, req.Row, req.Col, req.Value)
	if err != nil {
		jsonError(w, moveErrorMessage(err), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, move)
}

// GET /api/games/{id}/events — SSE stream.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}
	s.events.ServeSSE(w, r, game.ID, func() Event { return gameStateEvent(game) })
}

// applyMove records a keystroke and notifies subscribers.
func (s *Server) applyMove(game *GameSession, row, col int, value string) (Move, error) {
	move, err := game.RecordInput(row, col, value)
	if err != nil {
		return Move{}, err
	}

	s.events.Publish(Event{Type: "cell_update", GameID: game.ID, Move: &move, Solved: move.Solved})
	if move.JustSolved {
		log.Printf("Partie %s résolue", game.ID)
		s.events.Publish(Event{Type: "solved", GameID: game.ID, Solved: true})
	}
	return move, nil
}

func gameStateEvent(game *GameSession) Event {
	return Event{Type: "game_state", GameID: game.ID, Cells: game.Cells(), Solved: game.Solved()}
}

func moveErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrOutOfBounds):
		return "Position hors limites"
	case errors.Is(err, ErrBlackCell):
		return "Case noire"
	case errors.Is(err, ErrInvalidInput):
		return "Valeur invalide : un caractère ou vide"
	default:
		return "Requête invalide"
	}
}

// --- Frontend page handlers ---

// GET /game/{id} — serve the game page.
func (s *Server) handleGamePage(w http.ResponseWriter, _ *http.Request) {
	data, _ := frontendFS.ReadFile("frontend/game.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
