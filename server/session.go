package server

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"showdown-scout/client"
	"showdown-scout/data"
	"showdown-scout/game"
	"showdown-scout/predict"
	"showdown-scout/tracker"
)

// Session is one tracked battle: the engine holding its state, a
// translator for lines fed over HTTP, and the report subscribers.
type Session struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	CreatedAt time.Time `json:"createdAt"`

	mu         sync.Mutex
	engine     *tracker.Engine
	translator *client.Translator
	dex        *data.Dex
	subs       map[chan predict.Report]struct{}
}

func newSession(roomID, selfName string, dex *data.Dex, log *zap.Logger) *Session {
	return &Session{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		CreatedAt:  time.Now(),
		engine:     tracker.New(tracker.WithLogger(log), tracker.WithSelfName(selfName)),
		translator: client.NewTranslator(selfName),
		dex:        dex,
		subs:       make(map[chan predict.Report]struct{}),
	}
}

// Apply folds one observation in and pushes a fresh report to
// subscribers at the decision points. Sends happen under the mutex so
// they can never race an Unsubscribe closing the channel; they are
// non-blocking, so the lock is held only for the buffered handoff.
func (s *Session) Apply(obs tracker.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Apply(obs)
	switch obs.(type) {
	case tracker.TurnMarker, tracker.MenuSnapshot:
	default:
		return
	}
	report := predict.Analyze(s.dex, s.engine.Snapshot())
	for ch := range s.subs {
		select {
		case ch <- report:
		default: // slow subscriber drops a frame, never blocks the stream
		}
	}
}

// Feed translates raw protocol lines posted over HTTP and applies them.
func (s *Session) Feed(lines []string) {
	for _, line := range lines {
		s.mu.Lock()
		obsList := s.translator.Translate(line)
		s.mu.Unlock()
		for _, obs := range obsList {
			s.Apply(obs)
		}
	}
}

func (s *Session) Snapshot() *game.BattleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

func (s *Session) Report() predict.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return predict.Analyze(s.dex, s.engine.Snapshot())
}

func (s *Session) Subscribe() chan predict.Report {
	ch := make(chan predict.Report, 4)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe closes the channel under the same mutex Apply sends
// under, so the close cannot overtake an in-flight send. Safe to call
// once per Subscribe.
func (s *Session) Unsubscribe(ch chan predict.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; !ok {
		return
	}
	delete(s.subs, ch)
	close(ch)
}

// opponentName returns the opposing player's display name once the
// battle narration has revealed it.
func (s *Session) opponentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.OpponentPlayer()
}

// finalAnalysis renders the closing report for archival.
func (s *Session) finalAnalysis() string {
	raw, err := json.Marshal(s.Report())
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *Session) teams() (self, opponent string) {
	st := s.Snapshot()
	return strings.Join(st.Self.Names(), ","), strings.Join(st.Opponent.Names(), ",")
}

// registry indexes live sessions by id and by battle room.
type registry struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	byRoom map[string]*Session
}

func newRegistry() *registry {
	return &registry{
		byID:   make(map[string]*Session),
		byRoom: make(map[string]*Session),
	}
}

func (r *registry) add(s *Session) {
	r.mu.Lock()
	r.byID[s.ID] = s
	if s.RoomID != "" {
		r.byRoom[s.RoomID] = s
	}
	r.mu.Unlock()
}

func (r *registry) get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *registry) forRoom(roomID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byRoom[roomID]
	return s, ok
}

func (r *registry) remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	if s.RoomID != "" {
		delete(r.byRoom, s.RoomID)
	}
	return s, true
}

func (r *registry) list() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out
}
