package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/goroutine"
	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
)

// SelectionStore описывает хранилище отметок и комментариев клиентов.
type SelectionStore interface {
	UpsertLike(ctx context.Context, clientID string, photoID uuid.UUID, liked bool) error
	UpsertComment(ctx context.Context, clientID string, photoID uuid.UUID, comment *string) error
	ListByClient(ctx context.Context, clientID string) ([]models.ClientSelection, error)
}

// SelectionNotifier рассылает события выбора наблюдателям (админской ленте).
type SelectionNotifier interface {
	BroadcastSelection(event SelectionEvent)
}

// SelectionEvent — подтверждённое изменение выбора клиента.
type SelectionEvent struct {
	ClientID string     `json:"client_id"`
	PhotoID  uuid.UUID  `json:"photo_id"`
	Liked    bool       `json:"liked"`
	Comment  *string    `json:"comment,omitempty"`
	At       time.Time  `json:"at"`
}

// selKey идентифицирует одну пару (клиент, фотография).
type selKey struct {
	clientID string
	photoID  uuid.UUID
}

// selState — состояние синхронизации одной пары. Желаемые поля меняются
// мгновенно при каждом действии клиента, подтверждённые догоняют их по мере
// записи в базу. Пока запись в полёте, новые действия только обновляют
// желаемое состояние: в базу всегда уходит последний снимок, промежуточные
// состояния не отправляются.
type selState struct {
	seq      uint64
	ackedSeq uint64
	inflight bool

	liked      bool
	likedAcked bool
	likedDirty bool

	comment      *string
	commentAcked *string
	commentDirty bool
}

// SelectionService принимает отметки "нравится" и комментарии клиентов и
// сводит их с базой через отложенную запись с коалесцией по паре
// (клиент, фотография). При ошибке записи желаемое состояние откатывается
// к последнему подтверждённому.
type SelectionService struct {
	store SelectionStore
	hub   SelectionNotifier

	mu     sync.Mutex
	states map[selKey]*selState

	// dispatch выполняет запись; в тестах заменяется на синхронный вызов.
	dispatch func(fn func())
	// syncTimeout ограничивает одну попытку записи.
	syncTimeout time.Duration
}

// NewSelectionService создаёт сервис с асинхронной записью в хранилище.
func NewSelectionService(store SelectionStore, hub SelectionNotifier) *SelectionService {
	return &SelectionService{
		store:       store,
		hub:         hub,
		states:      make(map[selKey]*selState),
		dispatch:    goroutine.SafeGo,
		syncTimeout: 10 * time.Second,
	}
}

// Seed загружает сохранённый выбор клиента и наполняет им память сервиса,
// чтобы переключения после перезапуска отталкивались от реального состояния.
func (s *SelectionService) Seed(ctx context.Context, clientID string) ([]models.ClientSelection, error) {
	selections, err := s.store.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить выбор клиента")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sel := range selections {
		key := selKey{clientID: sel.ClientID, photoID: sel.PhotoID}
		if _, ok := s.states[key]; ok {
			continue
		}
		s.states[key] = &selState{
			liked:        sel.IsLiked,
			likedAcked:   sel.IsLiked,
			comment:      sel.Comment,
			commentAcked: sel.Comment,
		}
	}
	return selections, nil
}

// ToggleLike переключает отметку и сразу возвращает новое значение.
// Запись в базу выполняется асинхронно.
func (s *SelectionService) ToggleLike(clientID string, photoID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(selKey{clientID: clientID, photoID: photoID})
	st.liked = !st.liked
	st.likedDirty = true
	st.seq++
	s.flushLocked(selKey{clientID: clientID, photoID: photoID})
	return st.liked
}

// SetComment сохраняет комментарий к фотографии. Пробельные строки
// считаются пустым комментарием и хранятся как NULL; отметка "нравится"
// при этом не затрагивается.
func (s *SelectionService) SetComment(clientID string, photoID uuid.UUID, text string) {
	comment := normalizeText(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(selKey{clientID: clientID, photoID: photoID})
	st.comment = comment
	st.commentDirty = true
	st.seq++
	s.flushLocked(selKey{clientID: clientID, photoID: photoID})
}

// Flush дожидается записи всех несинхронизированных состояний. Используется
// при остановке сервера, чтобы не потерять последние действия клиентов.
func (s *SelectionService) Flush(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s.idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *SelectionService) idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		if st.inflight || st.likedDirty || st.commentDirty {
			return false
		}
	}
	return true
}

func (s *SelectionService) state(key selKey) *selState {
	st, ok := s.states[key]
	if !ok {
		st = &selState{}
		s.states[key] = st
	}
	return st
}

// flushLocked отправляет снимок желаемого состояния, если нет записи в
// полёте. Вызывается под s.mu.
func (s *SelectionService) flushLocked(key selKey) {
	st := s.states[key]
	if st.inflight || (!st.likedDirty && !st.commentDirty) {
		return
	}
	st.inflight = true

	snap := *st
	s.dispatch(func() {
		s.sync(key, snap)
	})
}

// sync выполняет одну попытку записи снимка. По завершении либо
// подтверждает состояние и шлёт событие наблюдателям, либо откатывает
// желаемое состояние к подтверждённому.
func (s *SelectionService) sync(key selKey, snap selState) {
	ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	defer cancel()

	var err error
	if snap.likedDirty {
		err = s.store.UpsertLike(ctx, key.clientID, key.photoID, snap.liked)
	}
	if err == nil && snap.commentDirty {
		err = s.store.UpsertComment(ctx, key.clientID, key.photoID, snap.comment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[key]
	st.inflight = false

	if err != nil {
		logger.Log.WithError(err).
			WithField("client_id", key.clientID).
			WithField("photo_id", key.photoID).
			Warn("не удалось сохранить выбор клиента, откат")
		st.liked = st.likedAcked
		st.comment = st.commentAcked
		st.likedDirty = false
		st.commentDirty = false
		st.seq = st.ackedSeq
		return
	}

	st.ackedSeq = snap.seq
	if snap.likedDirty {
		st.likedAcked = snap.liked
	}
	if snap.commentDirty {
		st.commentAcked = snap.comment
	}
	if st.seq == snap.seq {
		st.likedDirty = false
		st.commentDirty = false
	} else {
		// Пока снимок был в полёте, клиент успел ещё что-то поменять:
		// отправляем свежий снимок следующим заходом.
		s.flushLocked(key)
	}

	if s.hub != nil {
		s.hub.BroadcastSelection(SelectionEvent{
			ClientID: key.clientID,
			PhotoID:  key.photoID,
			Liked:    st.likedAcked,
			Comment:  st.commentAcked,
			At:       time.Now(),
		})
	}
}
