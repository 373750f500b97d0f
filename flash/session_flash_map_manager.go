package flash

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/mvc"
	"github.com/mohitkumar/flowmvc/persistence"
	"go.uber.org/zap"
)

const SESSION_COOKIE = "FLASH_SESSION"

var _ mvc.FlashMapManager = new(SessionFlashMapManager)

// SessionFlashMapManager keeps the flash maps of each browser session in flash
// storage, the session is identified by the FLASH_SESSION cookie.
type SessionFlashMapManager struct {
	storage persistence.FlashStorage
	timeout time.Duration
	mu      sync.Mutex
}

func NewSessionFlashMapManager(storage persistence.FlashStorage, timeout time.Duration) *SessionFlashMapManager {
	return &SessionFlashMapManager{
		storage: storage,
		timeout: timeout,
	}
}

func (m *SessionFlashMapManager) SaveOutputFlashMap(flashMap *model.FlashMap, w http.ResponseWriter, r *http.Request) error {
	if flashMap == nil || flashMap.Attributes.Len() == 0 {
		return nil
	}
	sessionId := sessionIdOf(r)
	if sessionId == "" {
		sessionId = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     SESSION_COOKIE,
			Value:    sessionId,
			Path:     "/",
			HttpOnly: true,
		})
	}
	flashMap.StartExpirationPeriod(m.timeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	flashMaps, err := m.storage.GetFlashMaps(r.Context(), sessionId)
	if err != nil {
		return err
	}
	flashMaps = append(flashMaps, flashMap)
	logger.Debug("saving flash map", zap.String("session", sessionId), zap.String("target", flashMap.TargetRequestPath))
	return m.storage.SaveFlashMaps(r.Context(), sessionId, flashMaps, m.timeout)
}

// RetrieveAndUpdate removes and returns the flash map targeting r, dropping expired
// maps on the way. It returns nil when nothing matches.
func (m *SessionFlashMapManager) RetrieveAndUpdate(r *http.Request) (*model.FlashMap, error) {
	sessionId := sessionIdOf(r)
	if sessionId == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	flashMaps, err := m.storage.GetFlashMaps(r.Context(), sessionId)
	if err != nil || len(flashMaps) == 0 {
		return nil, err
	}
	now := time.Now()
	query := r.URL.Query()
	var match *model.FlashMap
	remaining := make([]*model.FlashMap, 0, len(flashMaps))
	for _, fm := range flashMaps {
		if fm.IsExpired(now) {
			continue
		}
		if fm.Matches(r.URL.Path, query) && moreSpecific(fm, match) {
			if match != nil {
				remaining = append(remaining, match)
			}
			match = fm
			continue
		}
		remaining = append(remaining, fm)
	}
	if match == nil && len(remaining) == len(flashMaps) {
		return nil, nil
	}
	if err := m.storage.SaveFlashMaps(r.Context(), sessionId, remaining, m.timeout); err != nil {
		return nil, err
	}
	return match, nil
}

func moreSpecific(candidate *model.FlashMap, current *model.FlashMap) bool {
	if current == nil {
		return true
	}
	if (candidate.TargetRequestPath != "") != (current.TargetRequestPath != "") {
		return candidate.TargetRequestPath != ""
	}
	return len(candidate.TargetRequestParams) > len(current.TargetRequestParams)
}

func sessionIdOf(r *http.Request) string {
	cookie, err := r.Cookie(SESSION_COOKIE)
	if err != nil {
		return ""
	}
	return cookie.Value
}

type inputFlashMapKey struct{}

// Middleware makes the flash map saved for the current request available through
// InputFlashMap.
func (m *SessionFlashMapManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flashMap, err := m.RetrieveAndUpdate(r)
		if err != nil {
			logger.Error("error retrieving flash map", zap.String("path", r.URL.Path), zap.Error(err))
		}
		if flashMap != nil {
			r = r.WithContext(context.WithValue(r.Context(), inputFlashMapKey{}, flashMap))
		}
		next.ServeHTTP(w, r)
	})
}

func InputFlashMap(ctx context.Context) *model.FlashMap {
	fm, _ := ctx.Value(inputFlashMapKey{}).(*model.FlashMap)
	return fm
}
