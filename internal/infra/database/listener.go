package database

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const changeChannel = "timetable_changes"

// ChangeHandler receives one notification per committed write:
// the table it touched and the owning user.
type ChangeHandler func(collection string, userID int64)

// ChangeListener subscribes to the Postgres NOTIFY feed the migration
// triggers emit on every slot/log/override write. Payload format is
// "{table}:{user_id}". Consumers re-read full snapshots on change;
// notifications carry no row data.
type ChangeListener struct {
	pqListener *pq.Listener
	notify     <-chan *pq.Notification
	logger     *logrus.Entry

	mu       sync.Mutex
	handlers []ChangeHandler
	done     chan struct{}
}

func NewChangeListener(dataSourceName string, logger *logrus.Entry) (*ChangeListener, error) {
	l := &ChangeListener{
		logger: logger,
		done:   make(chan struct{}),
	}
	l.pqListener = pq.NewListener(dataSourceName, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.WithError(err).Warn("Change listener connection event")
		}
	})
	if err := l.pqListener.Listen(changeChannel); err != nil {
		l.pqListener.Close()
		return nil, err
	}
	l.notify = l.pqListener.Notify
	go l.run()
	return l, nil
}

// Subscribe registers a handler for subsequent change notifications.
// Handlers run on the listener goroutine and must not block.
func (l *ChangeListener) Subscribe(h ChangeHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

func (l *ChangeListener) run() {
	for {
		select {
		case <-l.done:
			return
		case n, ok := <-l.notify:
			if !ok {
				// Close() closed the channel; not a reconnect.
				return
			}
			if n == nil {
				// Reconnect marker; a change may have been missed while
				// disconnected, so tell handlers to re-read everything.
				l.dispatch("", 0)
				continue
			}
			collection, userID, ok := parseChangePayload(n.Extra)
			if !ok {
				l.logger.WithField("payload", n.Extra).Warn("Ignoring malformed change notification")
				continue
			}
			l.dispatch(collection, userID)
		}
	}
}

func (l *ChangeListener) dispatch(collection string, userID int64) {
	l.mu.Lock()
	handlers := make([]ChangeHandler, len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.Unlock()
	for _, h := range handlers {
		h(collection, userID)
	}
}

func parseChangePayload(payload string) (string, int64, bool) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], userID, true
}

func (l *ChangeListener) Close() error {
	close(l.done)
	return l.pqListener.Close()
}
