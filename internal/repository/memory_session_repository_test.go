package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/model"
	"TripGenie-App/internal/usecase"
)

func newSession(t *testing.T, id string) *usecase.TripSession {
	t.Helper()
	prefs := &model.UserPreferences{Destination: "Japan", Duration: "5 Days", Language: model.LanguageEnglish}
	g := gate.New(gate.FeatureContinuation, time.Second, gate.NewManualClock(time.Now()))
	return usecase.NewTripSession(id, prefs, g, time.Now())
}

func TestMemorySessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewMemorySessionRepository(10, time.Hour)
	session := newSession(t, "s1")

	repo.Save(session)
	got, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Same(t, session, got)
	assert.Equal(t, 1, repo.Len())

	repo.Delete("s1")
	_, ok = repo.Get("s1")
	assert.False(t, ok)
	assert.True(t, session.Closed(), "削除時にセッションが破棄される")
}

func TestMemorySessionRepository_EvictsOldest(t *testing.T) {
	repo := NewMemorySessionRepository(2, time.Hour)
	first := newSession(t, "a")
	repo.Save(first)
	repo.Save(newSession(t, "b"))
	repo.Save(newSession(t, "c"))

	_, ok := repo.Get("a")
	assert.False(t, ok)
	assert.True(t, first.Closed())
	assert.Equal(t, 2, repo.Len())
}

func TestMemorySessionRepository_Expires(t *testing.T) {
	repo := NewMemorySessionRepository(10, 50*time.Millisecond)
	session := newSession(t, "short")
	repo.Save(session)

	require.Eventually(t, func() bool {
		_, ok := repo.Get("short")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMemorySessionRepository_GetExtendsExpiry(t *testing.T) {
	ttl := 300 * time.Millisecond
	repo := NewMemorySessionRepository(10, ttl)
	session := newSession(t, "active")
	repo.Save(session)

	// 当初の有効期限を大きく超えても、参照され続ける間は残る
	deadline := time.Now().Add(3 * ttl)
	for time.Now().Before(deadline) {
		_, ok := repo.Get("active")
		require.True(t, ok, "参照中のセッションが期限切れになった")
		time.Sleep(ttl / 6)
	}
	assert.False(t, session.Closed())

	// 参照が止まれば期限切れで追い出される
	require.Eventually(t, func() bool {
		return repo.Len() == 0
	}, 5*ttl, 20*time.Millisecond)
	assert.True(t, session.Closed())
}
